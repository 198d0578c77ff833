// internal/services/cart_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/omarqassem/shopfront-backend/internal/models"
)

// CartStorage is the durable per-session store behind the cart. Every
// mutation is written through synchronously so a cart survives reloads
// and server restarts.
type CartStorage interface {
	Load(ctx context.Context, cartID string) ([]models.CartItem, error)
	Save(ctx context.Context, cartID string, items []models.CartItem) error
	Delete(ctx context.Context, cartID string) error
}

// RedisCartStorage keeps one JSON document per cart session.
type RedisCartStorage struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartStorage(client *redis.Client, ttl time.Duration) *RedisCartStorage {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &RedisCartStorage{client: client, ttl: ttl}
}

func cartKey(cartID string) string {
	return "cart:" + cartID
}

func (s *RedisCartStorage) Load(ctx context.Context, cartID string) ([]models.CartItem, error) {
	data, err := s.client.Get(ctx, cartKey(cartID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.CartItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		// A corrupt document is treated as an empty cart rather than a
		// permanently wedged session.
		return []models.CartItem{}, nil
	}
	return items, nil
}

func (s *RedisCartStorage) Save(ctx context.Context, cartID string, items []models.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(cartID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

func (s *RedisCartStorage) Delete(ctx context.Context, cartID string) error {
	if err := s.client.Del(ctx, cartKey(cartID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

// MemoryCartStorage backs tests and credential-less development runs.
type MemoryCartStorage struct {
	mu    sync.RWMutex
	carts map[string][]models.CartItem
}

func NewMemoryCartStorage() *MemoryCartStorage {
	return &MemoryCartStorage{carts: make(map[string][]models.CartItem)}
}

func (s *MemoryCartStorage) Load(ctx context.Context, cartID string) ([]models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CartItem(nil), s.carts[cartID]...), nil
}

func (s *MemoryCartStorage) Save(ctx context.Context, cartID string, items []models.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[cartID] = append([]models.CartItem(nil), items...)
	return nil
}

func (s *MemoryCartStorage) Delete(ctx context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, cartID)
	return nil
}

// CartService implements the shopper's cart. Two lines are the same
// line iff product id and variant id (or absence of one) both match;
// adding a matching item increments quantity instead of appending.
type CartService struct {
	storage CartStorage
}

type AddCartItemRequest struct {
	ProductID uuid.UUID  `json:"product_id" validate:"required"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Name      string     `json:"name" validate:"required"`
	Price     float64    `json:"price" validate:"gte=0"`
	Image     string     `json:"image"`
	Quantity  int        `json:"quantity" validate:"required,min=1"`
}

func NewCartService(storage CartStorage) *CartService {
	return &CartService{storage: storage}
}

// Items returns the current cart lines.
func (s *CartService) Items(ctx context.Context, cartID string) ([]models.CartItem, error) {
	return s.storage.Load(ctx, cartID)
}

// AddItem merges the item into the cart and persists the result.
func (s *CartService) AddItem(ctx context.Context, cartID string, req *AddCartItemRequest) ([]models.CartItem, error) {
	if req.Quantity < 1 {
		return nil, errors.New("quantity must be at least 1")
	}

	items, err := s.storage.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range items {
		if items[i].SameLine(req.ProductID, req.VariantID) {
			items[i].Quantity += req.Quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, models.CartItem{
			ProductID: req.ProductID,
			VariantID: req.VariantID,
			Name:      req.Name,
			Price:     req.Price,
			Image:     req.Image,
			Quantity:  req.Quantity,
		})
	}

	if err := s.storage.Save(ctx, cartID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// RemoveItem drops every line with the given product id. Removal
// granularity is by product id only, matching the storefront behavior;
// a product with several variants in the cart loses all of them.
func (s *CartService) RemoveItem(ctx context.Context, cartID string, productID uuid.UUID) ([]models.CartItem, error) {
	items, err := s.storage.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	kept := items[:0]
	for _, item := range items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}

	if err := s.storage.Save(ctx, cartID, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// UpdateQuantity sets the quantity on the product's lines. A quantity
// of zero or less removes the lines entirely.
func (s *CartService) UpdateQuantity(ctx context.Context, cartID string, productID uuid.UUID, quantity int) ([]models.CartItem, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, cartID, productID)
	}

	items, err := s.storage.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
		}
	}

	if err := s.storage.Save(ctx, cartID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, cartID string) error {
	return s.storage.Delete(ctx, cartID)
}

// CartTotal is the sum of line price times quantity.
func CartTotal(items []models.CartItem) float64 {
	var total float64
	for i := range items {
		total += items[i].Subtotal()
	}
	return total
}

// CartItemCount is the sum of quantities, used for the cart badge.
func CartItemCount(items []models.CartItem) int {
	var count int
	for i := range items {
		count += items[i].Quantity
	}
	return count
}
