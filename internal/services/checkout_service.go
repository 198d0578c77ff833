// internal/services/checkout_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/omarqassem/shopfront-backend/internal/models"
	"github.com/omarqassem/shopfront-backend/internal/utils"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrOrderNotFound = errors.New("order not found")
)

// CustomerInfo is copied verbatim into the order header; it is a
// snapshot, not a reference to any account.
type CustomerInfo struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
}

// StockViolation names one cart line whose requested quantity exceeds
// the known stock.
type StockViolation struct {
	ProductID uuid.UUID  `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Name      string     `json:"name"`
	Requested int        `json:"requested"`
	Available int        `json:"available"`
}

// InsufficientStockError aborts a checkout before any write happens.
type InsufficientStockError struct {
	Violations []StockViolation
}

func (e *InsufficientStockError) Error() string {
	names := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		names = append(names, v.Name)
	}
	return "insufficient stock for: " + strings.Join(names, ", ")
}

// CheckoutResult makes every partial-failure state of the order flow an
// explicit value: the order exists once OrderID is set, StockWarnings
// carries decrement failures that did NOT undo it, and EmailSent only
// changes the confirmation message, never the order.
type CheckoutResult struct {
	OrderID       uuid.UUID          `json:"order_id"`
	Total         float64            `json:"total"`
	Status        models.OrderStatus `json:"status"`
	EmailSent     bool               `json:"email_sent"`
	StockWarnings []string           `json:"stock_warnings,omitempty"`
}

// CheckoutService converts a cart snapshot into a persisted order and
// reconciles inventory.
type CheckoutService struct {
	db            *gorm.DB
	catalog       *CatalogService
	carts         *CartService
	inventory     *InventoryService
	notifications *NotificationService
}

func NewCheckoutService(db *gorm.DB, catalog *CatalogService, carts *CartService, inventory *InventoryService, notifications *NotificationService) *CheckoutService {
	return &CheckoutService{
		db:            db,
		catalog:       catalog,
		carts:         carts,
		inventory:     inventory,
		notifications: notifications,
	}
}

// ValidateStock checks every cart line against the known stock: the
// selected variant's stock when a variant is in play, the product's own
// stock otherwise. An unknown product or variant counts as zero
// available.
func ValidateStock(items []models.CartItem, catalog *CatalogService) []StockViolation {
	var violations []StockViolation
	for _, item := range items {
		available, known := catalog.AvailableStock(item.ProductID, item.VariantID)
		if !known {
			available = 0
		}
		if item.Quantity > available {
			violations = append(violations, StockViolation{
				ProductID: item.ProductID,
				VariantID: item.VariantID,
				Name:      item.Name,
				Requested: item.Quantity,
				Available: available,
			})
		}
	}
	return violations
}

// StockKind distinguishes the two decrement procedures.
type StockKind string

const (
	StockKindProduct StockKind = "product"
	StockKindVariant StockKind = "variant"
)

// StockDecrement is one post-commit bookkeeping step.
type StockDecrement struct {
	Kind     StockKind
	ID       uuid.UUID
	Quantity int
	Name     string
}

// PlanStockDecrements expands cart lines into the decrement sequence:
// the selected variant first when one is in play, then always the
// parent product for the same quantity.
func PlanStockDecrements(items []models.CartItem) []StockDecrement {
	plan := make([]StockDecrement, 0, len(items)*2)
	for _, item := range items {
		if item.VariantID != nil {
			plan = append(plan, StockDecrement{
				Kind:     StockKindVariant,
				ID:       *item.VariantID,
				Quantity: item.Quantity,
				Name:     item.Name,
			})
		}
		plan = append(plan, StockDecrement{
			Kind:     StockKindProduct,
			ID:       item.ProductID,
			Quantity: item.Quantity,
			Name:     item.Name,
		})
	}
	return plan
}

// PlaceOrder runs the order flow:
//
//  1. pre-flight stock validation; aborts with no writes on any violation
//  2. order header + items written in a single transaction
//  3. per-line stock decrements; failures are logged and surfaced as
//     warnings, never rolled back
//  4. cart cleared on successful submission regardless of step 3
//  5. confirmation email attempted; failure is non-fatal
func (s *CheckoutService) PlaceOrder(ctx context.Context, cartID string, customer *CustomerInfo) (*CheckoutResult, error) {
	if err := utils.ValidateStruct(customer); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	items, err := s.carts.Items(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	if violations := ValidateStock(items, s.catalog); len(violations) > 0 {
		return nil, &InsufficientStockError{Violations: violations}
	}

	order := &models.Order{
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		CustomerPhone:   customer.Phone,
		CustomerAddress: customer.Address,
		Total:           CartTotal(items),
		Status:          models.OrderStatusPending,
	}

	var orderItems []models.OrderItem
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		orderItems = s.buildOrderItems(order.ID, items)
		if err := tx.Create(&orderItems).Error; err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &CheckoutResult{
		OrderID: order.ID,
		Total:   order.Total,
		Status:  order.Status,
	}

	// Stock bookkeeping happens after the order is committed; a failed
	// decrement leaves the order standing.
	for _, step := range PlanStockDecrements(items) {
		var decErr error
		if step.Kind == StockKindVariant {
			decErr = s.inventory.DecrementVariantStock(step.ID, step.Quantity)
		} else {
			decErr = s.inventory.DecrementProductStock(step.ID, step.Quantity)
		}
		if decErr != nil {
			logrus.WithError(decErr).WithField(string(step.Kind)+"_id", step.ID).
				Error("Failed to decrement " + string(step.Kind) + " stock")
			result.StockWarnings = append(result.StockWarnings,
				fmt.Sprintf("%s stock for %q not adjusted", step.Kind, step.Name))
		}
	}

	if err := s.carts.Clear(ctx, cartID); err != nil {
		logrus.WithError(err).WithField("cart_id", cartID).Error("Failed to clear cart after checkout")
	}

	if s.notifications != nil {
		if err := s.notifications.SendOrderConfirmation(order, orderItems); err != nil {
			logrus.WithError(err).WithField("order_id", order.ID).
				Warn("Failed to send order confirmation email")
		} else {
			result.EmailSent = true
		}
	}

	s.catalog.Refresh()

	return result, nil
}

// GetOrder returns an order with its items for the confirmation page.
func (s *CheckoutService) GetOrder(id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

// buildOrderItems snapshots the cart lines under the given order id.
// Names and unit prices are fixed here; later catalog edits never
// rewrite them.
func (s *CheckoutService) buildOrderItems(orderID uuid.UUID, items []models.CartItem) []models.OrderItem {
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		productName, variantName := s.snapshotNames(&item)
		orderItems = append(orderItems, models.OrderItem{
			OrderID:     orderID,
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			ProductName: productName,
			VariantName: variantName,
			Price:       item.Price,
			Quantity:    item.Quantity,
		})
	}
	return orderItems
}

// snapshotNames resolves the catalog names for an order-item snapshot.
// The cart line's display name is the fallback when the catalog entry
// disappeared between pre-flight and submission.
func (s *CheckoutService) snapshotNames(item *models.CartItem) (string, string) {
	productName := item.Name
	variantName := ""

	if p, ok := s.catalog.GetProduct(item.ProductID); ok {
		if p.Name != "" {
			productName = p.Name
		}
		if item.VariantID != nil {
			if v := p.FindVariant(*item.VariantID); v != nil {
				variantName = v.Name
			}
		}
	}
	return productName, variantName
}
