// internal/services/catalog_service.go
package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/omarqassem/shopfront-backend/internal/models"
)

// CatalogService keeps an in-memory read model of the product catalog.
// Storefront reads and checkout pre-flight checks run against the
// snapshot; admin mutations and stock decrements trigger a reload. A
// failed load keeps the previous snapshot and retries on a fixed delay
// until a load succeeds.
type CatalogService struct {
	db            *gorm.DB
	retryInterval time.Duration

	mu       sync.RWMutex
	products []models.Product
	featured []models.Product
	byID     map[uuid.UUID]*models.Product
	loadedAt time.Time
	loading  bool
	lastErr  error
	retrying bool
}

// CatalogSnapshot is a point-in-time view of the read model.
type CatalogSnapshot struct {
	Products []models.Product
	Featured []models.Product
	LoadedAt time.Time
	Loading  bool
	Err      error
}

func NewCatalogService(db *gorm.DB, retryInterval time.Duration) *CatalogService {
	if retryInterval <= 0 {
		retryInterval = 5 * time.Second
	}
	return &CatalogService{
		db:            db,
		retryInterval: retryInterval,
		byID:          make(map[uuid.UUID]*models.Product),
	}
}

// Load fetches all products with their variants, newest first, and
// swaps the snapshot. On failure the previous data stays in place, the
// error is recorded, and a retry is scheduled.
func (s *CatalogService) Load() error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	var products []models.Product
	err := s.db.Preload("Variants").Order("created_at DESC").Find(&products).Error

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.lastErr = fmt.Errorf("failed to load catalog: %w", err)
		logrus.WithError(err).Error("Catalog load failed")
		s.scheduleRetryLocked()
		return s.lastErr
	}

	byID := make(map[uuid.UUID]*models.Product, len(products))
	var featured []models.Product
	for i := range products {
		byID[products[i].ID] = &products[i]
		if products[i].Featured {
			featured = append(featured, products[i])
		}
	}

	s.products = products
	s.featured = featured
	s.byID = byID
	s.loadedAt = time.Now()
	s.lastErr = nil
	return nil
}

func (s *CatalogService) scheduleRetryLocked() {
	if s.retrying {
		return
	}
	s.retrying = true
	time.AfterFunc(s.retryInterval, func() {
		s.mu.Lock()
		s.retrying = false
		stillFailing := s.lastErr != nil
		s.mu.Unlock()
		if stillFailing {
			s.Load()
		}
	})
}

// Refresh reloads the snapshot in the background after a mutation.
func (s *CatalogService) Refresh() {
	go s.Load()
}

// Snapshot returns copies of the current read model.
func (s *CatalogService) Snapshot() CatalogSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return CatalogSnapshot{
		Products: append([]models.Product(nil), s.products...),
		Featured: append([]models.Product(nil), s.featured...),
		LoadedAt: s.loadedAt,
		Loading:  s.loading,
		Err:      s.lastErr,
	}
}

// GetProduct returns the product with the given id from the snapshot.
func (s *CatalogService) GetProduct(id uuid.UUID) (*models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	clone := *p
	clone.Variants = append([]models.ProductVariant(nil), p.Variants...)
	return &clone, true
}

// AvailableStock resolves the known stock for a cart line: the variant's
// stock when one is selected, the product's own stock otherwise. The
// second return is false when the product (or variant) is unknown.
func (s *CatalogService) AvailableStock(productID uuid.UUID, variantID *uuid.UUID) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[productID]
	if !ok {
		return 0, false
	}
	if variantID == nil {
		return p.Stock, true
	}
	v := p.FindVariant(*variantID)
	if v == nil {
		return 0, false
	}
	return v.Stock, true
}

// Views returns the normalized presentation records for the storefront.
func (s *CatalogService) Views() []models.ProductView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	views := make([]models.ProductView, 0, len(s.products))
	for i := range s.products {
		views = append(views, models.NewProductView(&s.products[i]))
	}
	return views
}

// FeaturedViews returns the normalized featured subset.
func (s *CatalogService) FeaturedViews() []models.ProductView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	views := make([]models.ProductView, 0, len(s.featured))
	for i := range s.featured {
		views = append(views, models.NewProductView(&s.featured[i]))
	}
	return views
}
