// internal/services/inventory_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/omarqassem/shopfront-backend/internal/models"
)

var ErrInsufficientStock = errors.New("insufficient stock")

// InventoryService owns the two stock-decrement procedures. The default
// behavior floors stock at zero with no concurrency guard, so two
// simultaneous checkouts can oversell a unit; that race is inherited
// from the storefront's design. With guarded=true a decrement only
// applies where stock >= quantity and fails otherwise.
type InventoryService struct {
	db      *gorm.DB
	guarded bool
}

func NewInventoryService(db *gorm.DB, guarded bool) *InventoryService {
	return &InventoryService{db: db, guarded: guarded}
}

// DecrementProductStock reduces the product's stock by quantity,
// floored at zero.
func (s *InventoryService) DecrementProductStock(productID uuid.UUID, quantity int) error {
	return s.decrement(&models.Product{}, "product", productID, quantity)
}

// DecrementVariantStock reduces the variant's stock by quantity,
// floored at zero.
func (s *InventoryService) DecrementVariantStock(variantID uuid.UUID, quantity int) error {
	return s.decrement(&models.ProductVariant{}, "variant", variantID, quantity)
}

func (s *InventoryService) decrement(model interface{}, kind string, id uuid.UUID, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("quantity must not be negative")
	}

	if s.guarded {
		res := s.db.Model(model).
			Where("id = ? AND stock >= ?", id, quantity).
			UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
		if res.Error != nil {
			return fmt.Errorf("failed to decrement %s stock: %w", kind, res.Error)
		}
		if res.RowsAffected == 0 {
			var count int64
			s.db.Model(model).Where("id = ?", id).Count(&count)
			if count == 0 {
				return fmt.Errorf("%s not found", kind)
			}
			return ErrInsufficientStock
		}
		return nil
	}

	res := s.db.Model(model).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("GREATEST(stock - ?, 0)", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement %s stock: %w", kind, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s not found", kind)
	}
	return nil
}
