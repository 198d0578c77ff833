// internal/models/cart.go
package models

import (
	"github.com/google/uuid"
)

// CartItem is one line of a shopper's cart. Two lines are the same line
// iff product id and variant id (or the absence of one) both match.
// Carts live in session storage, not in the relational store.
type CartItem struct {
	ProductID uuid.UUID  `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Name      string     `json:"name"`
	Price     float64    `json:"price"`
	Image     string     `json:"image"`
	Quantity  int        `json:"quantity"`
}

// SameLine reports whether other belongs to the same cart line.
func (i *CartItem) SameLine(productID uuid.UUID, variantID *uuid.UUID) bool {
	if i.ProductID != productID {
		return false
	}
	if i.VariantID == nil && variantID == nil {
		return true
	}
	if i.VariantID == nil || variantID == nil {
		return false
	}
	return *i.VariantID == *variantID
}

// Subtotal is the line contribution to the cart total.
func (i *CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}
