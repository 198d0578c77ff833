// internal/models/cart_test.go
package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCartItemSameLine(t *testing.T) {
	productID := uuid.New()
	variantA := uuid.New()
	variantB := uuid.New()

	base := CartItem{ProductID: productID}
	withVariant := CartItem{ProductID: productID, VariantID: &variantA}

	assert.True(t, base.SameLine(productID, nil))
	assert.False(t, base.SameLine(uuid.New(), nil))
	assert.False(t, base.SameLine(productID, &variantA))

	assert.True(t, withVariant.SameLine(productID, &variantA))
	assert.False(t, withVariant.SameLine(productID, &variantB))
	assert.False(t, withVariant.SameLine(productID, nil))
}

func TestCartItemSubtotal(t *testing.T) {
	item := CartItem{Price: 12.5, Quantity: 3}
	assert.Equal(t, 37.5, item.Subtotal())
}
