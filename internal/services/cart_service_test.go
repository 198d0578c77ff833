// internal/services/cart_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarqassem/shopfront-backend/internal/models"
)

func newTestCart(t *testing.T) (*CartService, string) {
	t.Helper()
	return NewCartService(NewMemoryCartStorage()), "cart_test"
}

func addReq(productID uuid.UUID, variantID *uuid.UUID, qty int) *AddCartItemRequest {
	return &AddCartItemRequest{
		ProductID: productID,
		VariantID: variantID,
		Name:      "Ceramic Mug",
		Price:     18.50,
		Quantity:  qty,
	}
}

func TestAddItemMergesSameLine(t *testing.T) {
	svc, cartID := newTestCart(t)
	ctx := context.Background()
	productID := uuid.New()

	items, err := svc.AddItem(ctx, cartID, addReq(productID, nil, 2))
	require.NoError(t, err)
	require.Len(t, items, 1)

	items, err = svc.AddItem(ctx, cartID, addReq(productID, nil, 3))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddItemVariantsAreSeparateLines(t *testing.T) {
	svc, cartID := newTestCart(t)
	ctx := context.Background()
	productID := uuid.New()
	variantA := uuid.New()
	variantB := uuid.New()

	_, err := svc.AddItem(ctx, cartID, addReq(productID, &variantA, 1))
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, cartID, addReq(productID, nil, 1))
	require.NoError(t, err)
	items, err := svc.AddItem(ctx, cartID, addReq(productID, &variantB, 1))
	require.NoError(t, err)

	assert.Len(t, items, 3)
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	svc, cartID := newTestCart(t)

	_, err := svc.AddItem(context.Background(), cartID, addReq(uuid.New(), nil, 0))
	assert.Error(t, err)
}

func TestRemoveItemDropsAllVariantLines(t *testing.T) {
	svc, cartID := newTestCart(t)
	ctx := context.Background()
	productID := uuid.New()
	otherID := uuid.New()
	variantA := uuid.New()

	_, err := svc.AddItem(ctx, cartID, addReq(productID, nil, 1))
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, cartID, addReq(productID, &variantA, 2))
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, cartID, addReq(otherID, nil, 1))
	require.NoError(t, err)

	items, err := svc.RemoveItem(ctx, cartID, productID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, otherID, items[0].ProductID)
}

func TestUpdateQuantity(t *testing.T) {
	svc, cartID := newTestCart(t)
	ctx := context.Background()
	productID := uuid.New()

	_, err := svc.AddItem(ctx, cartID, addReq(productID, nil, 1))
	require.NoError(t, err)

	items, err := svc.UpdateQuantity(ctx, cartID, productID, 7)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Quantity)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	svc, cartID := newTestCart(t)
	ctx := context.Background()
	productID := uuid.New()

	_, err := svc.AddItem(ctx, cartID, addReq(productID, nil, 2))
	require.NoError(t, err)

	items, err := svc.UpdateQuantity(ctx, cartID, productID, 0)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = svc.AddItem(ctx, cartID, addReq(productID, nil, 2))
	require.NoError(t, err)
	items, err = svc.UpdateQuantity(ctx, cartID, productID, -3)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestClearEmptiesCart(t *testing.T) {
	svc, cartID := newTestCart(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, cartID, addReq(uuid.New(), nil, 2))
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, cartID))

	items, err := svc.Items(ctx, cartID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartTotalAndItemCount(t *testing.T) {
	items := []models.CartItem{
		{Price: 10, Quantity: 2},
		{Price: 5.5, Quantity: 3},
	}

	assert.Equal(t, 36.5, CartTotal(items))
	assert.Equal(t, 5, CartItemCount(items))

	assert.Equal(t, 0.0, CartTotal(nil))
	assert.Equal(t, 0, CartItemCount(nil))
}

func TestCartsAreIsolatedBySession(t *testing.T) {
	storage := NewMemoryCartStorage()
	svc := NewCartService(storage)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "cart_a", addReq(uuid.New(), nil, 1))
	require.NoError(t, err)

	items, err := svc.Items(ctx, "cart_b")
	require.NoError(t, err)
	assert.Empty(t, items)
}
