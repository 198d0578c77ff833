// internal/services/checkout_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarqassem/shopfront-backend/internal/models"
)

// newStubCatalog builds a catalog snapshot without touching a database.
func newStubCatalog(products ...models.Product) *CatalogService {
	svc := NewCatalogService(nil, 0)
	svc.products = products
	for i := range svc.products {
		svc.byID[svc.products[i].ID] = &svc.products[i]
		if svc.products[i].Featured {
			svc.featured = append(svc.featured, svc.products[i])
		}
	}
	return svc
}

func stubProduct(stock int, variants ...models.ProductVariant) models.Product {
	p := models.Product{Stock: stock, Variants: variants}
	p.ID = uuid.New()
	return p
}

func TestValidateStockPasses(t *testing.T) {
	p := stubProduct(5)
	catalog := newStubCatalog(p)

	items := []models.CartItem{{ProductID: p.ID, Name: "Mug", Quantity: 5}}
	assert.Empty(t, ValidateStock(items, catalog))
}

func TestValidateStockProductShortfall(t *testing.T) {
	p := stubProduct(2)
	catalog := newStubCatalog(p)

	items := []models.CartItem{{ProductID: p.ID, Name: "Mug", Quantity: 3}}
	violations := ValidateStock(items, catalog)

	require.Len(t, violations, 1)
	assert.Equal(t, p.ID, violations[0].ProductID)
	assert.Equal(t, 3, violations[0].Requested)
	assert.Equal(t, 2, violations[0].Available)
}

func TestValidateStockUsesVariantStock(t *testing.T) {
	variant := models.ProductVariant{Stock: 1}
	variant.ID = uuid.New()
	// Product-level stock is plentiful; the selected variant is not.
	p := stubProduct(100, variant)
	catalog := newStubCatalog(p)

	items := []models.CartItem{{ProductID: p.ID, VariantID: &variant.ID, Name: "Mug / Large", Quantity: 2}}
	violations := ValidateStock(items, catalog)

	require.Len(t, violations, 1)
	assert.Equal(t, 1, violations[0].Available)
}

func TestValidateStockUnknownProductCountsAsZero(t *testing.T) {
	catalog := newStubCatalog()

	items := []models.CartItem{{ProductID: uuid.New(), Name: "Ghost", Quantity: 1}}
	violations := ValidateStock(items, catalog)

	require.Len(t, violations, 1)
	assert.Equal(t, 0, violations[0].Available)
}

func TestValidateStockUnknownVariantCountsAsZero(t *testing.T) {
	p := stubProduct(10)
	catalog := newStubCatalog(p)

	missing := uuid.New()
	items := []models.CartItem{{ProductID: p.ID, VariantID: &missing, Name: "Mug / Gone", Quantity: 1}}
	violations := ValidateStock(items, catalog)

	require.Len(t, violations, 1)
	assert.Equal(t, 0, violations[0].Available)
}

func TestInsufficientStockErrorNamesItems(t *testing.T) {
	err := &InsufficientStockError{Violations: []StockViolation{
		{Name: "Mug"},
		{Name: "Tote Bag"},
	}}
	assert.Equal(t, "insufficient stock for: Mug, Tote Bag", err.Error())
}

func TestSnapshotNamesFallsBackToCartLine(t *testing.T) {
	variant := models.ProductVariant{Name: "Large"}
	variant.ID = uuid.New()
	p := stubProduct(5, variant)
	p.Name = "Ceramic Mug"
	catalog := newStubCatalog(p)

	svc := &CheckoutService{catalog: catalog}

	productName, variantName := svc.snapshotNames(&models.CartItem{
		ProductID: p.ID,
		VariantID: &variant.ID,
		Name:      "mug (stale)",
	})
	assert.Equal(t, "Ceramic Mug", productName)
	assert.Equal(t, "Large", variantName)

	// Unknown product: the cart's display name is the snapshot.
	productName, variantName = svc.snapshotNames(&models.CartItem{
		ProductID: uuid.New(),
		Name:      "Gone Product",
	})
	assert.Equal(t, "Gone Product", productName)
	assert.Equal(t, "", variantName)
}

func TestPlanStockDecrements(t *testing.T) {
	productA := uuid.New()
	productC := uuid.New()
	variantB := uuid.New()

	items := []models.CartItem{
		{ProductID: productA, Name: "Mug", Quantity: 2},
		{ProductID: productC, VariantID: &variantB, Name: "Tote / Blue", Quantity: 1},
	}

	plan := PlanStockDecrements(items)
	require.Len(t, plan, 3)

	assert.Equal(t, StockDecrement{Kind: StockKindProduct, ID: productA, Quantity: 2, Name: "Mug"}, plan[0])
	// A variant line decrements the variant and then always the parent
	// product, both by the line quantity.
	assert.Equal(t, StockDecrement{Kind: StockKindVariant, ID: variantB, Quantity: 1, Name: "Tote / Blue"}, plan[1])
	assert.Equal(t, StockDecrement{Kind: StockKindProduct, ID: productC, Quantity: 1, Name: "Tote / Blue"}, plan[2])
}

func TestPlanStockDecrementsEmptyCart(t *testing.T) {
	assert.Empty(t, PlanStockDecrements(nil))
}

func TestBuildOrderItems(t *testing.T) {
	variant := models.ProductVariant{Name: "Large"}
	variant.ID = uuid.New()
	p := stubProduct(10, variant)
	p.Name = "Ceramic Mug"
	catalog := newStubCatalog(p)

	svc := &CheckoutService{catalog: catalog}
	orderID := uuid.New()

	items := []models.CartItem{
		{ProductID: p.ID, VariantID: &variant.ID, Name: "mug", Price: 23.50, Quantity: 2},
		{ProductID: uuid.New(), Name: "Gone Product", Price: 5, Quantity: 1},
	}

	orderItems := svc.buildOrderItems(orderID, items)
	require.Len(t, orderItems, 2)

	assert.Equal(t, orderID, orderItems[0].OrderID)
	assert.Equal(t, "Ceramic Mug", orderItems[0].ProductName)
	assert.Equal(t, "Large", orderItems[0].VariantName)
	assert.Equal(t, &variant.ID, orderItems[0].VariantID)
	assert.Equal(t, 23.50, orderItems[0].Price)
	assert.Equal(t, 2, orderItems[0].Quantity)

	assert.Equal(t, "Gone Product", orderItems[1].ProductName)
	assert.Equal(t, "", orderItems[1].VariantName)

	// Snapshot subtotals add up to the cart total the order header gets.
	var total float64
	for i := range orderItems {
		total += orderItems[i].Subtotal()
	}
	assert.Equal(t, CartTotal(items), total)
}
