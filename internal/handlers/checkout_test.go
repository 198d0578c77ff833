// internal/handlers/checkout_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarqassem/shopfront-backend/internal/middleware"
	"github.com/omarqassem/shopfront-backend/internal/models"
	"github.com/omarqassem/shopfront-backend/internal/services"
)

// checkoutTestRouter wires a checkout endpoint with an empty catalog so
// every pre-flight path is reachable without a database.
func checkoutTestRouter(t *testing.T) (*gin.Engine, *services.CartService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cartService := services.NewCartService(services.NewMemoryCartStorage())
	catalog := services.NewCatalogService(nil, 0)
	checkoutService := services.NewCheckoutService(nil, catalog, cartService, nil, nil)
	handler := NewCheckoutHandler(checkoutService)

	r := gin.New()
	r.POST("/v1/checkout", middleware.CartSession(), handler.Checkout)
	return r, cartService
}

func postCheckout(r *gin.Engine, cartID string, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/v1/checkout", bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.CartIDHeader, cartID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validCustomer() map[string]interface{} {
	return map[string]interface{}{
		"name":    "Lina Haddad",
		"email":   "lina@example.com",
		"phone":   "+96170123456",
		"address": "12 Hamra Street, Beirut",
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	r, _ := checkoutTestRouter(t)

	w := postCheckout(r, "cart_checkout1", validCustomer())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cart is empty")
}

func TestCheckoutMissingCustomerFields(t *testing.T) {
	r, _ := checkoutTestRouter(t)

	w := postCheckout(r, "cart_checkout2", map[string]interface{}{
		"name": "Lina Haddad",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

// stubOrderPlacer lets the order lookup tests control what the service
// returns without a database behind it.
type stubOrderPlacer struct {
	order *models.Order
	err   error
}

func (s *stubOrderPlacer) PlaceOrder(ctx context.Context, cartID string, customer *services.CustomerInfo) (*services.CheckoutResult, error) {
	return nil, s.err
}

func (s *stubOrderPlacer) GetOrder(id uuid.UUID) (*models.Order, error) {
	return s.order, s.err
}

func orderLookupRouter(placer OrderPlacer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/v1/orders/:id", NewCheckoutHandler(placer).GetOrder)
	return r
}

func TestGetOrderNotFound(t *testing.T) {
	r := orderLookupRouter(&stubOrderPlacer{err: services.ErrOrderNotFound})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/v1/orders/"+uuid.New().String(), nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestGetOrderStorageFailure(t *testing.T) {
	// A broken lookup must surface as a 500, not masquerade as a 404.
	r := orderLookupRouter(&stubOrderPlacer{err: errors.New("connection refused")})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/v1/orders/"+uuid.New().String(), nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestCheckoutInsufficientStock(t *testing.T) {
	r, carts := checkoutTestRouter(t)

	// The catalog is empty, so any cart line validates against zero
	// available stock.
	_, err := carts.AddItem(httptest.NewRequest("POST", "/", nil).Context(), "cart_checkout3", &services.AddCartItemRequest{
		ProductID: uuid.New(),
		Name:      "Ceramic Mug",
		Price:     18.50,
		Quantity:  1,
	})
	require.NoError(t, err)

	w := postCheckout(r, "cart_checkout3", validCustomer())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INSUFFICIENT_STOCK")
	assert.Contains(t, w.Body.String(), "Ceramic Mug")

	// The aborted checkout must leave the cart untouched.
	items, err := carts.Items(httptest.NewRequest("GET", "/", nil).Context(), "cart_checkout3")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
