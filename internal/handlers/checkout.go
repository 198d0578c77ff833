// internal/handlers/checkout.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/omarqassem/shopfront-backend/internal/models"
	"github.com/omarqassem/shopfront-backend/internal/services"
	"github.com/omarqassem/shopfront-backend/internal/utils"
)

// OrderPlacer is the slice of the checkout flow the handler needs.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, cartID string, customer *services.CustomerInfo) (*services.CheckoutResult, error)
	GetOrder(id uuid.UUID) (*models.Order, error)
}

type CheckoutHandler struct {
	checkoutService OrderPlacer
}

func NewCheckoutHandler(checkoutService OrderPlacer) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// POST /checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	cartID, exists := utils.GetCartIDFromContext(c)
	if !exists || cartID == "" {
		utils.BadRequestResponse(c, "Missing cart session", nil)
		return
	}

	var req services.CustomerInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	result, err := h.checkoutService.PlaceOrder(c.Request.Context(), cartID, &req)
	if err != nil {
		var stockErr *services.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			utils.ErrorResponse(c, http.StatusBadRequest, "INSUFFICIENT_STOCK", stockErr.Error(), stockErr.Violations)
		case errors.Is(err, services.ErrEmptyCart):
			utils.BadRequestResponse(c, "Cart is empty", nil)
		default:
			utils.InternalErrorResponse(c, "Checkout failed")
		}
		return
	}

	utils.CreatedResponse(c, result)
}

// GET /orders/:id
func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	order, err := h.checkoutService.GetOrder(id)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.NotFoundResponse(c, "order")
			return
		}
		utils.InternalErrorResponse(c, "Failed to load order")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"order": order,
	})
}
