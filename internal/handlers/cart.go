// internal/handlers/cart.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/omarqassem/shopfront-backend/internal/models"
	"github.com/omarqassem/shopfront-backend/internal/services"
	"github.com/omarqassem/shopfront-backend/internal/utils"
)

// CartHandler exposes the session cart. The cart ID comes from the
// session middleware, so an anonymous shopper always has one.
type CartHandler struct {
	cartService *services.CartService
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) cartID(c *gin.Context) (string, bool) {
	cartID, exists := utils.GetCartIDFromContext(c)
	if !exists || cartID == "" {
		utils.BadRequestResponse(c, "Missing cart session", nil)
		return "", false
	}
	return cartID, true
}

func cartPayload(items []models.CartItem) gin.H {
	// A cart with no lines serializes as an empty list, never null.
	if items == nil {
		items = []models.CartItem{}
	}
	return gin.H{
		"items":      items,
		"total":      services.CartTotal(items),
		"item_count": services.CartItemCount(items),
	}
}

// GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	cartID, ok := h.cartID(c)
	if !ok {
		return
	}

	items, err := h.cartService.Items(c.Request.Context(), cartID)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to load cart")
		return
	}

	utils.SuccessResponse(c, cartPayload(items))
}

// POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	cartID, ok := h.cartID(c)
	if !ok {
		return
	}

	var req services.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	items, err := h.cartService.AddItem(c.Request.Context(), cartID, &req)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to update cart")
		return
	}

	utils.SuccessResponse(c, cartPayload(items))
}

// PUT /cart/items/:productId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	cartID, ok := h.cartID(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	items, err := h.cartService.UpdateQuantity(c.Request.Context(), cartID, productID, req.Quantity)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to update cart")
		return
	}

	utils.SuccessResponse(c, cartPayload(items))
}

// DELETE /cart/items/:productId
//
// Removes every line for the product regardless of variant, matching
// how the storefront treats a product row in the cart drawer.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	cartID, ok := h.cartID(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	items, err := h.cartService.RemoveItem(c.Request.Context(), cartID, productID)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to update cart")
		return
	}

	utils.SuccessResponse(c, cartPayload(items))
}

// DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	cartID, ok := h.cartID(c)
	if !ok {
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), cartID); err != nil {
		utils.InternalErrorResponse(c, "Failed to clear cart")
		return
	}

	utils.SuccessResponse(c, cartPayload(nil))
}
