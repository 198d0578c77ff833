// internal/middleware/cart.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/omarqassem/shopfront-backend/internal/utils"
)

const CartIDHeader = "X-Cart-ID"

// CartSession resolves the shopper's cart session key. A request
// without one gets a fresh key, echoed back in the response header so
// the client can persist it.
func CartSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		cartID := c.GetHeader(CartIDHeader)
		if cartID == "" {
			generated, err := utils.GenerateCartID()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Failed to create cart session",
				})
				c.Abort()
				return
			}
			cartID = generated
		}

		c.Set("cart_id", cartID)
		c.Header(CartIDHeader, cartID)
		c.Next()
	}
}
