// internal/middleware/cart_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartEchoRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/cart", CartSession(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"cart_id": c.GetString("cart_id")})
	})
	return r
}

func TestCartSessionIssuesIDWhenMissing(t *testing.T) {
	r := cartEchoRouter()

	req := httptest.NewRequest("GET", "/cart", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	issued := w.Header().Get(CartIDHeader)
	assert.NotEmpty(t, issued)
	assert.Contains(t, issued, "cart_")
}

func TestCartSessionKeepsProvidedID(t *testing.T) {
	r := cartEchoRouter()

	req := httptest.NewRequest("GET", "/cart", nil)
	req.Header.Set(CartIDHeader, "cart_existing123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cart_existing123", w.Header().Get(CartIDHeader))
	assert.Contains(t, w.Body.String(), "cart_existing123")
}
