// internal/middleware/logging_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLoggerVisibleAtDefaultLevel(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hook := test.NewGlobal()
	defer hook.Reset()
	logrus.SetLevel(logrus.InfoLevel)

	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/v1/products", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/v1/products", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "GET", entry.Data["method"])
	assert.Equal(t, "/v1/products", entry.Data["path"])
	assert.Equal(t, 200, entry.Data["status"])
}

func TestExtractResourceType(t *testing.T) {
	assert.Equal(t, "products", extractResourceType("/v1/products/abc"))
	assert.Equal(t, "health", extractResourceType("/health"))
	assert.Equal(t, "", extractResourceType("/"))
}
