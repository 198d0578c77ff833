// internal/handlers/product.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/omarqassem/shopfront-backend/internal/models"
	"github.com/omarqassem/shopfront-backend/internal/services"
	"github.com/omarqassem/shopfront-backend/internal/utils"
)

// ProductHandler serves the public storefront catalog. Every read goes
// through the in-memory catalog snapshot, never the database.
type ProductHandler struct {
	catalog *services.CatalogService
}

func NewProductHandler(catalog *services.CatalogService) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
	}
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	views := h.catalog.Views()

	if category := c.Query("category"); category != "" {
		filtered := make([]models.ProductView, 0, len(views))
		for _, v := range views {
			if v.Category == category {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}

	snap := h.catalog.Snapshot()
	utils.SuccessResponseWithMeta(c, gin.H{
		"products": views,
	}, gin.H{
		"count":     len(views),
		"loaded_at": snap.LoadedAt,
	})
}

// GET /products/featured
func (h *ProductHandler) GetFeaturedProducts(c *gin.Context) {
	views := h.catalog.FeaturedViews()

	utils.SuccessResponse(c, gin.H{
		"products": views,
		"count":    len(views),
	})
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	product, ok := h.catalog.GetProduct(id)
	if !ok {
		utils.NotFoundResponse(c, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": models.NewProductView(product),
	})
}
