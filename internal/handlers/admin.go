// internal/handlers/admin.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/omarqassem/shopfront-backend/internal/models"
	"github.com/omarqassem/shopfront-backend/internal/services"
	"github.com/omarqassem/shopfront-backend/internal/utils"
)

// AdminHandler backs the admin console: product CRUD, order workflow
// and the dashboard summary. Everything here sits behind AuthRequired
// and AdminRequired.
type AdminHandler struct {
	orderService   *services.OrderService
	storageService *services.StorageService
	catalog        *services.CatalogService
}

func NewAdminHandler(orderService *services.OrderService, storageService *services.StorageService, catalog *services.CatalogService) *AdminHandler {
	return &AdminHandler{
		orderService:   orderService,
		storageService: storageService,
		catalog:        catalog,
	}
}

// POST /admin/products
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	product, err := h.orderService.AddProduct(&req)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{
		"product": product,
	})
}

// PUT /admin/products/:id
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	product, err := h.orderService.UpdateProduct(id, &req)
	if err != nil {
		if isNotFound(err) {
			utils.NotFoundResponse(c, "product")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": product,
	})
}

// DELETE /admin/products/:id
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	if err := h.orderService.DeleteProduct(id); err != nil {
		if isNotFound(err) {
			utils.NotFoundResponse(c, "product")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Product deleted",
	})
}

// GET /admin/orders
func (h *AdminHandler) GetOrders(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	orders, total, err := h.orderService.ListOrdersPaged(params)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to load orders")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(orders, total, params))
}

// GET /admin/orders/pending
func (h *AdminHandler) GetPendingOrders(c *gin.Context) {
	orders, err := h.orderService.PendingOrders()
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to load orders")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GET /admin/orders/completed
func (h *AdminHandler) GetCompletedOrders(c *gin.Context) {
	orders, err := h.orderService.CompletedOrders()
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to load orders")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// PUT /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	order, err := h.orderService.UpdateOrderStatus(id, models.OrderStatus(req.Status))
	if err != nil {
		if isNotFound(err) {
			utils.NotFoundResponse(c, "order")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"order": order,
	})
}

// DELETE /admin/orders/:id
func (h *AdminHandler) DeleteOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	if err := h.orderService.DeleteOrder(id); err != nil {
		if isNotFound(err) {
			utils.NotFoundResponse(c, "order")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Order deleted",
	})
}

// GET /admin/dashboard/stats
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.orderService.GetDashboardStats()
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to compute dashboard stats")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"stats": stats,
	})
}

// POST /admin/products/upload-images
func (h *AdminHandler) UploadProductImages(c *gin.Context) {
	if !h.storageService.Enabled() {
		utils.ServiceUnavailableResponse(c, "Image storage is not configured")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, "Invalid multipart form", err.Error())
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		utils.BadRequestResponse(c, "No images provided", nil)
		return
	}

	results := make([]*services.UploadResult, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			utils.BadRequestResponse(c, "Failed to read uploaded file", err.Error())
			return
		}

		result, err := h.storageService.UploadProductImage(file, header)
		file.Close()
		if err != nil {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		results = append(results, result)
	}

	utils.CreatedResponse(c, gin.H{
		"images": results,
	})
}

// POST /admin/catalog/refresh
func (h *AdminHandler) RefreshCatalog(c *gin.Context) {
	h.catalog.Refresh()

	utils.SuccessResponse(c, gin.H{
		"message": "Catalog refresh scheduled",
	})
}

func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "not found")
}
