// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/omarqassem/shopfront-backend/internal/models"
	"github.com/omarqassem/shopfront-backend/internal/utils"
)

// OrderService backs the admin console: product and variant management,
// the order-status workflow, and the derived dashboard views. Callers
// are expected to have passed the admin gate already; the service does
// not re-authenticate.
type OrderService struct {
	db      *gorm.DB
	catalog *CatalogService
}

type VariantInput struct {
	ID        uuid.UUID `json:"id,omitempty"`
	Name      string    `json:"name" validate:"required"`
	Image     string    `json:"image"`
	Stock     int       `json:"stock" validate:"gte=0"`
	PriceDiff float64   `json:"price_diff"`
}

type CreateProductRequest struct {
	Name        string         `json:"name" validate:"required,max=255"`
	Description string         `json:"description"`
	Price       float64        `json:"price" validate:"gte=0"`
	Images      []string       `json:"images,omitempty"`
	Category    string         `json:"category"`
	Featured    bool           `json:"featured"`
	Stock       int            `json:"stock" validate:"gte=0"`
	Variants    []VariantInput `json:"variants,omitempty" validate:"dive"`
}

type UpdateProductRequest struct {
	Name        *string        `json:"name,omitempty" validate:"omitempty,max=255"`
	Description *string        `json:"description,omitempty"`
	Price       *float64       `json:"price,omitempty" validate:"omitempty,gte=0"`
	Images      []string       `json:"images,omitempty"`
	Category    *string        `json:"category,omitempty"`
	Featured    *bool          `json:"featured,omitempty"`
	Stock       *int           `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Variants    []VariantInput `json:"variants,omitempty" validate:"dive"`
}

func NewOrderService(db *gorm.DB, catalog *CatalogService) *OrderService {
	return &OrderService{db: db, catalog: catalog}
}

// Product management

func (s *OrderService) AddProduct(req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Images:      pq.StringArray(req.Images),
		Category:    req.Category,
		Featured:    req.Featured,
		Stock:       req.Stock,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		for _, v := range req.Variants {
			variant := models.ProductVariant{
				ProductID: product.ID,
				Name:      v.Name,
				Image:     v.Image,
				Stock:     v.Stock,
				PriceDiff: v.PriceDiff,
			}
			if err := tx.Create(&variant).Error; err != nil {
				return fmt.Errorf("failed to create variant: %w", err)
			}
			product.Variants = append(product.Variants, variant)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.catalog.Refresh()
	return product, nil
}

// UpdateProduct applies field updates and reconciles the variant
// sub-collection: incoming variants with a known id are updated in
// place, new ones are created, and variants missing from the new set
// are deleted unless an order item references them, in which case they
// are retained with stock forced to zero.
func (s *OrderService) UpdateProduct(id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.Preload("Variants").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Images != nil {
		updates["images"] = pq.StringArray(req.Images)
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Featured != nil {
		updates["featured"] = *req.Featured
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&product).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update product: %w", err)
			}
		}

		if req.Variants == nil {
			return nil
		}
		return s.reconcileVariants(tx, &product, req.Variants)
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Variants").First(&product, id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload product: %w", err)
	}

	s.catalog.Refresh()
	return &product, nil
}

func (s *OrderService) reconcileVariants(tx *gorm.DB, product *models.Product, incoming []VariantInput) error {
	incomingByID := make(map[uuid.UUID]bool, len(incoming))

	for _, v := range incoming {
		if v.ID != uuid.Nil {
			incomingByID[v.ID] = true
			res := tx.Model(&models.ProductVariant{}).
				Where("id = ? AND product_id = ?", v.ID, product.ID).
				Updates(map[string]interface{}{
					"name":       v.Name,
					"image":      v.Image,
					"stock":      v.Stock,
					"price_diff": v.PriceDiff,
				})
			if res.Error != nil {
				return fmt.Errorf("failed to update variant: %w", res.Error)
			}
			if res.RowsAffected > 0 {
				continue
			}
			// Unknown id: fall through and create it fresh.
		}

		variant := models.ProductVariant{
			ProductID: product.ID,
			Name:      v.Name,
			Image:     v.Image,
			Stock:     v.Stock,
			PriceDiff: v.PriceDiff,
		}
		if err := tx.Create(&variant).Error; err != nil {
			return fmt.Errorf("failed to create variant: %w", err)
		}
	}

	referenced, err := referencedVariants(tx, product.Variants)
	if err != nil {
		return err
	}
	return applyVariantOutcomes(tx, PlanMissingVariants(product.Variants, incomingByID, referenced))
}

// VariantOutcome is the fate of a stored variant absent from an
// incoming variant set.
type VariantOutcome int

const (
	VariantDelete VariantOutcome = iota
	VariantRetainZeroed
)

// PlanMissingVariants decides, per stored variant absent from the
// incoming set, whether it can be deleted or must be retained with its
// stock zeroed. A variant referenced by historical order items is never
// deleted, so old orders stay resolvable.
func PlanMissingVariants(existing []models.ProductVariant, incoming map[uuid.UUID]bool, referenced map[uuid.UUID]bool) map[uuid.UUID]VariantOutcome {
	plan := make(map[uuid.UUID]VariantOutcome)
	for _, v := range existing {
		if incoming[v.ID] {
			continue
		}
		if referenced[v.ID] {
			plan[v.ID] = VariantRetainZeroed
		} else {
			plan[v.ID] = VariantDelete
		}
	}
	return plan
}

// referencedVariants returns the subset of the given variants that at
// least one order item points to.
func referencedVariants(tx *gorm.DB, variants []models.ProductVariant) (map[uuid.UUID]bool, error) {
	referenced := make(map[uuid.UUID]bool, len(variants))
	if len(variants) == 0 {
		return referenced, nil
	}

	ids := make([]uuid.UUID, 0, len(variants))
	for _, v := range variants {
		ids = append(ids, v.ID)
	}

	var refs []uuid.UUID
	if err := tx.Model(&models.OrderItem{}).
		Where("variant_id IN ?", ids).
		Distinct("variant_id").
		Pluck("variant_id", &refs).Error; err != nil {
		return nil, fmt.Errorf("failed to check variant references: %w", err)
	}

	for _, id := range refs {
		referenced[id] = true
	}
	return referenced, nil
}

func applyVariantOutcomes(tx *gorm.DB, plan map[uuid.UUID]VariantOutcome) error {
	for id, outcome := range plan {
		switch outcome {
		case VariantRetainZeroed:
			if err := tx.Model(&models.ProductVariant{}).
				Where("id = ?", id).
				UpdateColumn("stock", 0).Error; err != nil {
				return fmt.Errorf("failed to zero variant stock: %w", err)
			}
		case VariantDelete:
			if err := tx.Delete(&models.ProductVariant{}, id).Error; err != nil {
				return fmt.Errorf("failed to delete variant: %w", err)
			}
		}
	}
	return nil
}

// DeleteProduct removes a product. Variants referenced by order items
// survive with stock zero; the rest are deleted with the product.
func (s *OrderService) DeleteProduct(id uuid.UUID) error {
	var product models.Product
	if err := s.db.Preload("Variants").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("product not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		referenced, err := referencedVariants(tx, product.Variants)
		if err != nil {
			return err
		}
		// No incoming set on a product delete: every variant is either
		// deleted or retained for its order-item references.
		if err := applyVariantOutcomes(tx, PlanMissingVariants(product.Variants, nil, referenced)); err != nil {
			return err
		}

		if err := tx.Delete(&product).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.catalog.Refresh()
	return nil
}

// Order workflow

// ListOrders returns all orders with items, newest first.
func (s *OrderService) ListOrders() ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return orders, nil
}

// ListOrdersPaged returns one page of orders with items for the admin
// order table, plus the total count for the pagination headers.
func (s *OrderService) ListOrdersPaged(params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{})
	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("customer_name ILIKE ? OR customer_email ILIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "total", "status"})
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return orders, total, nil
}

// PendingOrders is the pending-plus-processing partition.
func (s *OrderService) PendingOrders() ([]models.Order, error) {
	orders, err := s.ListOrders()
	if err != nil {
		return nil, err
	}
	pending, _ := PartitionOrders(orders)
	return pending, nil
}

// CompletedOrders is the shipped/delivered/cancelled partition.
func (s *OrderService) CompletedOrders() ([]models.Order, error) {
	orders, err := s.ListOrders()
	if err != nil {
		return nil, err
	}
	_, completed := PartitionOrders(orders)
	return completed, nil
}

// ActiveRevenue sums order totals excluding cancelled orders.
func (s *OrderService) ActiveRevenue() (float64, error) {
	orders, err := s.ListOrders()
	if err != nil {
		return 0, err
	}
	return ActiveRevenueOf(orders), nil
}

// UpdateOrderStatus moves an order along the status workflow. Invalid
// target statuses and transitions outside the lifecycle are rejected.
func (s *OrderService) UpdateOrderStatus(id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("unknown order status %q", status)
	}

	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("cannot move order from %s to %s", order.Status, status)
	}

	if err := s.db.Model(&order).UpdateColumn("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = status
	return &order, nil
}

// DeleteOrder removes an order and its items. Only an explicit admin
// action reaches this.
func (s *OrderService) DeleteOrder(id uuid.UUID) error {
	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		if err := tx.Delete(&order).Error; err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return nil
	})
}

// DashboardStats is the admin landing summary.
type DashboardStats struct {
	TotalProducts   int64   `json:"total_products"`
	TotalOrders     int64   `json:"total_orders"`
	PendingOrders   int64   `json:"pending_orders"`
	CompletedOrders int64   `json:"completed_orders"`
	ActiveRevenue   float64 `json:"active_revenue"`
}

func (s *OrderService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	s.db.Model(&models.Product{}).Count(&stats.TotalProducts)

	orders, err := s.ListOrders()
	if err != nil {
		return nil, err
	}

	pending, completed := PartitionOrders(orders)
	stats.TotalOrders = int64(len(orders))
	stats.PendingOrders = int64(len(pending))
	stats.CompletedOrders = int64(len(completed))
	stats.ActiveRevenue = ActiveRevenueOf(orders)
	return stats, nil
}

// PartitionOrders splits orders into the in-flight set (pending,
// processing) and the settled set (shipped, delivered, cancelled).
// Every order lands in exactly one partition.
func PartitionOrders(orders []models.Order) (pending, completed []models.Order) {
	for _, order := range orders {
		if order.Status.IsCompleted() {
			completed = append(completed, order)
		} else {
			pending = append(pending, order)
		}
	}
	return pending, completed
}

// ActiveRevenueOf sums totals over all non-cancelled orders.
func ActiveRevenueOf(orders []models.Order) float64 {
	var revenue float64
	for _, order := range orders {
		if order.Status != models.OrderStatusCancelled {
			revenue += order.Total
		}
	}
	return revenue
}
