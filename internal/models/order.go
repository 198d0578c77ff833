// internal/models/order.go
package models

import (
	"github.com/google/uuid"
)

// Order carries a snapshot of the customer taken at submission time;
// it is never a live reference to any other record. The total is fixed
// at creation and not recalculated when catalog prices change.
type Order struct {
	BaseModel
	CustomerName    string      `json:"customer_name" gorm:"size:255;not null"`
	CustomerEmail   string      `json:"customer_email" gorm:"size:255;not null"`
	CustomerPhone   string      `json:"customer_phone" gorm:"size:50"`
	CustomerAddress string      `json:"customer_address" gorm:"type:text"`
	Total           float64     `json:"total" gorm:"type:decimal(10,2);not null"`
	Status          OrderStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`

	// Relationships
	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem snapshots product and variant names and the unit price so
// historical orders stay accurate after catalog edits or deletions.
type OrderItem struct {
	BaseModel
	OrderID     uuid.UUID  `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID  `json:"product_id" gorm:"type:uuid;not null;index"`
	VariantID   *uuid.UUID `json:"variant_id,omitempty" gorm:"type:uuid;index"`
	ProductName string     `json:"product_name" gorm:"size:255;not null"`
	VariantName string     `json:"variant_name" gorm:"size:255"`
	Price       float64    `json:"price" gorm:"type:decimal(10,2);not null"`
	Quantity    int        `json:"quantity" gorm:"not null"`
}

// Subtotal is the line contribution to the order total.
func (i *OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}
