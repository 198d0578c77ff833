// internal/models/product.go
package models

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Product struct {
	BaseModel
	Name        string         `json:"name" gorm:"size:255"`
	Description string         `json:"description" gorm:"type:text"`
	Price       float64        `json:"price" gorm:"type:decimal(10,2);default:0"`
	Images      pq.StringArray `json:"images" gorm:"type:text[]"`
	Category    string         `json:"category" gorm:"size:100;index"`
	Featured    bool           `json:"featured" gorm:"default:false;index"`
	Stock       int            `json:"stock" gorm:"default:0"`

	// Relationships
	Variants []ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

type ProductVariant struct {
	BaseModel
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Name      string    `json:"name" gorm:"size:255"`
	Image     string    `json:"image" gorm:"size:1024"`
	Stock     int       `json:"stock" gorm:"default:0"`
	PriceDiff float64   `json:"price_diff" gorm:"type:decimal(10,2);default:0"`
}

// UnitPrice is the effective price of the variant: parent price plus delta.
func (v *ProductVariant) UnitPrice(parent *Product) float64 {
	return parent.Price + v.PriceDiff
}

// IsOutOfStock treats a product with variants as sold out only when the
// product's own stock is zero and every variant is also at zero.
func (p *Product) IsOutOfStock() bool {
	if p.Stock > 0 {
		return false
	}
	for _, v := range p.Variants {
		if v.Stock > 0 {
			return false
		}
	}
	return true
}

// FindVariant returns the variant with the given id, or nil.
func (p *Product) FindVariant(id uuid.UUID) *ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}

// ProductView is the fully-defaulted presentation record. Defaults are
// applied here, once, instead of at every read site; the stored row is
// never mutated.
type ProductView struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       float64          `json:"price"`
	Images      []string         `json:"images"`
	Category    string           `json:"category"`
	Featured    bool             `json:"featured"`
	Stock       int              `json:"stock"`
	OutOfStock  bool             `json:"out_of_stock"`
	Variants    []ProductVariant `json:"variants"`
	CreatedAt   string           `json:"created_at"`
}

// NewProductView normalizes a stored product into its presentation form.
func NewProductView(p *Product) ProductView {
	name := p.Name
	if name == "" {
		name = "Unnamed Product"
	}

	view := ProductView{
		ID:          p.ID,
		Name:        name,
		Description: p.Description,
		Price:       p.Price,
		Images:      NormalizeImages(p.Images),
		Category:    p.Category,
		Featured:    p.Featured,
		Stock:       p.Stock,
		OutOfStock:  p.IsOutOfStock(),
		Variants:    p.Variants,
		CreatedAt:   p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if view.Variants == nil {
		view.Variants = []ProductVariant{}
	}
	return view
}

// NormalizeImages accepts the image field in any of the shapes observed
// in stored rows: a plain list of URLs, a single JSON-encoded array
// string, or nothing at all. A malformed value yields an empty list
// rather than an error.
func NormalizeImages(raw []string) []string {
	if len(raw) == 0 {
		return []string{}
	}

	if len(raw) == 1 && looksLikeJSONArray(raw[0]) {
		var parsed []string
		if err := json.Unmarshal([]byte(raw[0]), &parsed); err != nil {
			return []string{}
		}
		return parsed
	}

	images := make([]string, 0, len(raw))
	for _, img := range raw {
		if img != "" {
			images = append(images, img)
		}
	}
	return images
}

func looksLikeJSONArray(s string) bool {
	return len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']'
}
