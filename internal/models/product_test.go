// internal/models/product_test.go
package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeImages(t *testing.T) {
	tests := []struct {
		name     string
		raw      []string
		expected []string
	}{
		{
			name:     "plain list",
			raw:      []string{"https://cdn/a.jpg", "https://cdn/b.jpg"},
			expected: []string{"https://cdn/a.jpg", "https://cdn/b.jpg"},
		},
		{
			name:     "single JSON array string",
			raw:      []string{`["https://cdn/a.jpg","https://cdn/b.jpg"]`},
			expected: []string{"https://cdn/a.jpg", "https://cdn/b.jpg"},
		},
		{
			name:     "unterminated array string kept as-is",
			raw:      []string{`["https://cdn/a.jpg"`},
			expected: []string{`["https://cdn/a.jpg"`},
		},
		{
			name:     "broken JSON inside brackets yields empty",
			raw:      []string{`[not json]`},
			expected: []string{},
		},
		{
			name:     "nil yields empty",
			raw:      nil,
			expected: []string{},
		},
		{
			name:     "blank entries dropped",
			raw:      []string{"", "https://cdn/a.jpg", ""},
			expected: []string{"https://cdn/a.jpg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeImages(tt.raw))
		})
	}
}

func TestIsOutOfStock(t *testing.T) {
	assert.False(t, (&Product{Stock: 3}).IsOutOfStock())
	assert.True(t, (&Product{Stock: 0}).IsOutOfStock())

	withVariantStock := &Product{
		Stock: 0,
		Variants: []ProductVariant{
			{Stock: 0},
			{Stock: 2},
		},
	}
	assert.False(t, withVariantStock.IsOutOfStock())

	allEmpty := &Product{
		Stock: 0,
		Variants: []ProductVariant{
			{Stock: 0},
			{Stock: 0},
		},
	}
	assert.True(t, allEmpty.IsOutOfStock())
}

func TestNewProductViewDefaults(t *testing.T) {
	p := &Product{}
	p.ID = uuid.New()
	p.CreatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	view := NewProductView(p)

	assert.Equal(t, "Unnamed Product", view.Name)
	assert.NotNil(t, view.Images)
	assert.Empty(t, view.Images)
	assert.NotNil(t, view.Variants)
	assert.Empty(t, view.Variants)
	assert.True(t, view.OutOfStock)
	assert.Equal(t, "2026-03-01T12:00:00Z", view.CreatedAt)
}

func TestNewProductViewKeepsValues(t *testing.T) {
	p := &Product{
		Name:     "Ceramic Mug",
		Price:    18.50,
		Images:   pq.StringArray{"https://cdn/mug.jpg"},
		Category: "kitchen",
		Featured: true,
		Stock:    4,
	}
	p.ID = uuid.New()

	view := NewProductView(p)

	assert.Equal(t, "Ceramic Mug", view.Name)
	assert.Equal(t, []string{"https://cdn/mug.jpg"}, view.Images)
	assert.True(t, view.Featured)
	assert.False(t, view.OutOfStock)
}

func TestFindVariantAndUnitPrice(t *testing.T) {
	variantID := uuid.New()
	p := &Product{
		Price: 30,
		Variants: []ProductVariant{
			{BaseModel: BaseModel{ID: variantID}, Name: "Large", PriceDiff: 5},
		},
	}

	v := p.FindVariant(variantID)
	assert.NotNil(t, v)
	assert.Equal(t, "Large", v.Name)
	assert.Equal(t, 35.0, v.UnitPrice(p))

	assert.Nil(t, p.FindVariant(uuid.New()))
}
