package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ProductInput carries the caller-supplied fields of a new product.
// ID and CreatedAt are always assigned by the repository.
type ProductInput struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
}

// Validate checks the input against catalog rules
func (in ProductInput) Validate() error {
	trimmed := in
	trimmed.Name = strings.TrimSpace(in.Name)
	trimmed.Category = strings.TrimSpace(in.Category)

	if err := validate.Struct(trimmed); err != nil {
		return firstValidationError(err, productFieldErrors)
	}
	if in.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// NewProduct builds a product from validated input
func (in ProductInput) NewProduct(id string, now time.Time) *Product {
	return &Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		Category:    in.Category,
		Stock:       in.Stock,
		CreatedAt:   now,
	}
}

// ProductPatch names the mutable product fields. Nil fields are left untouched.
type ProductPatch struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Image       *string          `json:"image,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.Image == nil && p.Category == nil && p.Stock == nil
}

// Apply merges the patch into product field by field. The product is
// left unchanged when any field is rejected.
func (p ProductPatch) Apply(product *Product) error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return ErrProductNameRequired
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		return ErrCategoryRequired
	}
	if p.Price != nil && p.Price.IsNegative() {
		return ErrNegativePrice
	}
	if p.Stock != nil && *p.Stock < 0 {
		return ErrNegativeStock
	}

	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Image != nil {
		product.Image = *p.Image
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
	return nil
}
