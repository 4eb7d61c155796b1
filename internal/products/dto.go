package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/db/models"
)

// ProductList is a cursor page of products.
type ProductList struct {
	Products   []models.Product
	NextCursor *string
}

// CreateProductInput carries the supplier-provided fields for a new listing.
type CreateProductInput struct {
	Name            string          `json:"name" validate:"required,min=2,max=160"`
	Description     *string         `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price" validate:"required"`
	Stock           int             `json:"stock" validate:"min=0"`
	DiscountPercent int             `json:"discount_percent" validate:"min=0,max=100"`
	Sizes           []string        `json:"sizes" validate:"dive,min=1"`
	Colors          []string        `json:"colors" validate:"dive,min=1"`
	ImageURLs       []string        `json:"image_urls" validate:"dive,url"`
	IsActive        *bool           `json:"is_active,omitempty"`
	ComingSoon      bool            `json:"coming_soon"`
	ReleaseDate     *time.Time      `json:"release_date,omitempty"`
}

// UpdateProductInput carries partial updates; nil fields are left untouched.
type UpdateProductInput struct {
	Name            *string          `json:"name,omitempty" validate:"omitempty,min=2,max=160"`
	Description     *string          `json:"description,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Stock           *int             `json:"stock,omitempty" validate:"omitempty,min=0"`
	DiscountPercent *int             `json:"discount_percent,omitempty" validate:"omitempty,min=0,max=100"`
	Sizes           []string         `json:"sizes,omitempty" validate:"omitempty,dive,min=1"`
	Colors          []string         `json:"colors,omitempty" validate:"omitempty,dive,min=1"`
	ImageURLs       []string         `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
	IsActive        *bool            `json:"is_active,omitempty"`
	ComingSoon      *bool            `json:"coming_soon,omitempty"`
	ReleaseDate     *time.Time       `json:"release_date,omitempty"`
}

// ProductDTO is the wire representation of a product.
type ProductDTO struct {
	ID              uuid.UUID       `json:"id"`
	SupplierID      uuid.UUID       `json:"supplier_id"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	Stock           int             `json:"stock"`
	DiscountPercent int             `json:"discount_percent"`
	Sizes           []string        `json:"sizes"`
	Colors          []string        `json:"colors"`
	ImageURLs       []string        `json:"image_urls"`
	IsActive        bool            `json:"is_active"`
	ComingSoon      bool            `json:"coming_soon"`
	ReleaseDate     *time.Time      `json:"release_date,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// FromModel maps the persistence model to its DTO.
func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:              p.ID,
		SupplierID:      p.SupplierID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		DiscountedPrice: p.DiscountedPrice(),
		Stock:           p.Stock,
		DiscountPercent: p.DiscountPercent,
		Sizes:           p.Sizes,
		Colors:          p.Colors,
		ImageURLs:       p.ImageURLs,
		IsActive:        p.IsActive,
		ComingSoon:      p.ComingSoon,
		ReleaseDate:     p.ReleaseDate,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
