package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents a catalog listing owned by exactly one supplier.
type Product struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID      uuid.UUID       `gorm:"column:supplier_id;type:uuid;not null"`
	Name            string          `gorm:"column:name;not null"`
	Description     *string         `gorm:"column:description"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Stock           int             `gorm:"column:stock;not null;default:0"`
	DiscountPercent int             `gorm:"column:discount_percent;not null;default:0"`
	Sizes           pq.StringArray  `gorm:"column:sizes;type:text[];not null;default:ARRAY[]::text[]"`
	Colors          pq.StringArray  `gorm:"column:colors;type:text[];not null;default:ARRAY[]::text[]"`
	ImageURLs       pq.StringArray  `gorm:"column:image_urls;type:text[];not null;default:ARRAY[]::text[]"`
	IsActive        bool            `gorm:"column:is_active;not null;default:true"`
	ComingSoon      bool            `gorm:"column:coming_soon;not null;default:false"`
	ReleaseDate     *time.Time      `gorm:"column:release_date"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// DiscountedPrice returns the unit price after applying the discount percent,
// rounded to 2 decimals. This is the value snapshotted into order items.
func (p Product) DiscountedPrice() decimal.Decimal {
	if p.DiscountPercent <= 0 {
		return p.Price.Round(2)
	}
	factor := decimal.NewFromInt(int64(100 - p.DiscountPercent)).Div(decimal.NewFromInt(100))
	return p.Price.Mul(factor).Round(2)
}

// Purchasable reports whether checkout may accept the product at all.
func (p Product) Purchasable() bool {
	return p.IsActive && !p.ComingSoon
}
