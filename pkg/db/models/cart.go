package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is a single product/size/color/quantity line inside a cart.
type CartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
}

// CartItems is the JSON document persisted on the cart row.
type CartItems []CartItem

// Cart is the server-side cart, one row per user.
type Cart struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Items     CartItems `gorm:"column:items;type:jsonb;serializer:json"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
