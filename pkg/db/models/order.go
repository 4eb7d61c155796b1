package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/enums"
)

// Order is created at checkout submission and owns its item snapshots.
type Order struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID        uuid.UUID           `gorm:"column:customer_id;type:uuid;not null"`
	Status            enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentStatus     enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	PaymentMethod     enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	PaymentReference  *string             `gorm:"column:payment_reference;uniqueIndex"`
	TotalAmount       decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	ShippingAddress   string              `gorm:"column:shipping_address;not null"`
	ContactPhone      string              `gorm:"column:contact_phone;not null"`
	CustomerEmail     string              `gorm:"column:customer_email;not null"`
	TrackingCode      *string             `gorm:"column:tracking_code"`
	EstimatedDelivery *time.Time          `gorm:"column:estimated_delivery"`
	Items             []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
