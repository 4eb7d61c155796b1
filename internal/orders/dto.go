package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/db/models"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/enums"
)

// OrderList is a cursor page of orders.
type OrderList struct {
	Orders     []models.Order
	NextCursor *string
}

// SetStatusInput carries a requested order status transition.
type SetStatusInput struct {
	OrderID           uuid.UUID
	Target            enums.OrderStatus
	TrackingCode      *string
	EstimatedDelivery *time.Time
	ActorID           uuid.UUID
	ActorRole         enums.UserRole
}

// SetStatusRequest is the JSON body for the status endpoints.
type SetStatusRequest struct {
	Status            enums.OrderStatus `json:"status" validate:"required"`
	TrackingCode      *string           `json:"tracking_code,omitempty"`
	EstimatedDelivery *time.Time        `json:"estimated_delivery,omitempty"`
}

// OrderItemDTO is the wire representation of one order line.
type OrderItemDTO struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        int             `json:"quantity"`
	Size            string          `json:"size"`
	Color           string          `json:"color"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

// OrderDTO is the wire representation of an order.
type OrderDTO struct {
	ID                uuid.UUID           `json:"id"`
	CustomerID        uuid.UUID           `json:"customer_id"`
	Status            enums.OrderStatus   `json:"status"`
	PaymentStatus     enums.PaymentStatus `json:"payment_status"`
	PaymentMethod     enums.PaymentMethod `json:"payment_method"`
	PaymentReference  *string             `json:"payment_reference,omitempty"`
	TotalAmount       decimal.Decimal     `json:"total_amount"`
	ShippingAddress   string              `json:"shipping_address"`
	ContactPhone      string              `json:"contact_phone"`
	TrackingCode      *string             `json:"tracking_code,omitempty"`
	EstimatedDelivery *time.Time          `json:"estimated_delivery,omitempty"`
	Items             []OrderItemDTO      `json:"items"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// FromModel maps the persistence model to its DTO.
func FromModel(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			Size:            item.Size,
			Color:           item.Color,
			PriceAtPurchase: item.PriceAtPurchase,
		})
	}
	return &OrderDTO{
		ID:                order.ID,
		CustomerID:        order.CustomerID,
		Status:            order.Status,
		PaymentStatus:     order.PaymentStatus,
		PaymentMethod:     order.PaymentMethod,
		PaymentReference:  order.PaymentReference,
		TotalAmount:       order.TotalAmount,
		ShippingAddress:   order.ShippingAddress,
		ContactPhone:      order.ContactPhone,
		TrackingCode:      order.TrackingCode,
		EstimatedDelivery: order.EstimatedDelivery,
		Items:             items,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
}
