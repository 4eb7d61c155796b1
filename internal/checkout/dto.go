package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/enums"
)

// SubmitRequest is the JSON body for POST /api/checkout.
type SubmitRequest struct {
	PaymentMethod   enums.PaymentMethod `json:"payment_method" validate:"required"`
	ShippingAddress string              `json:"shipping_address" validate:"required,min=5"`
	ContactPhone    string              `json:"contact_phone" validate:"required,min=7"`
}

// SubmitInput carries everything the checkout flow needs about the caller.
type SubmitInput struct {
	CustomerID      uuid.UUID
	CustomerEmail   string
	PaymentMethod   enums.PaymentMethod
	ShippingAddress string
	ContactPhone    string
}

// SubmitResult is returned after the order is created.
type SubmitResult struct {
	OrderID          uuid.UUID       `json:"order_id"`
	Reference        string          `json:"reference"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	AuthorizationURL string          `json:"authorization_url,omitempty"`
}

// VerifyResult reports the order state after a payment verification pass.
type VerifyResult struct {
	OrderID       uuid.UUID           `json:"order_id"`
	Reference     string              `json:"reference"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	OrderStatus   enums.OrderStatus   `json:"order_status"`
}
