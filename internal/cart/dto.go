package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/db/models"
)

// ItemInput is one cart line as sent by the client.
type ItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
}

// PutRequest replaces the full cart contents.
type PutRequest struct {
	Items []ItemInput `json:"items" validate:"dive"`
}

// CartDTO is the wire representation of the user's cart.
type CartDTO struct {
	Items     []models.CartItem `json:"items"`
	UpdatedAt *time.Time        `json:"updated_at,omitempty"`
}
