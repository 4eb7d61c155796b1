package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/db/models"
)

// Repository defines persistence operations for the carts table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	Upsert(ctx context.Context, userID uuid.UUID, items models.CartItems) (*models.Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}
