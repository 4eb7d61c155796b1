package products

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/db/models"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/pagination"
)

// ErrInsufficientStock is returned by DecrementStock when the conditional
// update matches no row, either because the product vanished or because the
// remaining stock is below the requested quantity.
var ErrInsufficientStock = errors.New("insufficient stock")

// Repository defines persistence operations for the products table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListPublic(ctx context.Context, params pagination.Params) (*ProductList, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params) (*ProductList, error)
	UpdateStock(ctx context.Context, id uuid.UUID, stock int) error
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error
}
