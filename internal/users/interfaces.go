package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/db/models"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/enums"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/pagination"
)

// Repository defines persistence operations for the users table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	UpdateRole(ctx context.Context, id uuid.UUID, role enums.UserRole) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*UserList, error)
}

// ListFilters narrows the admin user listing.
type ListFilters struct {
	Role *enums.UserRole
}
