package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/db/models"
	pkgerrors "github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/errors"
)

// Service exposes the server-side cart, one cart per user.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	Put(ctx context.Context, userID uuid.UUID, req PutRequest) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService constructs a cart service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CartDTO{Items: []models.CartItem{}}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return fromModel(cart), nil
}

func (s *service) Put(ctx context.Context, userID uuid.UUID, req PutRequest) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	items := make(models.CartItems, 0, len(req.Items))
	for _, item := range req.Items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item product id required")
		}
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}
		items = append(items, models.CartItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
		})
	}

	cart, err := s.repo.Upsert(ctx, userID, items)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save cart")
	}
	return fromModel(cart), nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := s.repo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return nil
}

func fromModel(cart *models.Cart) *CartDTO {
	items := cart.Items
	if items == nil {
		items = models.CartItems{}
	}
	updatedAt := cart.UpdatedAt
	return &CartDTO{
		Items:     items,
		UpdatedAt: &updatedAt,
	}
}
