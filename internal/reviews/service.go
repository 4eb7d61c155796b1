package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/db/models"
	pkgerrors "github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/errors"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/pagination"
)

type productLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes customer reviews on catalog products.
type Service interface {
	AddReview(ctx context.Context, productID, customerID uuid.UUID, req AddReviewRequest) (*models.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) (*ReviewList, error)
}

type service struct {
	repo     Repository
	products productLookup
}

// NewService constructs a reviews service.
func NewService(repo Repository, products productLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repository is required")
	}
	if products == nil {
		return nil, fmt.Errorf("product lookup is required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) AddReview(ctx context.Context, productID, customerID uuid.UUID, req AddReviewRequest) (*models.Review, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	comment := strings.TrimSpace(req.Comment)
	if len(comment) < 3 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment must be at least 3 characters")
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	review, err := s.repo.Create(ctx, &models.Review{
		ProductID:  productID,
		CustomerID: customerID,
		Rating:     req.Rating,
		Comment:    comment,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create review")
	}
	return review, nil
}

func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) (*ReviewList, error) {
	list, err := s.repo.ListByProduct(ctx, productID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reviews")
	}
	return list, nil
}
