package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/db/models"
	pkgerrors "github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/errors"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/pagination"
)

// Service exposes catalog operations for the public shop and the supplier portal.
type Service interface {
	CreateProduct(ctx context.Context, supplierID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, supplierID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, supplierID, productID uuid.UUID) error
	ListSupplierProducts(ctx context.Context, supplierID uuid.UUID, params pagination.Params) (*ProductList, error)
	ListPublic(ctx context.Context, params pagination.Params) (*ProductList, error)
	GetPublic(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
}

type service struct {
	repo Repository
}

// NewService constructs a products service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateProduct(ctx context.Context, supplierID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	product := &models.Product{
		SupplierID:      supplierID,
		Name:            input.Name,
		Description:     input.Description,
		Price:           input.Price.Round(2),
		Stock:           input.Stock,
		DiscountPercent: input.DiscountPercent,
		Sizes:           toStringArray(input.Sizes),
		Colors:          toStringArray(input.Colors),
		ImageURLs:       toStringArray(input.ImageURLs),
		IsActive:        isActive,
		ComingSoon:      input.ComingSoon,
		ReleaseDate:     input.ReleaseDate,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return FromModel(created), nil
}

func (s *service) UpdateProduct(ctx context.Context, supplierID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadOwned(ctx, supplierID, productID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		updates["price"] = input.Price.Round(2)
	}
	if input.Stock != nil {
		updates["stock"] = *input.Stock
	}
	if input.DiscountPercent != nil {
		updates["discount_percent"] = *input.DiscountPercent
	}
	if input.Sizes != nil {
		updates["sizes"] = toStringArray(input.Sizes)
	}
	if input.Colors != nil {
		updates["colors"] = toStringArray(input.Colors)
	}
	if input.ImageURLs != nil {
		updates["image_urls"] = toStringArray(input.ImageURLs)
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.ComingSoon != nil {
		updates["coming_soon"] = *input.ComingSoon
	}
	if input.ReleaseDate != nil {
		updates["release_date"] = *input.ReleaseDate
	}

	if len(updates) == 0 {
		return FromModel(product), nil
	}
	if err := s.repo.Update(ctx, product.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}

	reloaded, err := s.repo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload product")
	}
	return FromModel(reloaded), nil
}

func (s *service) DeleteProduct(ctx context.Context, supplierID, productID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, supplierID, productID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

func (s *service) ListSupplierProducts(ctx context.Context, supplierID uuid.UUID, params pagination.Params) (*ProductList, error) {
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListBySupplier(ctx, supplierID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list supplier products")
	}
	return list, nil
}

func (s *service) ListPublic(ctx context.Context, params pagination.Params) (*ProductList, error) {
	list, err := s.repo.ListPublic(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return list, nil
}

func (s *service) GetPublic(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return FromModel(product), nil
}

func (s *service) loadOwned(ctx context.Context, supplierID, productID uuid.UUID) (*models.Product, error) {
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if product.SupplierID != supplierID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to supplier")
	}
	return product, nil
}

func toStringArray(values []string) pq.StringArray {
	if values == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(values)
}
