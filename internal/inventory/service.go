package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/internal/products"
	pkgerrors "github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/errors"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/pagination"
)

// StockLevel reports the current stock for one supplier product.
type StockLevel struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Stock       int       `json:"stock"`
}

// StockList is a cursor page of stock levels.
type StockList struct {
	Levels     []StockLevel `json:"levels"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

// UpdateStockRequest is the JSON body for the inventory endpoint.
type UpdateStockRequest struct {
	Stock int `json:"stock" validate:"min=0"`
}

// Service exposes the supplier-facing view over product stock.
type Service interface {
	ListStock(ctx context.Context, supplierID uuid.UUID, params pagination.Params) (*StockList, error)
	UpdateStock(ctx context.Context, supplierID, productID uuid.UUID, stock int) (*StockLevel, error)
}

type service struct {
	products products.Repository
}

// NewService constructs an inventory service over the products repository.
func NewService(productsRepo products.Repository) (Service, error) {
	if productsRepo == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	return &service{products: productsRepo}, nil
}

func (s *service) ListStock(ctx context.Context, supplierID uuid.UUID, params pagination.Params) (*StockList, error) {
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	page, err := s.products.ListBySupplier(ctx, supplierID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list supplier stock")
	}

	levels := make([]StockLevel, 0, len(page.Products))
	for _, p := range page.Products {
		levels = append(levels, StockLevel{
			ProductID:   p.ID,
			ProductName: p.Name,
			Stock:       p.Stock,
		})
	}
	return &StockList{Levels: levels, NextCursor: page.NextCursor}, nil
}

func (s *service) UpdateStock(ctx context.Context, supplierID, productID uuid.UUID, stock int) (*StockLevel, error) {
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if product.SupplierID != supplierID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to supplier")
	}

	if err := s.products.UpdateStock(ctx, productID, stock); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update stock")
	}

	return &StockLevel{
		ProductID:   product.ID,
		ProductName: product.Name,
		Stock:       stock,
	}, nil
}
