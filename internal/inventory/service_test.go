package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/internal/products"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/db/models"
	pkgerrors "github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/errors"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/pagination"
)

type stubProductsRepo struct {
	products map[uuid.UUID]*models.Product
}

func newStubProductsRepo() *stubProductsRepo {
	return &stubProductsRepo{products: map[uuid.UUID]*models.Product{}}
}

func (s *stubProductsRepo) WithTx(tx *gorm.DB) products.Repository { return s }

func (s *stubProductsRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	s.products[product.ID] = product
	return product, nil
}

func (s *stubProductsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductsRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	return nil, nil
}

func (s *stubProductsRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubProductsRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubProductsRepo) ListPublic(ctx context.Context, params pagination.Params) (*products.ProductList, error) {
	return &products.ProductList{}, nil
}

func (s *stubProductsRepo) ListBySupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params) (*products.ProductList, error) {
	var out []models.Product
	for _, p := range s.products {
		if p.SupplierID == supplierID {
			out = append(out, *p)
		}
	}
	return &products.ProductList{Products: out}, nil
}

func (s *stubProductsRepo) UpdateStock(ctx context.Context, id uuid.UUID, stock int) error {
	if p, ok := s.products[id]; ok {
		p.Stock = stock
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (s *stubProductsRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	return nil
}

func seedInventoryProduct(repo *stubProductsRepo, supplierID uuid.UUID, stock int) *models.Product {
	p := &models.Product{
		ID:         uuid.New(),
		SupplierID: supplierID,
		Name:       "Heavyweight Tee",
		Price:      decimal.NewFromFloat(20),
		Stock:      stock,
		IsActive:   true,
	}
	repo.products[p.ID] = p
	return p
}

func TestListStockScopedToSupplier(t *testing.T) {
	repo := newStubProductsRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	supplier := uuid.New()
	mine := seedInventoryProduct(repo, supplier, 7)
	seedInventoryProduct(repo, uuid.New(), 3)

	list, err := svc.ListStock(context.Background(), supplier, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list.Levels, 1)
	assert.Equal(t, mine.ID, list.Levels[0].ProductID)
	assert.Equal(t, 7, list.Levels[0].Stock)
}

func TestUpdateStockEnforcesOwnership(t *testing.T) {
	repo := newStubProductsRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	supplier := uuid.New()
	product := seedInventoryProduct(repo, supplier, 7)

	_, err = svc.UpdateStock(context.Background(), uuid.New(), product.ID, 10)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
	assert.Equal(t, 7, repo.products[product.ID].Stock)

	level, err := svc.UpdateStock(context.Background(), supplier, product.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, level.Stock)
	assert.Equal(t, 10, repo.products[product.ID].Stock)
}

func TestUpdateStockRejectsNegative(t *testing.T) {
	repo := newStubProductsRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	supplier := uuid.New()
	product := seedInventoryProduct(repo, supplier, 7)

	_, err = svc.UpdateStock(context.Background(), supplier, product.ID, -1)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateStockMissingProduct(t *testing.T) {
	repo := newStubProductsRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.UpdateStock(context.Background(), uuid.New(), uuid.New(), 5)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
