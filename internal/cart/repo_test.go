package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/db/models"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  items TEXT NOT NULL DEFAULT '[]',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func TestRepositoryUpsertReplacesItems(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	productA := uuid.New()
	productB := uuid.New()

	first, err := repo.Upsert(ctx, userID, models.CartItems{
		{ProductID: productA, Quantity: 2, Size: "M", Color: "black"},
	})
	require.NoError(t, err)
	require.Len(t, first.Items, 1)

	second, err := repo.Upsert(ctx, userID, models.CartItems{
		{ProductID: productB, Quantity: 1, Size: "L", Color: "white"},
	})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, productB, second.Items[0].ProductID)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRepositoryFindByUserMissing(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryClear(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	_, err := repo.Upsert(ctx, userID, models.CartItems{
		{ProductID: uuid.New(), Quantity: 3},
	})
	require.NoError(t, err)

	require.NoError(t, repo.Clear(ctx, userID))

	cart, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// Clearing a cart that never existed is a no-op.
	require.NoError(t, repo.Clear(ctx, uuid.New()))
}
