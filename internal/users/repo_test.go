package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/db/models"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/enums"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/pagination"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  full_name TEXT NOT NULL,
  phone TEXT,
  role TEXT NOT NULL DEFAULT 'customer',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role enums.UserRole, createdAt time.Time) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Username:     "user-" + uuid.NewString()[:8],
		Email:        uuid.NewString()[:8] + "@example.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		FullName:     "Test User",
		Role:         role,
		IsActive:     true,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestRepositoryCreateAndFind(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.User{
		ID:           uuid.New(),
		Username:     "kwame",
		Email:        "kwame@example.com",
		PasswordHash: "hash",
		FullName:     "Kwame Mensah",
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	})
	require.NoError(t, err)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "kwame", byID.Username)

	byUsername, err := repo.FindByUsername(ctx, "kwame")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byUsername.ID)

	byEmail, err := repo.FindByEmail(ctx, "kwame@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.FindByUsername(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdateLastLogin(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, enums.UserRoleCustomer, time.Now().UTC())
	require.Nil(t, user.LastLoginAt)

	require.NoError(t, repo.UpdateLastLogin(ctx, user.ID))

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLoginAt)
}

func TestRepositoryUpdateRole(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, enums.UserRoleCustomer, time.Now().UTC())

	require.NoError(t, repo.UpdateRole(ctx, user.ID, enums.UserRoleSupplier))

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleSupplier, reloaded.Role)

	err = repo.UpdateRole(ctx, uuid.New(), enums.UserRoleAdmin)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositorySetActive(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, enums.UserRoleSupplier, time.Now().UTC())

	require.NoError(t, repo.SetActive(ctx, user.ID, false))

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)

	err = repo.SetActive(ctx, uuid.New(), false)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListPaginatesAndFilters(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		seedUser(t, db, enums.UserRoleCustomer, base.Add(time.Duration(i)*time.Minute))
	}
	supplier := seedUser(t, db, enums.UserRoleSupplier, base.Add(10*time.Minute))

	page, err := repo.List(ctx, pagination.Params{Limit: 2}, ListFilters{})
	require.NoError(t, err)
	require.Len(t, page.Users, 2)
	require.NotNil(t, page.NextCursor)
	// Newest first.
	assert.Equal(t, supplier.ID, page.Users[0].ID)

	rest, err := repo.List(ctx, pagination.Params{Limit: 10, Cursor: *page.NextCursor}, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, rest.Users, 2)
	assert.Nil(t, rest.NextCursor)

	role := enums.UserRoleSupplier
	suppliers, err := repo.List(ctx, pagination.Params{Limit: 10}, ListFilters{Role: &role})
	require.NoError(t, err)
	require.Len(t, suppliers.Users, 1)
	assert.Equal(t, supplier.ID, suppliers.Users[0].ID)
}
