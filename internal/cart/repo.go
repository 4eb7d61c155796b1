package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *repository) Upsert(ctx context.Context, userID uuid.UUID, items models.CartItems) (*models.Cart, error) {
	if items == nil {
		items = models.CartItems{}
	}
	cart := &models.Cart{
		UserID: userID,
		Items:  items,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
		}).
		Create(cart).Error
	if err != nil {
		return nil, err
	}
	return r.FindByUser(ctx, userID)
}

func (r *repository) Clear(ctx context.Context, userID uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&models.Cart{}).
		Where("user_id = ?", userID).
		Update("items", models.CartItems{}).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
