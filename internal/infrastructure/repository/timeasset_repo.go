package repository

import (
	"context"
	"errors"
	"time"

	"github.com/waste3d/tianji-twin-api/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TimeAssetRepository struct {
	db *gorm.DB
}

func NewTimeAssetRepository(db *gorm.DB) *TimeAssetRepository {
	return &TimeAssetRepository{db: db}
}

func (r *TimeAssetRepository) Exists(ctx context.Context, userID uuid.UUID, dimension string, periodStart, periodEnd time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.TimeAssetUnlock{}).
		Where("user_id = ? AND dimension = ? AND period_start = ? AND period_end = ?",
			userID, dimension, periodStart, periodEnd).
		Count(&count).Error
	return count > 0, err
}

// Unlock inserts the asset and debits its cost in one transaction. A
// concurrent duplicate loses on the unique window index before any charge;
// an insufficient balance rolls the insert back. Either way the ledger and
// the unlock commit together or not at all.
func (r *TimeAssetRepository) Unlock(ctx context.Context, asset *domain.TimeAssetUnlock) (int, error) {
	var newBalance int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		asset.ID = uuid.New()
		if err := tx.Create(asset).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrAlreadyUnlocked
			}
			return err
		}
		var err error
		newBalance, err = applyCoinDelta(tx, asset.UserID, -asset.CostCoins, domain.ReasonTimeAssetUnlock)
		return err
	})
	return newBalance, err
}

func (r *TimeAssetRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.TimeAssetUnlock, error) {
	var assets []domain.TimeAssetUnlock
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&assets).Error
	return assets, err
}
