package repository

import (
	"context"
	"errors"

	"github.com/waste3d/tianji-twin-api/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// Increment bumps today's counter in a single INSERT ... ON CONFLICT ...
// RETURNING round trip, so concurrent uses of the same feature never lose
// updates and the returned count is exactly the one this call produced.
func (r *UsageRepository) Increment(ctx context.Context, userID uuid.UUID, feature, date string) (int, error) {
	counter := domain.UsageCounter{
		UserID:  userID,
		Feature: feature,
		Date:    date,
		Count:   1,
	}
	err := r.db.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "feature"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"count": gorm.Expr("usage_counters.count + 1"),
			}),
		},
		clause.Returning{Columns: []clause.Column{{Name: "count"}}},
	).Create(&counter).Error
	if err != nil {
		return 0, err
	}
	return counter.Count, nil
}

func (r *UsageRepository) Get(ctx context.Context, userID uuid.UUID, feature, date string) (int, error) {
	var counter domain.UsageCounter
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND feature = ? AND date = ?", userID, feature, date).
		First(&counter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return counter.Count, nil
}
