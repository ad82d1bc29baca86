package repository

import (
	"context"
	"errors"
	"time"

	"github.com/waste3d/tianji-twin-api/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CacheRepository struct {
	db *gorm.DB
}

func NewCacheRepository(db *gorm.DB) *CacheRepository {
	return &CacheRepository{db: db}
}

// Put upserts on the window key: same (user, dimension, key, period) rewrites
// payload and expiry instead of inserting a duplicate.
func (r *CacheRepository) Put(ctx context.Context, entry *domain.AnalysisCache) error {
	entry.ID = uuid.New()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "dimension"}, {Name: "cache_key"},
			{Name: "period_start"}, {Name: "period_end"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"cache_data": entry.CacheData,
			"expires_at": entry.ExpiresAt,
			"updated_at": time.Now(),
		}),
	}).Create(entry).Error
}

func (r *CacheRepository) Get(ctx context.Context, userID uuid.UUID, dimension, cacheKey string, periodStart, periodEnd time.Time) (*domain.AnalysisCache, error) {
	var entry domain.AnalysisCache
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND dimension = ? AND cache_key = ? AND period_start = ? AND period_end = ?",
			userID, dimension, cacheKey, periodStart, periodEnd).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}
