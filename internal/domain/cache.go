package domain

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisCache is a time-scoped cache entry for computed analysis payloads.
// Writes upsert on the composite key; a second put for the same window
// replaces payload and expiry instead of creating a duplicate.
type AnalysisCache struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cache_window"`
	Dimension   string    `gorm:"size:32;uniqueIndex:idx_cache_window"`
	CacheKey    string    `gorm:"size:128;uniqueIndex:idx_cache_window"`
	PeriodStart time.Time `gorm:"uniqueIndex:idx_cache_window"`
	PeriodEnd   time.Time `gorm:"uniqueIndex:idx_cache_window"`
	CacheData   string    `gorm:"type:text"`
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Expired reports logical expiry; readers decide whether to honor it.
func (e *AnalysisCache) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}
