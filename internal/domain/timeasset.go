package domain

import (
	"time"

	"github.com/google/uuid"
)

// TimeAssetUnlock records a one-time coin purchase of analysis access for a
// dimension+period window. The composite unique index is what resolves
// concurrent duplicate purchases: the loser hits the index, not a second charge.
type TimeAssetUnlock struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_unlock_window"`
	Dimension   string    `gorm:"size:32;uniqueIndex:idx_unlock_window"`
	PeriodStart time.Time `gorm:"uniqueIndex:idx_unlock_window"`
	PeriodEnd   time.Time `gorm:"uniqueIndex:idx_unlock_window"`
	PeriodType  string    `gorm:"size:16"`
	ExpiresAt   time.Time
	CostCoins   int
	CreatedAt   time.Time
}
