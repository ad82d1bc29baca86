package domain

import (
	"github.com/google/uuid"
)

// UsageCounter counts feature uses per user per calendar day. The date is
// part of the key, so counters reset implicitly when the day rolls over.
type UsageCounter struct {
	UserID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Feature string    `gorm:"primaryKey;size:64"`
	Date    string    `gorm:"primaryKey;size:10"` // YYYY-MM-DD
	Count   int       `gorm:"default:0"`
}
