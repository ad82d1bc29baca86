package domain

import (
	"time"

	"github.com/google/uuid"
)

// StarChart stores the computed natal chart, one row per user.
type StarChart struct {
	UserID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChartStructure     string    `gorm:"type:text"` // opaque JSON from the chart engine
	BriefAnalysisCache string    `gorm:"type:text"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
