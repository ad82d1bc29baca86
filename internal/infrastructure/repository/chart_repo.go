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

type ChartRepository struct {
	db *gorm.DB
}

func NewChartRepository(db *gorm.DB) *ChartRepository {
	return &ChartRepository{db: db}
}

// Save upserts the user's chart. Returns true when the row was created
// rather than overwritten (the handler answers 201 vs 200 with it).
func (r *ChartRepository) Save(ctx context.Context, chart *domain.StarChart) (bool, error) {
	var created bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.StarChart{}).
			Where("user_id = ?", chart.UserID).
			Count(&count).Error; err != nil {
			return err
		}
		created = count == 0
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"chart_structure":      chart.ChartStructure,
				"brief_analysis_cache": chart.BriefAnalysisCache,
				"updated_at":           time.Now(),
			}),
		}).Create(chart).Error
	})
	return created, err
}

func (r *ChartRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.StarChart, error) {
	var chart domain.StarChart
	err := r.db.WithContext(ctx).First(&chart, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &chart, nil
}

func (r *ChartRepository) UpdateBriefAnalysis(ctx context.Context, userID uuid.UUID, analysis string) error {
	res := r.db.WithContext(ctx).Model(&domain.StarChart{}).
		Where("user_id = ?", userID).
		Update("brief_analysis_cache", analysis)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
