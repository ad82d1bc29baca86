package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/waste3d/tianji-twin-api/internal/domain"

	"github.com/google/uuid"
)

type AstrologyUseCase struct {
	charts ChartStore
	cache  CacheEntryStore
}

func NewAstrologyUseCase(charts ChartStore, cache CacheEntryStore) *AstrologyUseCase {
	return &AstrologyUseCase{charts: charts, cache: cache}
}

func (uc *AstrologyUseCase) SaveChart(ctx context.Context, userID uuid.UUID, chartStructure, briefAnalysis string) (*domain.StarChart, bool, error) {
	chart := &domain.StarChart{
		UserID:             userID,
		ChartStructure:     chartStructure,
		BriefAnalysisCache: briefAnalysis,
	}
	created, err := uc.charts.Save(ctx, chart)
	if err != nil {
		return nil, false, fmt.Errorf("save chart: %w", err)
	}
	return chart, created, nil
}

func (uc *AstrologyUseCase) GetChart(ctx context.Context, userID uuid.UUID) (*domain.StarChart, error) {
	return uc.charts.Get(ctx, userID)
}

func (uc *AstrologyUseCase) UpdateBriefAnalysis(ctx context.Context, userID uuid.UUID, analysis string) error {
	return uc.charts.UpdateBriefAnalysis(ctx, userID, analysis)
}

// PutCache validates the window strictly before the upsert.
func (uc *AstrologyUseCase) PutCache(ctx context.Context, userID uuid.UUID, dimension, cacheKey, periodStart, periodEnd, data, expiresAt string) (*domain.AnalysisCache, error) {
	from, to, err := domain.ParsePeriod(periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	expires, err := domain.ParseDate(expiresAt)
	if err != nil {
		return nil, err
	}

	entry := &domain.AnalysisCache{
		UserID:      userID,
		Dimension:   dimension,
		CacheKey:    cacheKey,
		PeriodStart: from,
		PeriodEnd:   to,
		CacheData:   data,
		ExpiresAt:   expires,
	}
	if err := uc.cache.Put(ctx, entry); err != nil {
		return nil, fmt.Errorf("put cache entry: %w", err)
	}
	return entry, nil
}

// GetCache leaves freshness to the caller: includeExpired=true returns the
// entry regardless of its expiry, which is what the HTTP layer uses so a
// just-written future-dated entry is always readable.
func (uc *AstrologyUseCase) GetCache(ctx context.Context, userID uuid.UUID, dimension, cacheKey, periodStart, periodEnd string, includeExpired bool) (*domain.AnalysisCache, error) {
	from, to, err := domain.ParsePeriod(periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	entry, err := uc.cache.Get(ctx, userID, dimension, cacheKey, from, to)
	if err != nil {
		return nil, err
	}
	if !includeExpired && entry.Expired(time.Now()) {
		return nil, domain.ErrNotFound
	}
	return entry, nil
}
