package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/waste3d/tianji-twin-api/internal/domain"

	"github.com/google/uuid"
)

type fakeCharts struct {
	mu     sync.Mutex
	charts map[uuid.UUID]*domain.StarChart
}

func newFakeCharts() *fakeCharts {
	return &fakeCharts{charts: map[uuid.UUID]*domain.StarChart{}}
}

func (s *fakeCharts) Save(_ context.Context, chart *domain.StarChart) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, existed := s.charts[chart.UserID]
	stored := *chart
	s.charts[chart.UserID] = &stored
	return !existed, nil
}

func (s *fakeCharts) Get(_ context.Context, userID uuid.UUID) (*domain.StarChart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chart, ok := s.charts[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *chart
	return &copied, nil
}

func (s *fakeCharts) UpdateBriefAnalysis(_ context.Context, userID uuid.UUID, analysis string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	chart, ok := s.charts[userID]
	if !ok {
		return domain.ErrNotFound
	}
	chart.BriefAnalysisCache = analysis
	return nil
}

type fakeCaches struct {
	mu      sync.Mutex
	entries []domain.AnalysisCache
}

func (s *fakeCaches) Put(_ context.Context, entry *domain.AnalysisCache) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		e := &s.entries[i]
		if e.UserID == entry.UserID && e.Dimension == entry.Dimension && e.CacheKey == entry.CacheKey &&
			e.PeriodStart.Equal(entry.PeriodStart) && e.PeriodEnd.Equal(entry.PeriodEnd) {
			e.CacheData = entry.CacheData
			e.ExpiresAt = entry.ExpiresAt
			return nil
		}
	}
	entry.ID = uuid.New()
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *fakeCaches) Get(_ context.Context, userID uuid.UUID, dimension, cacheKey string, periodStart, periodEnd time.Time) (*domain.AnalysisCache, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		e := s.entries[i]
		if e.UserID == userID && e.Dimension == dimension && e.CacheKey == cacheKey &&
			e.PeriodStart.Equal(periodStart) && e.PeriodEnd.Equal(periodEnd) {
			return &e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func TestSaveChartReportsCreateVsOverwrite(t *testing.T) {
	uc := NewAstrologyUseCase(newFakeCharts(), &fakeCaches{})
	ctx := context.Background()
	user := uuid.New()

	_, created, err := uc.SaveChart(ctx, user, `{"palaces":[]}`, "")
	if err != nil || !created {
		t.Fatalf("first save = (created=%v, %v), want (true, nil)", created, err)
	}
	_, created, err = uc.SaveChart(ctx, user, `{"palaces":["ming"]}`, "brief")
	if err != nil || created {
		t.Fatalf("second save = (created=%v, %v), want (false, nil)", created, err)
	}

	chart, err := uc.GetChart(ctx, user)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if chart.ChartStructure != `{"palaces":["ming"]}` || chart.BriefAnalysisCache != "brief" {
		t.Fatalf("chart after overwrite = %+v", chart)
	}
}

func TestCachePutGetRoundTrip(t *testing.T) {
	uc := NewAstrologyUseCase(newFakeCharts(), &fakeCaches{})
	ctx := context.Background()
	user := uuid.New()

	_, err := uc.PutCache(ctx, user, "month", "fortune", "2025-01-01", "2025-01-31", `{"luck":"good"}`, "2099-12-31")
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	entry, err := uc.GetCache(ctx, user, "month", "fortune", "2025-01-01", "2025-01-31", true)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry.CacheData != `{"luck":"good"}` {
		t.Fatalf("payload = %q", entry.CacheData)
	}

	// Same window again overwrites rather than duplicating.
	if _, err := uc.PutCache(ctx, user, "month", "fortune", "2025-01-01", "2025-01-31", `{"luck":"bad"}`, "2099-12-31"); err != nil {
		t.Fatalf("second put: %v", err)
	}
	entry, _ = uc.GetCache(ctx, user, "month", "fortune", "2025-01-01", "2025-01-31", true)
	if entry.CacheData != `{"luck":"bad"}` {
		t.Fatalf("payload after upsert = %q", entry.CacheData)
	}
}

func TestCacheExpiryFilterIsExplicit(t *testing.T) {
	uc := NewAstrologyUseCase(newFakeCharts(), &fakeCaches{})
	ctx := context.Background()
	user := uuid.New()

	if _, err := uc.PutCache(ctx, user, "day", "brief", "2020-01-01", "2020-01-01", "stale", "2020-01-02"); err != nil {
		t.Fatalf("put: %v", err)
	}

	if _, err := uc.GetCache(ctx, user, "day", "brief", "2020-01-01", "2020-01-01", true); err != nil {
		t.Fatalf("includeExpired=true hid the entry: %v", err)
	}
	if _, err := uc.GetCache(ctx, user, "day", "brief", "2020-01-01", "2020-01-01", false); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("includeExpired=false returned expired entry: %v", err)
	}
}

func TestCacheRejectsLooseDates(t *testing.T) {
	uc := NewAstrologyUseCase(newFakeCharts(), &fakeCaches{})
	ctx := context.Background()

	_, err := uc.PutCache(ctx, uuid.New(), "month", "fortune", "2025/01/01", "2025-01-31", "x", "2099-12-31")
	if !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("put loose date = %v, want ErrInvalidDate", err)
	}
	_, err = uc.GetCache(ctx, uuid.New(), "month", "fortune", "01-01-2025", "2025-01-31", true)
	if !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("get loose date = %v, want ErrInvalidDate", err)
	}
}
