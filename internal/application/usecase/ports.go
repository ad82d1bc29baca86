package usecase

import (
	"context"
	"time"

	"github.com/waste3d/tianji-twin-api/internal/domain"

	"github.com/google/uuid"
)

// Storage ports implemented by internal/infrastructure/repository.

type UserStore interface {
	Ensure(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
}

type WalletStore interface {
	Credit(ctx context.Context, userID uuid.UUID, amount int, reason string) (int, error)
	Debit(ctx context.Context, userID uuid.UUID, amount int, reason string) (int, error)
	Balance(ctx context.Context, userID uuid.UUID) (int, error)
	Transactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.CoinTransaction, error)
	HasTransaction(ctx context.Context, userID uuid.UUID, reason string) (bool, error)
}

type ChartStore interface {
	Save(ctx context.Context, chart *domain.StarChart) (bool, error)
	Get(ctx context.Context, userID uuid.UUID) (*domain.StarChart, error)
	UpdateBriefAnalysis(ctx context.Context, userID uuid.UUID, analysis string) error
}

type CacheEntryStore interface {
	Put(ctx context.Context, entry *domain.AnalysisCache) error
	Get(ctx context.Context, userID uuid.UUID, dimension, cacheKey string, periodStart, periodEnd time.Time) (*domain.AnalysisCache, error)
}

type UnlockStore interface {
	Exists(ctx context.Context, userID uuid.UUID, dimension string, periodStart, periodEnd time.Time) (bool, error)
	Unlock(ctx context.Context, asset *domain.TimeAssetUnlock) (int, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.TimeAssetUnlock, error)
}

type SubscriptionStore interface {
	Current(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error)
	CreateWithOrder(ctx context.Context, sub *domain.Subscription, order *domain.PaymentOrder) error
	Cancel(ctx context.Context, userID uuid.UUID) error
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.PaymentOrder, error)
	ConfirmOrder(ctx context.Context, orderID uuid.UUID, now time.Time) (*domain.Subscription, error)
}

type UsageStore interface {
	Increment(ctx context.Context, userID uuid.UUID, feature, date string) (int, error)
	Get(ctx context.Context, userID uuid.UUID, feature, date string) (int, error)
}

// StatusCache is the redis-backed read cache for subscription status.
type StatusCache interface {
	Get(ctx context.Context, userID string, out interface{}) (bool, error)
	Set(ctx context.Context, userID string, status interface{}) error
	Invalidate(ctx context.Context, userID string) error
}
