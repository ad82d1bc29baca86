package usecase

import (
	"context"
	"time"

	"github.com/waste3d/tianji-twin-api/internal/domain"

	"github.com/google/uuid"
)

// Default unlock prices per dimension, in coins, when the client sends none.
var dimensionCosts = map[string]int{
	"day":   30,
	"week":  60,
	"month": 100,
	"year":  300,
}

const defaultUnlockCost = 100

type TimeAssetUseCase struct {
	assets UnlockStore
}

func NewTimeAssetUseCase(assets UnlockStore) *TimeAssetUseCase {
	return &TimeAssetUseCase{assets: assets}
}

// Unlock validates everything before any coins move: dates first, then the
// duplicate check, and only then the debit+insert transaction. A lost race
// still resolves to ErrAlreadyUnlocked via the unique index, charge-free.
func (uc *TimeAssetUseCase) Unlock(ctx context.Context, userID uuid.UUID, dimension, periodStart, periodEnd, periodType, expiresAt string, costCoins int) (*domain.TimeAssetUnlock, int, error) {
	from, to, err := domain.ParsePeriod(periodStart, periodEnd)
	if err != nil {
		return nil, 0, err
	}
	expires, err := domain.ParseDate(expiresAt)
	if err != nil {
		return nil, 0, err
	}

	if costCoins <= 0 {
		costCoins = defaultUnlockCost
		if c, ok := dimensionCosts[dimension]; ok {
			costCoins = c
		}
	}

	exists, err := uc.assets.Exists(ctx, userID, dimension, from, to)
	if err != nil {
		return nil, 0, err
	}
	if exists {
		return nil, 0, domain.ErrAlreadyUnlocked
	}

	asset := &domain.TimeAssetUnlock{
		UserID:      userID,
		Dimension:   dimension,
		PeriodStart: from,
		PeriodEnd:   to,
		PeriodType:  periodType,
		ExpiresAt:   expires,
		CostCoins:   costCoins,
		CreatedAt:   time.Now(),
	}
	newBalance, err := uc.assets.Unlock(ctx, asset)
	if err != nil {
		return nil, 0, err
	}
	return asset, newBalance, nil
}

func (uc *TimeAssetUseCase) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.TimeAssetUnlock, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.assets.List(ctx, userID, limit, offset)
}

// Check is a pure existence lookup for UIs, no side effects.
func (uc *TimeAssetUseCase) Check(ctx context.Context, userID uuid.UUID, dimension, periodStart, periodEnd string) (bool, error) {
	from, to, err := domain.ParsePeriod(periodStart, periodEnd)
	if err != nil {
		return false, err
	}
	return uc.assets.Exists(ctx, userID, dimension, from, to)
}
