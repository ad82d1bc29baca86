package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/waste3d/tianji-twin-api/internal/domain"

	"github.com/google/uuid"
)

// Plan prices in cents. Yearly is ten months for the price of twelve.
var planPrices = map[domain.Tier]struct{ Monthly, Yearly int }{
	domain.TierBasic:   {Monthly: 980, Yearly: 9800},
	domain.TierPremium: {Monthly: 2980, Yearly: 29800},
}

type StatusInfo struct {
	Tier      domain.Tier               `json:"tier"`
	Status    domain.SubscriptionStatus `json:"status"`
	IsYearly  bool                      `json:"isYearly"`
	ExpiresAt *time.Time                `json:"expiresAt,omitempty"`
}

type FeatureDecision struct {
	Allowed        bool   `json:"allowed"`
	Reason         string `json:"reason,omitempty"`
	RemainingToday *int   `json:"remainingToday,omitempty"`
}

type UsageResult struct {
	Feature string `json:"feature"`
	Date    string `json:"date"`
	Count   int    `json:"count"`
}

type SubscriptionUseCase struct {
	subs        SubscriptionStore
	usage       UsageStore
	statusCache StatusCache
	loc         *time.Location
	log         *slog.Logger
}

func NewSubscriptionUseCase(subs SubscriptionStore, usage UsageStore, statusCache StatusCache, loc *time.Location, log *slog.Logger) *SubscriptionUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &SubscriptionUseCase{subs: subs, usage: usage, statusCache: statusCache, loc: loc, log: log}
}

// Create starts a purchase: a pending subscription plus its payment order.
// The free tier is not purchasable.
func (uc *SubscriptionUseCase) Create(ctx context.Context, userID uuid.UUID, tierStr string, isYearly bool, paymentMethod string) (*domain.Subscription, *domain.PaymentOrder, error) {
	tier, err := domain.ParseTier(tierStr)
	if err != nil {
		return nil, nil, err
	}
	price, ok := planPrices[tier]
	if !ok {
		return nil, nil, domain.ErrInvalidTier
	}

	amount := price.Monthly
	if isYearly {
		amount = price.Yearly
	}

	sub := &domain.Subscription{
		ID:       uuid.New(),
		UserID:   userID,
		Tier:     tier,
		Status:   domain.SubscriptionPending,
		IsYearly: isYearly,
	}
	order := &domain.PaymentOrder{
		ID:            uuid.New(),
		UserID:        userID,
		AmountCents:   amount,
		PaymentMethod: paymentMethod,
		Status:        domain.OrderPending,
	}

	if err := uc.subs.CreateWithOrder(ctx, sub, order); err != nil {
		return nil, nil, err
	}
	_ = uc.statusCache.Invalidate(ctx, userID.String())
	return sub, order, nil
}

// ConfirmPayment is driven by the external gateway callback.
func (uc *SubscriptionUseCase) ConfirmPayment(ctx context.Context, orderID uuid.UUID) (*domain.Subscription, error) {
	sub, err := uc.subs.ConfirmOrder(ctx, orderID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("confirm order: %w", err)
	}
	_ = uc.statusCache.Invalidate(ctx, sub.UserID.String())
	uc.log.Info("subscription activated",
		"user_id", sub.UserID.String(), "tier", string(sub.Tier), "order_id", orderID.String())
	return sub, nil
}

func (uc *SubscriptionUseCase) CheckOrderStatus(ctx context.Context, orderID uuid.UUID) (*domain.PaymentOrder, error) {
	return uc.subs.GetOrder(ctx, orderID)
}

func (uc *SubscriptionUseCase) Cancel(ctx context.Context, userID uuid.UUID) error {
	if err := uc.subs.Cancel(ctx, userID); err != nil {
		return err
	}
	_ = uc.statusCache.Invalidate(ctx, userID.String())
	return nil
}

// CheckExpired sweeps overdue active subscriptions in one idempotent UPDATE.
func (uc *SubscriptionUseCase) CheckExpired(ctx context.Context) (int64, error) {
	swept, err := uc.subs.ExpireDue(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("expire sweep: %w", err)
	}
	if swept > 0 {
		uc.log.Info("expired subscriptions swept", "count", swept)
	}
	return swept, nil
}

// Status never errors on an absent subscription: no row means free tier.
func (uc *SubscriptionUseCase) Status(ctx context.Context, userID uuid.UUID) (StatusInfo, error) {
	var cached StatusInfo
	if hit, err := uc.statusCache.Get(ctx, userID.String(), &cached); err == nil && hit {
		return cached, nil
	}

	info := StatusInfo{Tier: domain.TierFree, Status: "none"}
	sub, err := uc.subs.Current(ctx, userID)
	if err == nil {
		info = StatusInfo{
			Tier:      sub.Tier,
			Status:    sub.Status,
			IsYearly:  sub.IsYearly,
			ExpiresAt: sub.ExpiresAt,
		}
		// Lazily report rows the sweep has not reached yet.
		if sub.Status == domain.SubscriptionActive && sub.ExpiresAt != nil && sub.ExpiresAt.Before(time.Now()) {
			info.Status = domain.SubscriptionExpired
			info.Tier = domain.TierFree
		}
	} else if err != domain.ErrNotFound {
		return StatusInfo{}, err
	}

	_ = uc.statusCache.Set(ctx, userID.String(), info)
	return info, nil
}

// effectiveTier is free unless a non-expired active subscription says otherwise.
func (uc *SubscriptionUseCase) effectiveTier(ctx context.Context, userID uuid.UUID) (domain.Tier, error) {
	sub, err := uc.subs.Current(ctx, userID)
	if err != nil {
		if err == domain.ErrNotFound {
			return domain.TierFree, nil
		}
		return "", err
	}
	if sub.Status != domain.SubscriptionActive {
		return domain.TierFree, nil
	}
	if sub.ExpiresAt != nil && sub.ExpiresAt.Before(time.Now()) {
		return domain.TierFree, nil
	}
	return sub.Tier, nil
}

// CheckFeature is read-only: it resolves tier and quota but mutates nothing.
func (uc *SubscriptionUseCase) CheckFeature(ctx context.Context, userID uuid.UUID, featurePath string) (FeatureDecision, error) {
	cap, ok := LookupCapability(featurePath)
	if !ok {
		return FeatureDecision{Allowed: false, Reason: "unknown feature"}, nil
	}

	tier, err := uc.effectiveTier(ctx, userID)
	if err != nil {
		return FeatureDecision{}, err
	}
	if !tier.AtLeast(cap.MinTier) {
		return FeatureDecision{
			Allowed: false,
			Reason:  fmt.Sprintf("requires %s subscription", cap.MinTier),
		}, nil
	}

	if tier == domain.TierFree && cap.FreeDailyLimit > 0 {
		today := domain.DayKey(time.Now(), uc.loc)
		count, err := uc.usage.Get(ctx, userID, featurePath, today)
		if err != nil {
			return FeatureDecision{}, err
		}
		if count >= cap.FreeDailyLimit {
			return FeatureDecision{Allowed: false, Reason: "daily limit reached"}, nil
		}
		remaining := cap.FreeDailyLimit - count
		return FeatureDecision{Allowed: true, RemainingToday: &remaining}, nil
	}

	return FeatureDecision{Allowed: true}, nil
}

// RecordUsage bumps today's counter atomically; metadata is logged, not stored.
func (uc *SubscriptionUseCase) RecordUsage(ctx context.Context, userID uuid.UUID, feature string, metadata map[string]interface{}) (UsageResult, error) {
	today := domain.DayKey(time.Now(), uc.loc)
	count, err := uc.usage.Increment(ctx, userID, feature, today)
	if err != nil {
		return UsageResult{}, fmt.Errorf("record usage: %w", err)
	}
	if len(metadata) > 0 {
		uc.log.Info("feature used", "user_id", userID.String(), "feature", feature, "metadata", metadata)
	}
	return UsageResult{Feature: feature, Date: today, Count: count}, nil
}

func (uc *SubscriptionUseCase) Usage(ctx context.Context, userID uuid.UUID, feature string) (UsageResult, error) {
	today := domain.DayKey(time.Now(), uc.loc)
	count, err := uc.usage.Get(ctx, userID, feature, today)
	if err != nil {
		return UsageResult{}, err
	}
	return UsageResult{Feature: feature, Date: today, Count: count}, nil
}
