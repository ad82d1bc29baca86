package repository

import (
	"context"
	"errors"
	"time"

	"github.com/waste3d/tianji-twin-api/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Current returns the user's pending or active subscription, if any.
func (r *SubscriptionRepository) Current(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID,
			[]domain.SubscriptionStatus{domain.SubscriptionPending, domain.SubscriptionActive}).
		Order("created_at desc").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// CreateWithOrder creates the pending subscription and its payment order
// together. The live-row check runs inside the same transaction so two
// concurrent purchases cannot both pass it.
func (r *SubscriptionRepository) CreateWithOrder(ctx context.Context, sub *domain.Subscription, order *domain.PaymentOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&domain.Subscription{}).
			Where("user_id = ? AND status IN ?", sub.UserID,
				[]domain.SubscriptionStatus{domain.SubscriptionPending, domain.SubscriptionActive}).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrSubscriptionExists
		}
		if err := tx.Create(sub).Error; err != nil {
			return err
		}
		order.SubscriptionID = sub.ID
		return tx.Create(order).Error
	})
}

// Cancel transitions the cancellable subscription, if any, in one UPDATE.
func (r *SubscriptionRepository) Cancel(ctx context.Context, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("user_id = ? AND status IN ?", userID,
			[]domain.SubscriptionStatus{domain.SubscriptionPending, domain.SubscriptionActive}).
		Update("status", domain.SubscriptionCancelled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ExpireDue sweeps active subscriptions past their expiry. The WHERE clause
// makes the sweep idempotent: an already-expired row never matches twice.
func (r *SubscriptionRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("status = ? AND expires_at < ?", domain.SubscriptionActive, now).
		Update("status", domain.SubscriptionExpired)
	return res.RowsAffected, res.Error
}

func (r *SubscriptionRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.PaymentOrder, error) {
	var order domain.PaymentOrder
	err := r.db.WithContext(ctx).First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// ConfirmOrder marks the order paid and activates its subscription. Both
// status transitions are conditional UPDATEs: a replayed callback finds the
// order no longer pending, and a late callback after cancel finds the
// subscription no longer pending — the cancelled row stays cancelled and the
// order is marked failed instead.
func (r *SubscriptionRepository) ConfirmOrder(ctx context.Context, orderID uuid.UUID, now time.Time) (*domain.Subscription, error) {
	var sub domain.Subscription
	var stale bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.PaymentOrder{}).
			Where("id = ? AND status = ?", orderID, domain.OrderPending).
			Update("status", domain.OrderPaid)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		var order domain.PaymentOrder
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			return err
		}
		if err := tx.First(&sub, "id = ?", order.SubscriptionID).Error; err != nil {
			return err
		}

		duration := 30 * 24 * time.Hour
		if sub.IsYearly {
			duration = 365 * 24 * time.Hour
		}
		expires := now.Add(duration)

		res = tx.Model(&domain.Subscription{}).
			Where("id = ? AND status = ?", sub.ID, domain.SubscriptionPending).
			Updates(map[string]interface{}{
				"status":     domain.SubscriptionActive,
				"started_at": now,
				"expires_at": expires,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Returning an error here would roll back the failed marking,
			// so signal staleness through the flag and commit.
			stale = true
			return tx.Model(&domain.PaymentOrder{}).
				Where("id = ?", orderID).
				Update("status", domain.OrderFailed).Error
		}
		sub.Status = domain.SubscriptionActive
		sub.StartedAt = &now
		sub.ExpiresAt = &expires
		return nil
	})
	if err != nil {
		return nil, err
	}
	if stale {
		return nil, domain.ErrNotFound
	}
	return &sub, nil
}
