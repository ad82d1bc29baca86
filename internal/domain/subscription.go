package domain

import (
	"time"

	"github.com/google/uuid"
)

type Tier string

const (
	TierFree    Tier = "free"
	TierBasic   Tier = "basic"
	TierPremium Tier = "premium"
)

// tierRank orders tiers for entitlement checks.
var tierRank = map[Tier]int{
	TierFree:    0,
	TierBasic:   1,
	TierPremium: 2,
}

func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if _, ok := tierRank[t]; !ok {
		return "", ErrInvalidTier
	}
	return t, nil
}

// AtLeast reports whether t grants everything min does.
func (t Tier) AtLeast(min Tier) bool {
	return tierRank[t] >= tierRank[min]
}

type SubscriptionStatus string

const (
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Subscription rows are append-only per purchase; at most one row per user
// may be pending or active at a time. expired/cancelled are terminal.
type Subscription struct {
	ID        uuid.UUID          `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID          `gorm:"type:uuid;index"`
	Tier      Tier               `gorm:"type:varchar(16)"`
	Status    SubscriptionStatus `gorm:"type:varchar(16);index"`
	IsYearly  bool
	StartedAt *time.Time
	ExpiresAt *time.Time
	AutoRenew bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderStatus string

const (
	OrderPending OrderStatus = "pending"
	OrderPaid    OrderStatus = "paid"
	OrderFailed  OrderStatus = "failed"
)

// PaymentOrder tracks the checkout for one subscription purchase. The
// gateway integration itself is external; we only drive the lifecycle.
type PaymentOrder struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID   `gorm:"type:uuid;index"`
	SubscriptionID uuid.UUID   `gorm:"type:uuid;index"`
	AmountCents    int
	PaymentMethod  string
	Status         OrderStatus `gorm:"type:varchar(16)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
