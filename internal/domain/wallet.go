package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Ledger reason codes.
const (
	ReasonCompletenessReward = "completeness_reward"
	ReasonTimeAssetUnlock    = "time_asset_unlock"
	ReasonAdminGrant         = "admin_grant"
)

// CompletenessRewardReason keys the ledger row for one threshold payout.
// The ledger doubles as the once-only record: a threshold whose reason
// already appears in coin_transactions is never paid again.
func CompletenessRewardReason(threshold int) string {
	return fmt.Sprintf("%s:%d", ReasonCompletenessReward, threshold)
}

// CoinTransaction is the audit row written alongside every balance mutation.
// Amount is signed: credits positive, debits negative.
type CoinTransaction struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;index"`
	Amount       int
	Reason       string
	BalanceAfter int
	CreatedAt    time.Time
}
