package domain

type RewardEventType string

const (
	EventCoinGranted           RewardEventType = "COIN_GRANTED"
	EventThresholdReached      RewardEventType = "THRESHOLD_REACHED"
	EventCompletenessIncreased RewardEventType = "COMPLETENESS_INCREASED"
)

// RewardEvent is an ephemeral value emitted when a profile mutation raises
// the completeness score. Not persisted.
type RewardEvent struct {
	Type      RewardEventType `json:"type"`
	Coins     int             `json:"coins,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	Field     string          `json:"field,omitempty"`
	Threshold int             `json:"threshold,omitempty"`
}
