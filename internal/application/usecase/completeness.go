package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/waste3d/tianji-twin-api/internal/domain"

	"github.com/google/uuid"
)

// Field weights sum to 100, so the weighted sum is already the percentage.
const (
	weightBirthData     = 30
	weightMBTI          = 15
	weightProfession    = 15
	weightCurrentStatus = 20
	weightWishes        = 20
)

// rewardThresholds must stay sorted ascending; crossing one grants coins.
var rewardThresholds = []struct {
	Score int
	Coins int
}{
	{40, 10},
	{60, 20},
	{80, 30},
	{100, 50},
}

type FieldScore struct {
	Filled   bool `json:"filled"`
	Score    int  `json:"score"`
	MaxScore int  `json:"maxScore"`
}

type CompletenessResult struct {
	Score               int                   `json:"score"`
	Fields              map[string]FieldScore `json:"fields"`
	NextRewardThreshold *int                  `json:"nextRewardThreshold,omitempty"`
}

// ScoreProfile is pure: it only reads the snapshot it is given.
func ScoreProfile(u *domain.User) CompletenessResult {
	fields := map[string]FieldScore{
		"birthData":     fieldScore(u.HasBirthData(), weightBirthData),
		"mbti":          fieldScore(u.MBTI != "", weightMBTI),
		"profession":    fieldScore(u.Profession != "", weightProfession),
		"currentStatus": fieldScore(u.CurrentStatus != "", weightCurrentStatus),
		"wishes":        fieldScore(u.Wishes != "", weightWishes),
	}

	total := 0
	for _, f := range fields {
		total += f.Score
	}
	if total > 100 {
		total = 100
	}

	result := CompletenessResult{Score: total, Fields: fields}
	for _, t := range rewardThresholds {
		if t.Score > total {
			threshold := t.Score
			result.NextRewardThreshold = &threshold
			break
		}
	}
	return result
}

func fieldScore(filled bool, max int) FieldScore {
	score := 0
	if filled {
		score = max
	}
	return FieldScore{Filled: filled, Score: score, MaxScore: max}
}

// rewardEvents diffs two scores against the threshold ladder, ascending.
func rewardEvents(oldScore, newScore int) []domain.RewardEvent {
	var events []domain.RewardEvent
	for _, t := range rewardThresholds {
		if oldScore < t.Score && newScore >= t.Score {
			events = append(events,
				domain.RewardEvent{Type: domain.EventThresholdReached, Threshold: t.Score},
				domain.RewardEvent{
					Type:      domain.EventCoinGranted,
					Coins:     t.Coins,
					Reason:    fmt.Sprintf("completeness reached %d", t.Score),
					Threshold: t.Score,
				})
		}
	}
	if events == nil && newScore > oldScore {
		events = append(events, domain.RewardEvent{Type: domain.EventCompletenessIncreased})
	}
	return events
}

type CompletenessUseCase struct {
	users  UserStore
	wallet WalletStore
	log    *slog.Logger
}

func NewCompletenessUseCase(users UserStore, wallet WalletStore, log *slog.Logger) *CompletenessUseCase {
	return &CompletenessUseCase{users: users, wallet: wallet, log: log}
}

func (uc *CompletenessUseCase) Get(ctx context.Context, userID uuid.UUID) (CompletenessResult, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return CompletenessResult{}, err
	}
	return ScoreProfile(user), nil
}

// ApplyProfileUpdate mutates the profile and settles rewards: score before,
// mutate, score after, then one event per crossed threshold with the coin
// grant applied through the ledger. Each threshold pays out at most once per
// user, ever: the ledger row keyed by CompletenessRewardReason is the record,
// so clearing fields and re-filling them re-crosses the threshold for free.
// The scoring itself stays side-effect free.
func (uc *CompletenessUseCase) ApplyProfileUpdate(ctx context.Context, userID uuid.UUID, updates map[string]interface{}) (CompletenessResult, []domain.RewardEvent, error) {
	before, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return CompletenessResult{}, nil, err
	}
	oldScore := ScoreProfile(before).Score

	if err := uc.users.UpdateProfile(ctx, userID, updates); err != nil {
		return CompletenessResult{}, nil, fmt.Errorf("update profile: %w", err)
	}

	after, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return CompletenessResult{}, nil, err
	}
	result := ScoreProfile(after)

	var settled []domain.RewardEvent
	for _, ev := range rewardEvents(oldScore, result.Score) {
		if ev.Type == domain.EventCoinGranted {
			reason := domain.CompletenessRewardReason(ev.Threshold)
			granted, err := uc.wallet.HasTransaction(ctx, userID, reason)
			if err != nil {
				return CompletenessResult{}, nil, err
			}
			if granted {
				continue
			}
			if _, err := uc.wallet.Credit(ctx, userID, ev.Coins, reason); err != nil {
				return CompletenessResult{}, nil, fmt.Errorf("grant reward: %w", err)
			}
			uc.log.Info("completeness reward granted",
				"user_id", userID.String(), "coins", ev.Coins, "threshold", ev.Threshold)
		}
		settled = append(settled, ev)
	}
	return result, settled, nil
}
