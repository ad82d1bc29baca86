package usecase

import "github.com/waste3d/tianji-twin-api/internal/domain"

// Capability describes the gate for one dotted feature path. FreeDailyLimit
// applies to the free tier only; 0 means unmetered.
type Capability struct {
	MinTier        domain.Tier
	FreeDailyLimit int
}

// capabilities is the static entitlement table. Feature paths mirror the
// client-side capability keys.
var capabilities = map[string]Capability{
	"ziwei.basicChart":    {MinTier: domain.TierFree},
	"ziwei.advancedChart": {MinTier: domain.TierBasic},
	"bazi.available":      {MinTier: domain.TierFree},
	"yijing.available":    {MinTier: domain.TierFree, FreeDailyLimit: 3},
	"fortune.dailyBrief":  {MinTier: domain.TierFree, FreeDailyLimit: 1},
	"chat.master":         {MinTier: domain.TierPremium},
}

func LookupCapability(featurePath string) (Capability, bool) {
	cap, ok := capabilities[featurePath]
	return cap, ok
}
