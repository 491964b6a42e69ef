package engine

import "math"

// UseReward spends one token on a permanent bonus of the given kind.
// It is a no-op with no tokens, an unknown kind, or no record for today.
// Negative and non-finite magnitudes count as zero.
func (e *Engine) UseReward(p Profile, kind RewardKind, magnitude float64) Profile {
	if p.Rewards.Available <= 0 || !kind.IsValid() {
		return p
	}
	today := e.today()
	if _, ok := p.History[today]; !ok {
		return p
	}
	if magnitude < 0 || math.IsNaN(magnitude) || math.IsInf(magnitude, 0) {
		magnitude = 0
	}

	out := p.Clone()
	out.Rewards.Available--
	if out.Rewards.Permanent == nil {
		out.Rewards.Permanent = map[RewardKind]float64{}
	}
	out.Rewards.Permanent[kind] += magnitude

	day := out.History[today]
	day.RewardsUsed = append(day.RewardsUsed, RewardUsage{
		Type:   kind,
		UsedAt: e.timestamp(),
		Value:  magnitude,
	})
	out.History[today] = day
	return out
}

// GrantRewards adds n tokens to the wallet.
func (e *Engine) GrantRewards(p Profile, n int) Profile {
	if n <= 0 {
		return p
	}
	out := p.Clone()
	out.Rewards.Available += n
	return out
}

// GetPermanentBonus returns the accumulated bonus for kind, or 0 when the
// wallet or the entry is missing.
func GetPermanentBonus(p Profile, kind RewardKind) float64 {
	if p.Rewards.Permanent == nil {
		return 0
	}
	return p.Rewards.Permanent[kind]
}

// DefaultRewardValue is the bonus one token buys when the caller names no value.
func DefaultRewardValue(kind RewardKind) float64 {
	switch kind {
	case RewardExtendPlayTime:
		return 15
	case RewardReduceCooldown:
		return 5
	default:
		return 0
	}
}
