package engine

const (
	DefaultXPForChore        = 10
	DefaultXPPenaltyForChore = 10
	DefaultLevelXP           = 1200
)

// DefaultLevelThresholds are the XP costs of levels 1..4; later levels cost DefaultLevelXP.
var DefaultLevelThresholds = []int{840, 960, 1080, 1200}

// Rules are the static inputs of the engine.
type Rules struct {
	XPForChore        int
	XPPenaltyForChore int
	// LevelThresholds[i] is the XP needed to advance from level i+1 to i+2.
	LevelThresholds []int
	DefaultLevelXP  int
	// Catalog schedules days for profiles that carry no chores of their own.
	Catalog []ChoreDefinition
	Timer   Timer
}

func DefaultRules() Rules {
	return Rules{
		XPForChore:        DefaultXPForChore,
		XPPenaltyForChore: DefaultXPPenaltyForChore,
		LevelThresholds:   append([]int(nil), DefaultLevelThresholds...),
		DefaultLevelXP:    DefaultLevelXP,
		Timer: Timer{
			PlayMinutes:     DefaultPlayMinutes,
			CooldownMinutes: DefaultCooldownMinutes,
		},
	}
}

// XPRequiredForLevel returns the XP it takes to advance past level.
// Non-positive values would make the level walk diverge, so they fall back to 1.
func (r Rules) XPRequiredForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	req := r.DefaultLevelXP
	if i := level - 1; i < len(r.LevelThresholds) {
		req = r.LevelThresholds[i]
	}
	if req < 1 {
		return 1
	}
	return req
}

// TotalXP sums each day's final XP, counting days at or below zero as zero.
// A penalized day cannot drain XP banked on other days.
func TotalXP(p Profile) int {
	total := 0
	for _, day := range p.History {
		if day.XP.Final > 0 {
			total += day.XP.Final
		}
	}
	return total
}

// StatsForXP walks the level table from level 1.
func (r Rules) StatsForXP(totalXP int) PlayerStats {
	if totalXP < 0 {
		totalXP = 0
	}
	level := 1
	remaining := totalXP
	for remaining >= r.XPRequiredForLevel(level) {
		remaining -= r.XPRequiredForLevel(level)
		level++
	}
	return PlayerStats{
		Level:         level,
		XPIntoLevel:   remaining,
		XPToNextLevel: r.XPRequiredForLevel(level),
		TotalXP:       totalXP,
	}
}

// CalculatePlayerStats derives level figures from the profile history.
func (e *Engine) CalculatePlayerStats(p Profile) PlayerStats {
	return e.rules.StatsForXP(TotalXP(p))
}

// AddXP adds amount to today's gained XP and grants one reward token per level gained.
func (e *Engine) AddXP(p Profile, amount int) Profile {
	if amount <= 0 {
		return p
	}
	today := e.today()
	if _, ok := p.History[today]; !ok {
		return p
	}
	before := e.CalculatePlayerStats(p)

	out := p.Clone()
	day := out.History[today]
	day.XP.Gained += amount
	day.XP.recompute()
	out.History[today] = day

	after := e.CalculatePlayerStats(out)
	if gained := after.Level - before.Level; gained > 0 {
		out.Rewards.Available += gained
	}
	return out
}

// RemoveXP subtracts amount from today's gained XP, never below zero.
// Tokens already granted are kept even if the level drops.
func (e *Engine) RemoveXP(p Profile, amount int) Profile {
	if amount <= 0 {
		return p
	}
	today := e.today()
	if _, ok := p.History[today]; !ok {
		return p
	}
	out := p.Clone()
	day := out.History[today]
	day.XP.Gained -= amount
	if day.XP.Gained < 0 {
		day.XP.Gained = 0
	}
	day.XP.recompute()
	out.History[today] = day
	return out
}
