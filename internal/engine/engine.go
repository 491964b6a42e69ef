package engine

import (
	"time"

	"github.com/trustieee/timey-sub000/internal/dates"
)

// Engine applies progression rules to profiles. It holds only its rules and a
// clock; every operation takes a profile and returns a new one.
type Engine struct {
	rules Rules
	now   func() time.Time
}

type Option func(*Engine)

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func New(rules Rules, opts ...Option) *Engine {
	e := &Engine{
		rules: rules,
		now:   time.Now,
	}
	e.rules.LevelThresholds = append([]int(nil), rules.LevelThresholds...)
	e.rules.Catalog = cloneDefinitions(rules.Catalog)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Rules() Rules { return e.rules }

func (e *Engine) Now() time.Time { return e.now() }

func (e *Engine) today() string { return dates.DayOf(e.now()) }

func (e *Engine) timestamp() dates.Timestamp { return dates.TimestampOf(e.now()) }

// Today returns the calendar day the engine currently treats as today.
func (e *Engine) Today() string { return e.today() }

// schedule is the profile's own chore list, or the catalog when the profile
// never had one. An empty non-nil list means no chores.
func (e *Engine) schedule(p Profile) []ChoreDefinition {
	if p.Chores != nil {
		return p.Chores
	}
	return e.rules.Catalog
}

// InitializeDay makes sure today's record exists. When it has to create it,
// every earlier unfinalized day is finalized first. Calling it again the same
// day returns p unchanged.
func (e *Engine) InitializeDay(p Profile) Profile {
	today := e.today()
	if _, ok := p.History[today]; ok {
		return p
	}
	out := p.Clone()
	if out.History == nil {
		out.History = map[string]DayProgress{}
	}
	e.finalizeStale(out, today)
	out.History[today] = CreateDay(today, e.schedule(out))
	return out
}

// FinalizeDayProgress closes a day: each incomplete chore costs the configured
// penalty and the day is frozen. Finalized or missing days are left alone.
//
// Statuses other than completed and na are normalized to incomplete here and penalized.
func (e *Engine) FinalizeDayProgress(p Profile, date string) Profile {
	day, ok := p.History[date]
	if !ok || day.Completed {
		return p
	}
	out := p.Clone()
	out.History[date] = e.finalizeDay(out.History[date])
	return out
}

// finalizeDay works on a day the caller already owns.
func (e *Engine) finalizeDay(day DayProgress) DayProgress {
	incomplete := 0
	for i := range day.Chores {
		switch day.Chores[i].Status {
		case StatusCompleted, StatusNA:
		default:
			day.Chores[i].Status = StatusIncomplete
			day.Chores[i].CompletedAt = nil
			incomplete++
		}
	}
	day.XP.Penalties = incomplete * e.rules.XPPenaltyForChore
	day.XP.recompute()
	day.Completed = true
	return day
}

// CheckAndFinalizePreviousDays finalizes every unfinalized day except today.
func (e *Engine) CheckAndFinalizePreviousDays(p Profile) Profile {
	today := e.today()
	stale := false
	for date, day := range p.History {
		if date != today && !day.Completed {
			stale = true
			break
		}
	}
	if !stale {
		return p
	}
	out := p.Clone()
	e.finalizeStale(out, today)
	return out
}

// finalizeStale finalizes, in place, every open day of an owned profile except today.
// Each day's penalty depends only on its own chores, so map order does not matter.
func (e *Engine) finalizeStale(p Profile, today string) {
	for date, day := range p.History {
		if date != today && !day.Completed {
			p.History[date] = e.finalizeDay(day)
		}
	}
}

// StatusChange describes the outcome of UpdateChoreStatus.
type StatusChange struct {
	ChoreID       int
	Changed       bool
	OldStatus     ChoreStatus
	NewStatus     ChoreStatus
	XPDelta       int
	Before        PlayerStats
	After         PlayerStats
	LevelUp       bool
	TokensGranted int
}

// UpdateChoreStatus sets the status of a chore in today's record and applies the
// XP side effect of moving into or out of completed. Unknown chores, invalid
// statuses, and a missing or finalized today are no-ops.
func (e *Engine) UpdateChoreStatus(p Profile, choreID int, status ChoreStatus) (Profile, StatusChange) {
	res := StatusChange{ChoreID: choreID, NewStatus: status}
	res.Before = e.CalculatePlayerStats(p)
	res.After = res.Before

	today := e.today()
	day, ok := p.History[today]
	if !ok || day.Completed || !status.IsValid() {
		return p, res
	}
	idx := day.choreIndex(choreID)
	if idx < 0 {
		return p, res
	}

	out := p.Clone()
	day = out.History[today]
	entry := &day.Chores[idx]
	res.OldStatus = entry.Status
	entry.Status = status
	if status == StatusCompleted {
		ts := e.timestamp()
		entry.CompletedAt = &ts
	} else {
		entry.CompletedAt = nil
	}
	out.History[today] = day
	res.Changed = true

	gainedBefore := day.XP.Gained
	tokensBefore := out.Rewards.Available
	wasDone := res.OldStatus == StatusCompleted
	isDone := status == StatusCompleted
	switch {
	case wasDone && !isDone:
		out = e.RemoveXP(out, e.rules.XPForChore)
	case !wasDone && isDone:
		out = e.AddXP(out, e.rules.XPForChore)
	}
	res.XPDelta = out.History[today].XP.Gained - gainedBefore
	res.TokensGranted = out.Rewards.Available - tokensBefore

	res.After = e.CalculatePlayerStats(out)
	res.LevelUp = res.After.Level > res.Before.Level
	return out, res
}

// SetChores replaces the base schedule. Existing days keep their entries.
func (e *Engine) SetChores(p Profile, defs []ChoreDefinition) Profile {
	out := p.Clone()
	out.Chores = cloneDefinitions(defs)
	if out.Chores == nil {
		out.Chores = []ChoreDefinition{}
	}
	return out
}

// ResetDay recreates an unfinalized day from the current schedule, dropping
// its statuses, sessions, XP and reward log. Reward tokens and permanent
// bonuses are kept.
func (e *Engine) ResetDay(p Profile, date string) Profile {
	day, ok := p.History[date]
	if !ok || day.Completed {
		return p
	}
	out := p.Clone()
	out.History[date] = CreateDay(date, e.schedule(out))
	return out
}
