package engine

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultPlayMinutes     = 60
	DefaultCooldownMinutes = 30
)

// Timer configures the daily play allowance and the pause enforced between sessions.
type Timer struct {
	PlayMinutes     int
	CooldownMinutes int
}

// PlayState is the timer view of today's record.
type PlayState struct {
	Open          bool
	Used          time.Duration
	Allowed       time.Duration
	Remaining     time.Duration
	Cooldown      time.Duration
	CooldownUntil time.Time
	CanStart      bool
	// Reason is set when CanStart is false.
	Reason string
}

const (
	ReasonNoDay      = "day not initialized"
	ReasonOpen       = "a play session is already running"
	ReasonExhausted  = "no play time left today"
	ReasonCoolingOff = "cooling down"
)

// StartPlaySession opens a session on today's record. It is a no-op while any
// session is still open or when today has no record.
func (e *Engine) StartPlaySession(p Profile) Profile {
	today := e.today()
	if _, ok := p.History[today]; !ok {
		return p
	}
	if _, _, ok := openSession(p); ok {
		return p
	}
	out := p.Clone()
	day := out.History[today]
	day.PlayTime.Sessions = append(day.PlayTime.Sessions, PlaySession{
		ID:    uuid.NewString(),
		Start: e.timestamp(),
	})
	out.History[today] = day
	return out
}

// EndPlaySession closes the open session, wherever it is. No-op if none is open.
func (e *Engine) EndPlaySession(p Profile) Profile {
	date, idx, ok := openSession(p)
	if !ok {
		return p
	}
	out := p.Clone()
	day := out.History[date]
	end := e.timestamp()
	day.PlayTime.Sessions[idx].End = &end
	out.History[date] = day
	return out
}

func openSession(p Profile) (string, int, bool) {
	for date, day := range p.History {
		for i, s := range day.PlayTime.Sessions {
			if s.Open() {
				return date, i, true
			}
		}
	}
	return "", -1, false
}

// AllowedPlay is the base allowance plus every EXTEND_PLAY_TIME minute redeemed.
func (e *Engine) AllowedPlay(p Profile) time.Duration {
	minutes := float64(e.rules.Timer.PlayMinutes) + GetPermanentBonus(p, RewardExtendPlayTime)
	return time.Duration(minutes * float64(time.Minute))
}

// CooldownLength is the base cooldown minus every REDUCE_COOLDOWN minute redeemed, floored at zero.
func (e *Engine) CooldownLength(p Profile) time.Duration {
	minutes := float64(e.rules.Timer.CooldownMinutes) - GetPermanentBonus(p, RewardReduceCooldown)
	if minutes < 0 {
		minutes = 0
	}
	return time.Duration(minutes * float64(time.Minute))
}

// PlayStatus reports how much play time is left today and whether a session may start now.
func (e *Engine) PlayStatus(p Profile) PlayState {
	now := e.now()
	st := PlayState{
		Allowed:  e.AllowedPlay(p),
		Cooldown: e.CooldownLength(p),
	}
	_, _, st.Open = openSession(p)

	day, ok := p.History[e.today()]
	if ok {
		st.Used = PlayDuration(day, now)
		var lastEnd time.Time
		for _, s := range day.PlayTime.Sessions {
			if s.End == nil {
				continue
			}
			if end, err := s.End.Time(); err == nil && end.After(lastEnd) {
				lastEnd = end
			}
		}
		if !lastEnd.IsZero() && st.Cooldown > 0 {
			st.CooldownUntil = lastEnd.Add(st.Cooldown)
		}
	}
	if st.Remaining = st.Allowed - st.Used; st.Remaining < 0 {
		st.Remaining = 0
	}

	switch {
	case !ok:
		st.Reason = ReasonNoDay
	case st.Open:
		st.Reason = ReasonOpen
	case st.Remaining <= 0:
		st.Reason = ReasonExhausted
	case now.Before(st.CooldownUntil):
		st.Reason = ReasonCoolingOff
	default:
		st.CanStart = true
	}
	return st
}
