// Package session owns the loaded profile for one user. Every mutation
// reloads the stored document, makes sure today exists, applies an engine
// operation, and writes the result back.
package session

import (
	"context"
	"fmt"
	"log"
	"reflect"
	"sync"

	"github.com/trustieee/timey-sub000/internal/engine"
	"github.com/trustieee/timey-sub000/internal/storage"
)

type Session struct {
	store  storage.Store
	engine *engine.Engine
	userID string

	mu      sync.Mutex
	current engine.Profile
	// loaded is set once the store has answered for this user. Until then
	// current is a stand-in and must not be written over the stored document.
	loaded bool
}

func New(store storage.Store, eng *engine.Engine, userID string) *Session {
	return &Session{
		store:   store,
		engine:  eng,
		userID:  userID,
		current: engine.NewProfile(eng.Rules().Catalog),
	}
}

func (s *Session) UserID() string { return s.userID }

func (s *Session) Engine() *engine.Engine { return s.engine }

// fetch returns the stored profile. A missing document yields a fresh one.
// A failing store yields the last profile held in memory, along with the error,
// so the host keeps working.
func (s *Session) fetch(ctx context.Context) (engine.Profile, error) {
	doc, err := s.store.Load(ctx, s.userID)
	if err != nil {
		log.Printf("⚠️  load profile %s: %v (using in-memory copy)", s.userID, err)
		return s.current, err
	}
	s.loaded = true
	if doc == nil {
		return engine.NewProfile(s.engine.Rules().Catalog), nil
	}
	return profileOf(doc), nil
}

func profileOf(doc *storage.Document) engine.Profile {
	if doc.Profile.History == nil {
		doc.Profile.History = map[string]engine.DayProgress{}
	}
	return doc.Profile
}

func (s *Session) save(ctx context.Context, p engine.Profile) error {
	doc := storage.Document{
		Profile:     p,
		Stats:       s.engine.CalculatePlayerStats(p),
		LastUpdated: s.engine.Now(),
	}
	if err := s.store.Save(ctx, s.userID, doc); err != nil {
		return fmt.Errorf("save profile %s: %w", s.userID, err)
	}
	return nil
}

// mutate runs fn on a freshly loaded profile whose today record is
// guaranteed to exist. Nothing is written when the profile did not change
// or fn fails. While the store has never been read for this user, the
// fallback profile stays in memory and changes made by fn are refused with
// ErrProfileUnavailable.
func (s *Session) mutate(ctx context.Context, fn func(engine.Profile) (engine.Profile, error)) (engine.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded, loadErr := s.fetch(ctx)
	p := s.engine.InitializeDay(loaded)
	next, err := fn(p)
	if err != nil {
		// Keep the initialized day in memory; it is saved with the next change.
		s.current = p
		return p, err
	}
	if loadErr != nil && !s.loaded {
		s.current = p
		if !reflect.DeepEqual(p, next) {
			return p, fmt.Errorf("%w: %w", ErrProfileUnavailable, loadErr)
		}
		return p, nil
	}
	s.current = next
	if reflect.DeepEqual(loaded, next) {
		return next, nil
	}
	return next, s.save(ctx, next)
}

// Mutate applies fn under the session lock and saves the result if it changed.
func (s *Session) Mutate(ctx context.Context, fn func(engine.Profile) engine.Profile) (engine.Profile, error) {
	return s.mutate(ctx, func(p engine.Profile) (engine.Profile, error) {
		return fn(p), nil
	})
}

// Load reads the stored profile and initializes today.
func (s *Session) Load(ctx context.Context) (engine.Profile, error) {
	return s.Mutate(ctx, func(p engine.Profile) engine.Profile { return p })
}

// View reads the stored profile and initializes today in memory only.
// It returns ErrNoProfile when the store holds nothing for the user.
func (s *Session) View(ctx context.Context) (engine.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx, s.userID)
	if err != nil {
		return engine.Profile{}, fmt.Errorf("load profile %s: %w", s.userID, err)
	}
	s.loaded = true
	if doc == nil {
		return engine.Profile{}, ErrNoProfile
	}
	p := s.engine.InitializeDay(profileOf(doc))
	s.current = p
	return p, nil
}

// Current returns the profile as of the last load or mutation.
func (s *Session) Current() engine.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) Stats() engine.PlayerStats {
	return s.engine.CalculatePlayerStats(s.Current())
}

func (s *Session) PlayStatus() engine.PlayState {
	return s.engine.PlayStatus(s.Current())
}

// Today returns today's record from the current profile.
func (s *Session) Today() (engine.DayProgress, bool) {
	return s.Day(s.engine.Today())
}

func (s *Session) Day(date string) (engine.DayProgress, bool) {
	day, ok := s.Current().History[date]
	return day, ok
}

func (s *Session) SetChoreStatus(ctx context.Context, choreID int, status engine.ChoreStatus) (engine.StatusChange, error) {
	var change engine.StatusChange
	_, err := s.mutate(ctx, func(p engine.Profile) (engine.Profile, error) {
		if !status.IsValid() {
			return p, fmt.Errorf("invalid chore status %q", status)
		}
		day := p.History[s.engine.Today()]
		if day.Completed {
			return p, ErrDayFinalized
		}
		var next engine.Profile
		next, change = s.engine.UpdateChoreStatus(p, choreID, status)
		if !change.Changed {
			return p, fmt.Errorf("chore %d: %w", choreID, ErrUnknownChore)
		}
		return next, nil
	})
	if err != nil {
		return change, err
	}
	if change.LevelUp {
		log.Printf("🎉 %s reached level %d (+%d reward tokens)", s.userID, change.After.Level, change.TokensGranted)
	}
	return change, nil
}

func (s *Session) UseReward(ctx context.Context, kind engine.RewardKind, value float64) (engine.Profile, error) {
	return s.mutate(ctx, func(p engine.Profile) (engine.Profile, error) {
		if p.Rewards.Available <= 0 {
			return p, ErrNoRewardTokens
		}
		if !kind.IsValid() {
			return p, fmt.Errorf("unknown reward type %q", kind)
		}
		return s.engine.UseReward(p, kind, value), nil
	})
}

func (s *Session) GrantRewards(ctx context.Context, n int) (engine.Profile, error) {
	return s.Mutate(ctx, func(p engine.Profile) engine.Profile {
		return s.engine.GrantRewards(p, n)
	})
}

// StartPlay opens a play session or returns a GateError saying why it cannot.
func (s *Session) StartPlay(ctx context.Context) (engine.PlayState, error) {
	var st engine.PlayState
	_, err := s.mutate(ctx, func(p engine.Profile) (engine.Profile, error) {
		st = s.engine.PlayStatus(p)
		if !st.CanStart {
			return p, GateError{Reason: st.Reason, Until: st.CooldownUntil}
		}
		next := s.engine.StartPlaySession(p)
		st = s.engine.PlayStatus(next)
		return next, nil
	})
	return st, err
}

func (s *Session) StopPlay(ctx context.Context) (engine.PlayState, error) {
	var st engine.PlayState
	_, err := s.mutate(ctx, func(p engine.Profile) (engine.Profile, error) {
		if !s.engine.PlayStatus(p).Open {
			return p, ErrNoOpenSession
		}
		next := s.engine.EndPlaySession(p)
		st = s.engine.PlayStatus(next)
		return next, nil
	})
	return st, err
}

// Refresh rolls the profile forward: today exists, earlier days are
// finalized, and a running session is closed once it left today or used up
// the allowance.
func (s *Session) Refresh(ctx context.Context) (engine.Profile, error) {
	return s.Mutate(ctx, func(p engine.Profile) engine.Profile {
		p = s.engine.CheckAndFinalizePreviousDays(p)
		st := s.engine.PlayStatus(p)
		if !st.Open {
			return p
		}
		today := s.engine.Today()
		stale := true
		for _, sess := range p.History[today].PlayTime.Sessions {
			if sess.Open() {
				stale = false
			}
		}
		if stale || st.Remaining <= 0 {
			log.Printf("⏱️  closing play session for %s", s.userID)
			p = s.engine.EndPlaySession(p)
		}
		return p
	})
}

// Finalize closes one day, or every day before today when date is empty.
func (s *Session) Finalize(ctx context.Context, date string) (engine.Profile, error) {
	return s.Mutate(ctx, func(p engine.Profile) engine.Profile {
		if date == "" {
			return s.engine.CheckAndFinalizePreviousDays(p)
		}
		return s.engine.FinalizeDayProgress(p, date)
	})
}

func (s *Session) SetChores(ctx context.Context, defs []engine.ChoreDefinition) (engine.Profile, error) {
	return s.Mutate(ctx, func(p engine.Profile) engine.Profile {
		return s.engine.SetChores(p, defs)
	})
}

// ResetToday rebuilds today's list from the current schedule.
func (s *Session) ResetToday(ctx context.Context) (engine.Profile, error) {
	return s.mutate(ctx, func(p engine.Profile) (engine.Profile, error) {
		today := s.engine.Today()
		if p.History[today].Completed {
			return p, ErrDayFinalized
		}
		return s.engine.ResetDay(p, today), nil
	})
}

// Document returns what would be written for the current profile.
func (s *Session) Document() storage.Document {
	p := s.Current()
	return storage.Document{
		Profile:     p,
		Stats:       s.engine.CalculatePlayerStats(p),
		LastUpdated: s.engine.Now(),
	}
}
