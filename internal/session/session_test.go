package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/trustieee/timey-sub000/internal/engine"
	"github.com/trustieee/timey-sub000/internal/storage"
)

type memStore struct {
	mu      sync.Mutex
	docs    map[string]storage.Document
	saves   int
	loadErr error
}

func newMemStore() *memStore {
	return &memStore{docs: map[string]storage.Document{}}
}

func (m *memStore) Load(_ context.Context, userID string) (*storage.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	doc, ok := m.docs[userID]
	if !ok {
		return nil, nil
	}
	doc.Profile = doc.Profile.Clone()
	return &doc, nil
}

func (m *memStore) Save(_ context.Context, userID string, doc storage.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc.Profile = doc.Profile.Clone()
	m.docs[userID] = doc
	m.saves++
	return nil
}

func (m *memStore) ListUsers(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for id := range m.docs {
		out = append(out, id)
	}
	return out, nil
}

func (m *memStore) Close() error { return nil }

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestSession(t *testing.T) (*Session, *memStore, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2024, 5, 6, 9, 0, 0, 0, time.Local)}
	rules := engine.DefaultRules()
	rules.Catalog = []engine.ChoreDefinition{
		{ID: 1, Text: "Dishes"},
		{ID: 2, Text: "Trash"},
	}
	store := newMemStore()
	s := New(store, engine.New(rules, engine.WithClock(c.now)), "kid")
	return s, store, c
}

func TestLoadCreatesTodayAndSaves(t *testing.T) {
	s, store, _ := newTestSession(t)
	p, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	day, ok := p.History["2024-05-06"]
	if !ok || len(day.Chores) != 2 {
		t.Fatalf("today=%+v, ok=%v", day, ok)
	}
	if store.saves != 1 {
		t.Fatalf("saves=%d, want 1", store.saves)
	}
	if _, err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load again: %v", err)
	}
	if store.saves != 1 {
		t.Fatalf("second load saved again: saves=%d", store.saves)
	}
}

func TestLoadFailureKeepsStoredDocument(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newTestSession(t)

	stored := engine.NewProfile(nil)
	stored.History["2024-05-03"] = engine.DayProgress{
		Date:      "2024-05-03",
		XP:        engine.DayXP{Gained: 900, Final: 900},
		Completed: true,
	}
	stored.Rewards.Available = 3
	store.docs["kid"] = storage.Document{Profile: stored}
	store.loadErr = errors.New("offline")

	p, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(p.History) != 1 || p.Rewards.Available != 0 {
		t.Fatalf("fallback profile=%+v", p)
	}
	if _, err := s.GrantRewards(ctx, 1); !errors.Is(err, ErrProfileUnavailable) {
		t.Fatalf("GrantRewards err=%v, want ErrProfileUnavailable", err)
	}
	if _, err := s.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if store.saves != 0 {
		t.Fatalf("saves=%d, want 0 while the store is unreadable", store.saves)
	}

	store.loadErr = nil
	p, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("Load after recovery: %v", err)
	}
	if day, ok := p.History["2024-05-03"]; !ok || day.XP.Final != 900 {
		t.Fatalf("stored day lost: %+v", p.History)
	}
	if p.Rewards.Available != 3 {
		t.Fatalf("tokens=%d, want 3", p.Rewards.Available)
	}
}

func TestViewDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newTestSession(t)

	if _, err := s.View(ctx); !errors.Is(err, ErrNoProfile) {
		t.Fatalf("View err=%v, want ErrNoProfile", err)
	}
	if _, err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	saves := store.saves

	p, err := s.View(ctx)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if _, ok := p.History["2024-05-06"]; !ok {
		t.Fatalf("today missing from view: %+v", p.History)
	}
	if store.saves != saves {
		t.Fatalf("View saved: saves=%d, want %d", store.saves, saves)
	}
}

func TestSetChoreStatusPersists(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newTestSession(t)

	change, err := s.SetChoreStatus(ctx, 1, engine.StatusCompleted)
	if err != nil {
		t.Fatalf("SetChoreStatus: %v", err)
	}
	if change.XPDelta != 10 {
		t.Fatalf("XPDelta=%d, want 10", change.XPDelta)
	}
	doc := store.docs["kid"]
	if doc.Profile.History["2024-05-06"].XP.Gained != 10 {
		t.Fatalf("stored xp=%+v", doc.Profile.History["2024-05-06"].XP)
	}
	if doc.Stats.TotalXP != 10 {
		t.Fatalf("stored stats=%+v", doc.Stats)
	}

	if _, err := s.SetChoreStatus(ctx, 99, engine.StatusCompleted); !errors.Is(err, ErrUnknownChore) {
		t.Fatalf("err=%v, want ErrUnknownChore", err)
	}
	if _, err := s.SetChoreStatus(ctx, 1, engine.ChoreStatus("maybe")); err == nil {
		t.Fatalf("expected invalid status error")
	}
}

func TestMutationSeesOtherWriters(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newTestSession(t)
	if _, err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Another client grants a token directly in the store.
	doc := store.docs["kid"]
	doc.Profile.Rewards.Available = 3
	store.docs["kid"] = doc

	p, err := s.UseReward(ctx, engine.RewardExtendPlayTime, 10)
	if err != nil {
		t.Fatalf("UseReward: %v", err)
	}
	if p.Rewards.Available != 2 {
		t.Fatalf("available=%d, want 2", p.Rewards.Available)
	}
}

func TestUseRewardWithoutTokens(t *testing.T) {
	s, _, _ := newTestSession(t)
	if _, err := s.UseReward(context.Background(), engine.RewardReduceCooldown, 5); !errors.Is(err, ErrNoRewardTokens) {
		t.Fatalf("err=%v, want ErrNoRewardTokens", err)
	}
}

func TestStartPlayGates(t *testing.T) {
	ctx := context.Background()
	s, _, c := newTestSession(t)

	if _, err := s.StartPlay(ctx); err != nil {
		t.Fatalf("StartPlay: %v", err)
	}
	var gate GateError
	if _, err := s.StartPlay(ctx); !errors.As(err, &gate) || gate.Reason != engine.ReasonOpen {
		t.Fatalf("err=%v, want open gate", err)
	}

	c.advance(20 * time.Minute)
	st, err := s.StopPlay(ctx)
	if err != nil {
		t.Fatalf("StopPlay: %v", err)
	}
	if st.Used != 20*time.Minute {
		t.Fatalf("used=%v, want 20m", st.Used)
	}

	c.advance(5 * time.Minute)
	_, err = s.StartPlay(ctx)
	if !errors.As(err, &gate) || gate.Reason != engine.ReasonCoolingOff || gate.Until.IsZero() {
		t.Fatalf("err=%v, want cooldown gate", err)
	}

	c.advance(30 * time.Minute)
	if _, err := s.StartPlay(ctx); err != nil {
		t.Fatalf("StartPlay after cooldown: %v", err)
	}

	if _, err := s.StopPlay(ctx); err != nil {
		t.Fatalf("StopPlay: %v", err)
	}
	if _, err := s.StopPlay(ctx); !errors.Is(err, ErrNoOpenSession) {
		t.Fatalf("err=%v, want ErrNoOpenSession", err)
	}
}

func TestRefreshClosesExhaustedSession(t *testing.T) {
	ctx := context.Background()
	s, _, c := newTestSession(t)
	if _, err := s.StartPlay(ctx); err != nil {
		t.Fatalf("StartPlay: %v", err)
	}
	c.advance(61 * time.Minute)
	if _, err := s.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if s.PlayStatus().Open {
		t.Fatalf("session should be closed once the allowance is used")
	}
}

func TestRefreshRollsOverDay(t *testing.T) {
	ctx := context.Background()
	s, store, c := newTestSession(t)
	if _, err := s.SetChoreStatus(ctx, 1, engine.StatusCompleted); err != nil {
		t.Fatalf("SetChoreStatus: %v", err)
	}
	if _, err := s.StartPlay(ctx); err != nil {
		t.Fatalf("StartPlay: %v", err)
	}

	c.advance(24 * time.Hour)
	if _, err := s.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	prev := store.docs["kid"].Profile.History["2024-05-06"]
	if !prev.Completed || prev.XP.Penalties != 10 || prev.XP.Final != 0 {
		t.Fatalf("previous day=%+v", prev)
	}
	if _, ok := store.docs["kid"].Profile.History["2024-05-07"]; !ok {
		t.Fatalf("new day missing")
	}
	if s.PlayStatus().Open {
		t.Fatalf("session from yesterday should be closed")
	}
}

func TestResetTodayAndFinalize(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestSession(t)
	if _, err := s.SetChoreStatus(ctx, 2, engine.StatusCompleted); err != nil {
		t.Fatalf("SetChoreStatus: %v", err)
	}
	p, err := s.ResetToday(ctx)
	if err != nil {
		t.Fatalf("ResetToday: %v", err)
	}
	if p.History["2024-05-06"].XP.Gained != 0 {
		t.Fatalf("reset kept xp: %+v", p.History["2024-05-06"].XP)
	}

	p, err = s.Finalize(ctx, "2024-05-06")
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if !p.History["2024-05-06"].Completed {
		t.Fatalf("today not finalized")
	}
	if _, err := s.ResetToday(ctx); !errors.Is(err, ErrDayFinalized) {
		t.Fatalf("err=%v, want ErrDayFinalized", err)
	}
	if _, err := s.SetChoreStatus(ctx, 1, engine.StatusCompleted); !errors.Is(err, ErrDayFinalized) {
		t.Fatalf("err=%v, want ErrDayFinalized", err)
	}
}

func TestGateErrorMessage(t *testing.T) {
	err := GateError{Reason: engine.ReasonExhausted}
	if err.Error() != "play is locked: no play time left today" {
		t.Fatalf("Error()=%q", err.Error())
	}
}

func TestRegistryReusesSessions(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	reg := NewRegistry(store, engine.New(engine.DefaultRules()))

	if reg.Get("ada") != reg.Get("ada") {
		t.Fatalf("Get should return the same session for a user")
	}
	if _, err := reg.Get("zoe").Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	users, err := reg.Users(ctx)
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if len(users) != 1 || users[0] != "zoe" {
		t.Fatalf("users=%v, want only stored users", users)
	}

	if _, _, err := reg.View(ctx, "tpyo"); !errors.Is(err, ErrNoProfile) {
		t.Fatalf("View unknown err=%v, want ErrNoProfile", err)
	}
	sess, _, err := reg.View(ctx, "zoe")
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if sess != reg.Get("zoe") {
		t.Fatalf("View should reuse the registered session")
	}
	if users, _ := reg.Users(ctx); len(users) != 1 {
		t.Fatalf("users=%v after views, want [zoe]", users)
	}
}
