package session

import (
	"context"
	"sort"
	"sync"

	"github.com/trustieee/timey-sub000/internal/engine"
	"github.com/trustieee/timey-sub000/internal/storage"
)

// Registry hands out one Session per user, created on first use, all
// sharing the same store and engine.
type Registry struct {
	store  storage.Store
	engine *engine.Engine

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(store storage.Store, eng *engine.Engine) *Registry {
	return &Registry{
		store:    store,
		engine:   eng,
		sessions: map[string]*Session{},
	}
}

func (r *Registry) Engine() *engine.Engine { return r.engine }

func (r *Registry) Get(userID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	if !ok {
		s = New(r.store, r.engine, userID)
		r.sessions[userID] = s
	}
	return s
}

// View returns the user's session and stored profile without writing
// anything. Unknown users get ErrNoProfile and are not remembered.
func (r *Registry) View(ctx context.Context, userID string) (*Session, engine.Profile, error) {
	r.mu.Lock()
	s, ok := r.sessions[userID]
	r.mu.Unlock()
	if !ok {
		s = New(r.store, r.engine, userID)
	}
	p, err := s.View(ctx)
	if err != nil {
		return nil, engine.Profile{}, err
	}
	if !ok {
		r.mu.Lock()
		if existing, found := r.sessions[userID]; found {
			s = existing
		} else {
			r.sessions[userID] = s
		}
		r.mu.Unlock()
	}
	return s, p, nil
}

// Users lists the users with a stored document, sorted.
func (r *Registry) Users(ctx context.Context) ([]string, error) {
	users, err := r.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := append([]string(nil), users...)
	sort.Strings(out)
	return out, nil
}
