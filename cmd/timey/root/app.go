package root

import (
	"context"
	"fmt"

	"github.com/trustieee/timey-sub000/internal/config"
	"github.com/trustieee/timey-sub000/internal/engine"
	"github.com/trustieee/timey-sub000/internal/session"
	"github.com/trustieee/timey-sub000/internal/storage"
)

type app struct {
	cfg    *config.Config
	store  storage.Store
	engine *engine.Engine
}

func openApp(ctx context.Context) (*app, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if userFlag != "" {
		cfg.UserID = userFlag
	}
	store, err := storage.Open(ctx, cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	cleanup := func() {
		_ = store.Close()
	}
	return &app{
		cfg:    cfg,
		store:  store,
		engine: engine.New(cfg.EngineRules()),
	}, cleanup, nil
}

// openSession opens the app and loads the configured user's profile.
func openSession(ctx context.Context) (*app, *session.Session, func(), error) {
	a, cleanup, err := openApp(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	sess := session.New(a.store, a.engine, a.cfg.UserID)
	if _, err := sess.Load(ctx); err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return a, sess, cleanup, nil
}
