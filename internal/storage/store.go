// Package storage persists profile documents. The engine never touches it;
// the session host loads a document, runs engine operations, and saves it back.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/trustieee/timey-sub000/internal/config"
	"github.com/trustieee/timey-sub000/internal/engine"
)

var ErrUnknownDriver = errors.New("unknown store driver")

// Document is what gets stored per user. Stats and LastUpdated are
// denormalized hints for other readers and are never read back for a decision.
type Document struct {
	Profile     engine.Profile
	Stats       engine.PlayerStats
	LastUpdated time.Time
}

// Store loads and saves documents by user id. Load returns nil, nil when the
// user has no document. Save overwrites each top-level field; the last write wins.
type Store interface {
	Load(ctx context.Context, userID string) (*Document, error)
	Save(ctx context.Context, userID string, doc Document) error
	ListUsers(ctx context.Context) ([]string, error)
	Close() error
}

// Open connects the backend named by cfg.Driver.
func Open(ctx context.Context, cfg config.Store) (Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		path, err := ResolveDBPath(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		s, err := OpenSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverRedis:
		s, err := OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverPostgres:
		s, err := OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
