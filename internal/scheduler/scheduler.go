// Package scheduler keeps loaded profiles current while the server runs.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/trustieee/timey-sub000/internal/session"
	"github.com/trustieee/timey-sub000/internal/storage"
)

// Exporter receives a copy of every document after the nightly rollover.
type Exporter interface {
	Export(ctx context.Context, userID string, doc storage.Document) (string, error)
}

type Scheduler struct {
	sched    gocron.Scheduler
	registry *session.Registry
	exporter Exporter
}

// New registers a refresh job every interval and a rollover job shortly
// after midnight. A zero interval disables the refresh job. exporter may be nil.
func New(reg *session.Registry, exporter Exporter, interval time.Duration) (*Scheduler, error) {
	sched, err := gocron.NewScheduler(gocron.WithLocation(time.Local))
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	s := &Scheduler{sched: sched, registry: reg, exporter: exporter}

	if interval != 0 {
		_, err = sched.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(func() { s.RefreshAll(context.Background()) }),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return nil, s.abort(fmt.Errorf("scheduler refresh job: %w", err))
		}
	}

	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 0, 5))),
		gocron.NewTask(func() { s.Rollover(context.Background()) }),
	)
	if err != nil {
		return nil, s.abort(fmt.Errorf("scheduler rollover job: %w", err))
	}
	return s, nil
}

// abort stops a scheduler that failed to finish setting up and returns err.
func (s *Scheduler) abort(err error) error {
	if serr := s.sched.Shutdown(); serr != nil {
		log.Printf("[Scheduler] shutdown after failed setup: %v", serr)
	}
	return err
}

func (s *Scheduler) Start() { s.sched.Start() }

func (s *Scheduler) Shutdown() error { return s.sched.Shutdown() }

// RefreshAll refreshes every known user and returns how many succeeded.
func (s *Scheduler) RefreshAll(ctx context.Context) int {
	users, err := s.registry.Users(ctx)
	if err != nil {
		log.Printf("[Scheduler] list users: %v", err)
		return 0
	}
	ok := 0
	for _, id := range users {
		if _, err := s.registry.Get(id).Refresh(ctx); err != nil {
			log.Printf("[Scheduler] refresh %s: %v", id, err)
			continue
		}
		ok++
	}
	return ok
}

// Rollover refreshes everyone so yesterday gets finalized, then exports.
func (s *Scheduler) Rollover(ctx context.Context) {
	n := s.RefreshAll(ctx)
	log.Printf("🌅 day rollover: %d profile(s) refreshed", n)
	if s.exporter == nil {
		return
	}
	users, err := s.registry.Users(ctx)
	if err != nil {
		log.Printf("[Scheduler] list users: %v", err)
		return
	}
	for _, id := range users {
		key, err := s.exporter.Export(ctx, id, s.registry.Get(id).Document())
		if err != nil {
			log.Printf("[Scheduler] backup %s: %v", id, err)
			continue
		}
		log.Printf("✅ backed up %s to %s", id, key)
	}
}
