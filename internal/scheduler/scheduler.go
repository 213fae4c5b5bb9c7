// Package scheduler drives the time-based lifecycle transitions: it
// periodically activates scheduled events whose start time has passed
// and attempts closure for active events past their end time.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/clubsuite/elections-api/internal/domain/election"
	"github.com/clubsuite/elections-api/internal/logger"
)

// LifecycleService is the slice of the election service the scheduler
// drives
type LifecycleService interface {
	ActivateDueEvents() (int, error)
	DueForClosure() ([]*election.VotingEvent, error)
	AttemptClosure(eventID uuid.UUID, force bool) (*election.ClosureResult, error)
}

// Scheduler runs the periodic lifecycle sweep
type Scheduler struct {
	service  LifecycleService
	interval time.Duration
	workers  int
	log      *log.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a scheduler. workers bounds how many closure attempts run
// concurrently per sweep.
func New(service LifecycleService, interval time.Duration, workers int) *Scheduler {
	if workers < 1 {
		workers = 1
	}
	return &Scheduler{
		service:  service,
		interval: interval,
		workers:  workers,
		log:      logger.Scheduler(),
	}
}

// Start launches the sweep loop in a goroutine. One sweep runs
// immediately so restarts never wait a full interval to catch up on
// overdue transitions.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	s.log.Info("Scheduler started", "interval", s.interval, "workers", s.workers)

	go func() {
		defer close(s.done)

		s.Sweep()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

// Stop halts the loop and waits for an in-flight sweep to finish
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.log.Info("Scheduler stopped")
}

// Sweep runs one activation pass and one closure pass. Exported so the
// admin API can trigger it on demand.
func (s *Scheduler) Sweep() {
	activated, err := s.service.ActivateDueEvents()
	if err != nil {
		s.log.Error("activation pass failed", "error", err)
	} else if activated > 0 {
		s.log.Info("activation pass complete", "activated", activated)
	}

	due, err := s.service.DueForClosure()
	if err != nil {
		s.log.Error("failed to list events due for closure", "error", err)
		return
	}
	if len(due) == 0 {
		return
	}

	s.log.Info("closure pass starting", "due", len(due))

	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup
	for _, event := range due {
		wg.Add(1)
		sem <- struct{}{}
		go func(event *election.VotingEvent) {
			defer wg.Done()
			defer func() { <-sem }()

			result, err := s.service.AttemptClosure(event.ID, false)
			if err != nil {
				s.log.Error("closure attempt failed", "event_id", event.ID, "error", err)
				return
			}
			if result.TieUnresolved {
				s.log.Warn("event awaiting manual tie resolution",
					"event_id", event.ID,
					"tied_positions", len(result.TiedPositions))
			}
		}(event)
	}
	wg.Wait()
}
