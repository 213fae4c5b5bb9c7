package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubsuite/elections-api/internal/domain/election"
)

type fakeLifecycle struct {
	mu sync.Mutex

	activations int
	due         []*election.VotingEvent
	attempts    []uuid.UUID
	inFlight    int
	maxInFlight int
}

func (f *fakeLifecycle) ActivateDueEvents() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activations++
	return 0, nil
}

func (f *fakeLifecycle) DueForClosure() ([]*election.VotingEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	due := f.due
	f.due = nil
	return due, nil
}

func (f *fakeLifecycle) AttemptClosure(eventID uuid.UUID, force bool) (*election.ClosureResult, error) {
	f.mu.Lock()
	f.attempts = append(f.attempts, eventID)
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	return &election.ClosureResult{EventID: eventID, Closed: true}, nil
}

func dueEvents(n int) []*election.VotingEvent {
	events := make([]*election.VotingEvent, n)
	for i := range events {
		events[i] = &election.VotingEvent{ID: uuid.New(), Status: election.StatusActive}
	}
	return events
}

func TestSweepAttemptsEveryDueEvent(t *testing.T) {
	events := dueEvents(5)
	fake := &fakeLifecycle{due: events}

	s := New(fake, time.Hour, 2)
	s.Sweep()

	require.Len(t, fake.attempts, 5)
	assert.Equal(t, 1, fake.activations)

	attempted := make(map[uuid.UUID]bool)
	for _, id := range fake.attempts {
		attempted[id] = true
	}
	for _, event := range events {
		assert.True(t, attempted[event.ID])
	}
}

func TestSweepBoundsConcurrency(t *testing.T) {
	fake := &fakeLifecycle{due: dueEvents(10)}

	s := New(fake, time.Hour, 3)
	s.Sweep()

	assert.LessOrEqual(t, fake.maxInFlight, 3)
}

func TestWorkerCountFloor(t *testing.T) {
	fake := &fakeLifecycle{due: dueEvents(2)}

	s := New(fake, time.Hour, 0)
	s.Sweep()

	assert.Len(t, fake.attempts, 2)
	assert.LessOrEqual(t, fake.maxInFlight, 1)
}

func TestStartRunsImmediateSweepAndStops(t *testing.T) {
	fake := &fakeLifecycle{due: dueEvents(1)}

	s := New(fake, time.Hour, 2)
	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool {
		fake.mu.Lock()
		defer fake.mu.Unlock()
		return len(fake.attempts) == 1
	}, time.Second, 10*time.Millisecond, "the startup sweep should not wait for the first tick")
}

func TestStopIsIdempotentWhenNeverStarted(t *testing.T) {
	s := New(&fakeLifecycle{}, time.Hour, 2)
	assert.NotPanics(t, func() { s.Stop() })
}
