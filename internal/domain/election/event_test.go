package election

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"scheduled to active", StatusScheduled, StatusActive, true},
		{"active to closed", StatusActive, StatusClosed, true},
		{"scheduled to closed skips activation", StatusScheduled, StatusClosed, false},
		{"closed never reopens", StatusClosed, StatusActive, false},
		{"closed never reschedules", StatusClosed, StatusScheduled, false},
		{"active cannot revert", StatusActive, StatusScheduled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &VotingEvent{Status: tt.from}
			assert.Equal(t, tt.allowed, event.CanTransitionTo(tt.to))

			err := event.UpdateStatus(tt.to)
			if tt.allowed {
				assert.NoError(t, err)
				assert.Equal(t, tt.to, event.Status)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, tt.from, event.Status)
			}
		})
	}
}

func TestIsVotingOpenAt(t *testing.T) {
	end := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	event := &VotingEvent{
		Status:    StatusActive,
		StartTime: end.Add(-2 * time.Hour),
		EndTime:   end,
	}

	assert.True(t, event.IsVotingOpenAt(end.Add(-time.Minute)))
	assert.False(t, event.IsVotingOpenAt(end), "a ballot arriving exactly at end time is rejected")
	assert.False(t, event.IsVotingOpenAt(end.Add(time.Second)))

	event.Status = StatusScheduled
	assert.False(t, event.IsVotingOpenAt(end.Add(-time.Minute)))

	event.Status = StatusClosed
	assert.False(t, event.IsVotingOpenAt(end.Add(-time.Minute)))
}

func TestIsDueForClosure(t *testing.T) {
	end := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	event := &VotingEvent{Status: StatusActive, EndTime: end}

	assert.False(t, event.IsDueForClosure(end.Add(-time.Second)))
	assert.True(t, event.IsDueForClosure(end))
	assert.True(t, event.IsDueForClosure(end.Add(time.Hour)))

	event.NeedsManualResolution = true
	assert.False(t, event.IsDueForClosure(end.Add(time.Hour)),
		"an event parked behind a tie is excluded from the automatic sweep")
}

func TestVotingEventValidate(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	valid := NewVotingEvent(uuid.New(), "Board Elections 2026", start, start.Add(8*time.Hour))
	assert.NoError(t, valid.Validate())
	assert.Equal(t, StatusScheduled, valid.Status)

	missingTitle := NewVotingEvent(uuid.New(), "", start, start.Add(time.Hour))
	assert.Error(t, missingTitle.Validate())

	inverted := NewVotingEvent(uuid.New(), "Board Elections", start, start.Add(-time.Hour))
	assert.Error(t, inverted.Validate())

	zeroWindow := NewVotingEvent(uuid.New(), "Board Elections", start, start)
	assert.Error(t, zeroWindow.Validate())
}

func TestStatusJSONRoundTrip(t *testing.T) {
	for _, status := range []Status{StatusScheduled, StatusActive, StatusClosed} {
		data, err := json.Marshal(status)
		require.NoError(t, err)

		var decoded Status
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, status, decoded)
	}

	var invalid Status
	assert.Error(t, json.Unmarshal([]byte(`"archived"`), &invalid))
}

func TestStatusScan(t *testing.T) {
	var s Status
	require.NoError(t, s.Scan("active"))
	assert.Equal(t, StatusActive, s)

	require.NoError(t, s.Scan([]byte("closed")))
	assert.Equal(t, StatusClosed, s)

	assert.Error(t, s.Scan("archived"))
	assert.Error(t, s.Scan(42))

	value, err := StatusActive.Value()
	require.NoError(t, err)
	assert.Equal(t, "active", value)
}
