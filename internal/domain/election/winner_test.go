package election

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWinnerRecordValidate(t *testing.T) {
	now := time.Now().UTC()

	resolved := NewWinnerRecord(uuid.New(), uuid.New(), uuid.New(), 7, ResolutionAutomatic, now)
	assert.NoError(t, resolved.Validate())
	assert.True(t, resolved.IsResolved())

	tie := NewTieRecord(uuid.New(), uuid.New(), 4, []uuid.UUID{uuid.New(), uuid.New()})
	assert.NoError(t, tie.Validate())
	assert.False(t, tie.IsResolved())

	// A tied row carrying a winner is inconsistent.
	winner := uuid.New()
	tie.CandidateID = &winner
	assert.Error(t, tie.Validate())

	// A resolved row without a winner is inconsistent.
	resolved.CandidateID = nil
	assert.Error(t, resolved.Validate())
}

func TestResolveManuallySupersedesTie(t *testing.T) {
	tiedA := uuid.New()
	tiedB := uuid.New()
	record := NewTieRecord(uuid.New(), uuid.New(), 4, []uuid.UUID{tiedA, tiedB})

	adminID := uuid.New()
	at := time.Now().UTC()
	record.ResolveManually(tiedA, adminID, 4, at)

	assert.NoError(t, record.Validate())
	assert.True(t, record.IsResolved())
	require.NotNil(t, record.CandidateID)
	assert.Equal(t, tiedA, *record.CandidateID)
	assert.Equal(t, ResolutionManual, record.Method)
	require.NotNil(t, record.ResolvedBy)
	assert.Equal(t, adminID, *record.ResolvedBy)
	require.NotNil(t, record.ResolvedAt)
	assert.Equal(t, at, *record.ResolvedAt)

	// The tied set stays on the record for auditability.
	assert.Equal(t, []uuid.UUID{tiedA, tiedB}, record.TiedCandidateUUIDs())
}

func TestTiedCandidateUUIDsSkipsGarbage(t *testing.T) {
	id := uuid.New()
	record := NewTieRecord(uuid.New(), uuid.New(), 1, []uuid.UUID{id})
	record.TiedCandidateIDs = append(record.TiedCandidateIDs, "not-a-uuid")

	assert.Equal(t, []uuid.UUID{id}, record.TiedCandidateUUIDs())
}

func TestResolutionMethodScanValue(t *testing.T) {
	var m ResolutionMethod
	require.NoError(t, m.Scan("manual"))
	assert.Equal(t, ResolutionManual, m)

	require.NoError(t, m.Scan([]byte("automatic")))
	assert.Equal(t, ResolutionAutomatic, m)

	assert.Error(t, m.Scan(1))

	value, err := ResolutionManual.Value()
	require.NoError(t, err)
	assert.Equal(t, "manual", value)
}
