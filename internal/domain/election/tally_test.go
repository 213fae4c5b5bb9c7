package election

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCandidate(eventID, positionID uuid.UUID) *Candidate {
	return NewCandidate(eventID, positionID, uuid.New())
}

func ballotsFor(candidate *Candidate, n int) []*Vote {
	votes := make([]*Vote, 0, n)
	for i := 0; i < n; i++ {
		votes = append(votes, &Vote{
			ID:          uuid.New(),
			EventID:     candidate.EventID,
			PositionID:  candidate.PositionID,
			CandidateID: candidate.ID,
			VoterID:     uuid.New(),
		})
	}
	return votes
}

func TestComputeTallyCountsPerPosition(t *testing.T) {
	eventID := uuid.New()
	president := uuid.New()
	treasurer := uuid.New()

	a := newCandidate(eventID, president)
	b := newCandidate(eventID, president)
	c := newCandidate(eventID, treasurer)

	var votes []*Vote
	votes = append(votes, ballotsFor(a, 3)...)
	votes = append(votes, ballotsFor(b, 5)...)
	votes = append(votes, ballotsFor(c, 2)...)

	tally := ComputeTally([]*Candidate{a, b, c}, votes)

	require.Len(t, tally, 2)
	require.Len(t, tally[president], 2)
	assert.Equal(t, b.ID, tally[president][0].Candidate.ID, "highest count sorts first")
	assert.Equal(t, 5, tally[president][0].Count)
	assert.Equal(t, 3, tally[president][1].Count)
	assert.Equal(t, 8, tally.TotalVotes(president))
	assert.Equal(t, 2, tally.TotalVotes(treasurer))
}

func TestComputeTallyIncludesZeroVoteCandidates(t *testing.T) {
	eventID := uuid.New()
	positionID := uuid.New()

	a := newCandidate(eventID, positionID)
	b := newCandidate(eventID, positionID)

	tally := ComputeTally([]*Candidate{a, b}, ballotsFor(a, 1))

	require.Len(t, tally[positionID], 2)
	assert.Equal(t, 1, tally[positionID][0].Count)
	assert.Equal(t, 0, tally[positionID][1].Count, "a candidate with no ballots still appears")
}

func TestComputeTallyNoCandidates(t *testing.T) {
	tally := ComputeTally(nil, nil)
	assert.Empty(t, tally)
	assert.Empty(t, tally.PositionIDs())
}

func TestComputeTallyDeterministicOnEqualCounts(t *testing.T) {
	eventID := uuid.New()
	positionID := uuid.New()

	candidates := []*Candidate{
		newCandidate(eventID, positionID),
		newCandidate(eventID, positionID),
		newCandidate(eventID, positionID),
	}

	var votes []*Vote
	for _, c := range candidates {
		votes = append(votes, ballotsFor(c, 2)...)
	}

	first := ComputeTally(candidates, votes)

	// Same ballots in a different slice order must produce the same
	// ordered tally.
	reversed := []*Candidate{candidates[2], candidates[1], candidates[0]}
	second := ComputeTally(reversed, votes)

	require.Len(t, first[positionID], 3)
	for i := range first[positionID] {
		assert.Equal(t, first[positionID][i].Candidate.ID, second[positionID][i].Candidate.ID)
	}

	for i := 0; i < len(first[positionID])-1; i++ {
		assert.Less(t,
			first[positionID][i].Candidate.ID.String(),
			first[positionID][i+1].Candidate.ID.String(),
			"equal counts order by candidate id")
	}
}

func TestTallySumMatchesBallots(t *testing.T) {
	eventID := uuid.New()
	positionID := uuid.New()

	a := newCandidate(eventID, positionID)
	b := newCandidate(eventID, positionID)
	c := newCandidate(eventID, positionID)

	var votes []*Vote
	votes = append(votes, ballotsFor(a, 4)...)
	votes = append(votes, ballotsFor(b, 4)...)
	votes = append(votes, ballotsFor(c, 1)...)

	tally := ComputeTally([]*Candidate{a, b, c}, votes)
	assert.Equal(t, len(votes), tally.TotalVotes(positionID))
}
