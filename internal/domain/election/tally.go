package election

import (
	"sort"

	"github.com/google/uuid"
)

// CandidateCount is one entry of a position tally
type CandidateCount struct {
	Candidate *Candidate `json:"candidate"`
	Count     int        `json:"count"`
}

// Tally maps each contested position to its ordered candidate counts.
// Ordering is count descending, candidate id ascending on equal counts,
// so repeated runs over the same ballots report identically.
type Tally map[uuid.UUID][]CandidateCount

// ComputeTally aggregates ballots per candidate per position. Positions
// with no candidates never appear in the tally; candidates with no
// ballots appear with a zero count so an all-zero position reads as a
// tie rather than an empty result. Pure aggregation, no side effects.
func ComputeTally(candidates []*Candidate, votes []*Vote) Tally {
	countsByCandidate := make(map[uuid.UUID]int, len(candidates))
	for _, v := range votes {
		countsByCandidate[v.CandidateID]++
	}

	tally := make(Tally)
	for _, c := range candidates {
		tally[c.PositionID] = append(tally[c.PositionID], CandidateCount{
			Candidate: c,
			Count:     countsByCandidate[c.ID],
		})
	}

	for positionID := range tally {
		entries := tally[positionID]
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Count != entries[j].Count {
				return entries[i].Count > entries[j].Count
			}
			return entries[i].Candidate.ID.String() < entries[j].Candidate.ID.String()
		})
		tally[positionID] = entries
	}

	return tally
}

// TotalVotes returns the number of ballots aggregated for one position
func (t Tally) TotalVotes(positionID uuid.UUID) int {
	total := 0
	for _, entry := range t[positionID] {
		total += entry.Count
	}
	return total
}

// PositionIDs returns the tallied positions in deterministic order
func (t Tally) PositionIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}
