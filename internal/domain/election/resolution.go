package election

import "github.com/google/uuid"

// Outcome is the resolution result for one position. Either Winner is
// set, or Tied is true and TiedCandidates lists every candidate sharing
// the top count.
type Outcome struct {
	PositionID     uuid.UUID
	Winner         *CandidateCount
	VoteCount      int
	Tied           bool
	TiedCandidates []CandidateCount
}

// ResolveTally determines the outcome of every tallied position
// independently. The top entry wins only if its count strictly exceeds
// the runner-up's, or it is the sole candidate; otherwise the position
// is tied. Results are ordered by position id so identical ballots
// always yield identical output.
func ResolveTally(tally Tally) []Outcome {
	outcomes := make([]Outcome, 0, len(tally))

	for _, positionID := range tally.PositionIDs() {
		entries := tally[positionID]
		if len(entries) == 0 {
			continue
		}

		outcomes = append(outcomes, resolvePosition(positionID, entries))
	}

	return outcomes
}

// resolvePosition applies the strict-plurality rule to one ordered tally
func resolvePosition(positionID uuid.UUID, entries []CandidateCount) Outcome {
	top := entries[0]

	// Sole candidate wins outright, even with zero ballots cast.
	if len(entries) == 1 {
		return Outcome{
			PositionID: positionID,
			Winner:     &top,
			VoteCount:  top.Count,
		}
	}

	if top.Count > entries[1].Count {
		return Outcome{
			PositionID: positionID,
			Winner:     &top,
			VoteCount:  top.Count,
		}
	}

	var tied []CandidateCount
	for _, entry := range entries {
		if entry.Count == top.Count {
			tied = append(tied, entry)
		}
	}

	return Outcome{
		PositionID:     positionID,
		VoteCount:      top.Count,
		Tied:           true,
		TiedCandidates: tied,
	}
}

// TiedOutcomes filters the outcomes that still need manual resolution
func TiedOutcomes(outcomes []Outcome) []Outcome {
	var tied []Outcome
	for _, o := range outcomes {
		if o.Tied {
			tied = append(tied, o)
		}
	}
	return tied
}
