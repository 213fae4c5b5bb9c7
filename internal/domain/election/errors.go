package election

import "errors"

// Domain error kinds. Data-integrity violations are rejected at the
// write boundary; tie states are reportable outcomes, not failures.
var (
	// ErrInvalidTransition is returned when a status change violates the
	// monotonic lifecycle (e.g. closing a scheduled event).
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrDuplicateVote is returned when a voter already holds a ballot
	// for that position in that event.
	ErrDuplicateVote = errors.New("voter has already voted for this position in this event")

	// ErrDuplicateCandidate is returned when a user is already nominated
	// for that position in that event.
	ErrDuplicateCandidate = errors.New("user is already a candidate for this position in this event")

	// ErrNoCandidates is returned when a tally is requested for a
	// position with no nominations.
	ErrNoCandidates = errors.New("position has no candidates")

	// ErrTieUnresolved signals that a closure attempt found open ties.
	// It is a recognized terminal state for the attempt, not a failure.
	ErrTieUnresolved = errors.New("closure attempted while ties remain unresolved")

	// ErrVotingClosed is returned when a ballot arrives outside the
	// event's active voting window.
	ErrVotingClosed = errors.New("event is not accepting votes")

	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCandidateNotTied is returned when a manual resolution names a
	// candidate outside the tied set.
	ErrCandidateNotTied = errors.New("candidate is not part of the tied set")
)
