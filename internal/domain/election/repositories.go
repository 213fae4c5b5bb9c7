package election

import (
	"time"

	"github.com/google/uuid"
	"github.com/clubsuite/elections-api/internal/domain/common"
)

// Repository interfaces for the election engine

type EventRepository interface {
	Create(event *VotingEvent) error
	GetByID(id string) (*VotingEvent, error)
	GetAll() ([]*VotingEvent, error)
	GetByClubID(clubID string) ([]*VotingEvent, error)
	GetDueForActivation(now time.Time) ([]*VotingEvent, error)
	GetDueForClosure(now time.Time) ([]*VotingEvent, error)
	// TransitionStatus performs an atomic conditional status flip and
	// reports whether this caller won the transition. Two concurrent
	// closure attempts on the same event must not both observe true.
	TransitionStatus(id uuid.UUID, from, to Status) (bool, error)
	SetNeedsManualResolution(id uuid.UUID, flagged bool) error
	CountByStatus() (map[Status]int64, error)
	CountNeedingManualResolution() (int64, error)
	Delete(id string) error
}

type PositionRepository interface {
	Create(position *Position) error
	GetByID(id string) (*Position, error)
	GetByClubID(clubID string) ([]*Position, error)
}

type CandidateRepository interface {
	// Create returns ErrDuplicateCandidate when the user already holds a
	// candidacy for that position in that event.
	Create(candidate *Candidate) error
	GetByID(id string) (*Candidate, error)
	GetByEventID(eventID string) ([]*Candidate, error)
}

type VoteRepository interface {
	// Create returns ErrDuplicateVote when the voter already holds a
	// ballot for that position in that event.
	Create(vote *Vote) error
	GetByEventID(eventID string) ([]*Vote, error)
	HasVoted(eventID, positionID, voterID string) (bool, error)
	CountByEventID(eventID string) (int64, error)
}

type WinnerRepository interface {
	// Upsert writes the outcome for (event, position), replacing any
	// prior automatic outcome. Manual resolutions supersede but never
	// delete the row.
	Upsert(record *WinnerRecord) error
	GetByEventID(eventID string) ([]*WinnerRecord, error)
	GetByEventAndPosition(eventID, positionID string) (*WinnerRecord, error)
	MarkTieNotified(id uuid.UUID, at time.Time) error
}

// UserRepository uses interfaces to avoid circular imports
type UserRepository interface {
	GetByID(id string) (common.UserInterface, error)
	GetAdminsByClubID(clubID string) ([]common.UserInterface, error)
}

// ClubRepository uses interfaces to avoid circular imports
type ClubRepository interface {
	GetByID(id string) (common.ClubInterface, error)
}
