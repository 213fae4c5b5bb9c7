package election

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/clubsuite/elections-api/internal/domain/common"
	"gorm.io/gorm"
)

// Vote is a single ballot cast by a voter for a candidate. The
// one-vote-per-voter-per-position-per-event invariant is enforced at
// write time by a unique index on (event_id, position_id, voter_id).
type Vote struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	EventID     uuid.UUID `json:"event_id" gorm:"type:uuid;not null;uniqueIndex:idx_votes_event_position_voter"`
	PositionID  uuid.UUID `json:"position_id" gorm:"type:uuid;not null;uniqueIndex:idx_votes_event_position_voter"`
	CandidateID uuid.UUID `json:"candidate_id" gorm:"type:uuid;not null"`
	VoterID     uuid.UUID `json:"voter_id" gorm:"type:uuid;not null;uniqueIndex:idx_votes_event_position_voter"`
	CastAt      time.Time `json:"cast_at" gorm:"autoCreateTime"`

	Event     VotingEvent       `json:"event,omitempty" gorm:"foreignKey:EventID"`
	Position  Position          `json:"position,omitempty" gorm:"foreignKey:PositionID"`
	Candidate Candidate         `json:"candidate,omitempty" gorm:"foreignKey:CandidateID"`
	Voter     common.SharedUser `json:"voter,omitempty" gorm:"foreignKey:VoterID"`
}

// TableName overrides the table name used by GORM
func (Vote) TableName() string {
	return "votes"
}

// BeforeCreate sets a UUID before creating the record
func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// NewVote creates a new ballot
func NewVote(eventID, positionID, candidateID, voterID uuid.UUID, castAt time.Time) *Vote {
	return &Vote{
		ID:          uuid.New(),
		EventID:     eventID,
		PositionID:  positionID,
		CandidateID: candidateID,
		VoterID:     voterID,
		CastAt:      castAt,
	}
}

// Validate checks if the vote data is valid
func (v *Vote) Validate() error {
	if v.EventID == uuid.Nil {
		return fmt.Errorf("event_id is required")
	}
	if v.PositionID == uuid.Nil {
		return fmt.Errorf("position_id is required")
	}
	if v.CandidateID == uuid.Nil {
		return fmt.Errorf("candidate_id is required")
	}
	if v.VoterID == uuid.Nil {
		return fmt.Errorf("voter_id is required")
	}
	return nil
}

// CastVoteCommand is the explicit write command for a ballot, carrying
// the caller identity instead of relying on ambient request state.
type CastVoteCommand struct {
	EventID     uuid.UUID
	PositionID  uuid.UUID
	CandidateID uuid.UUID
	VoterID     uuid.UUID
}

// ResolveTieCommand is the explicit write command for a manual tie
// resolution by an administrator.
type ResolveTieCommand struct {
	AdminID     uuid.UUID
	EventID     uuid.UUID
	PositionID  uuid.UUID
	CandidateID uuid.UUID
}
