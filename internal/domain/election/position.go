package election

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/clubsuite/elections-api/internal/domain/common"
	"gorm.io/gorm"
)

// Position is a contested role within a club (e.g. "President").
// Positions belong to the club, not to a single event, so they are
// reused across voting events.
type Position struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ClubID    uuid.UUID `json:"club_id" gorm:"type:uuid;not null"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Club common.SharedClub `json:"club,omitempty" gorm:"foreignKey:ClubID"`
}

// TableName overrides the table name used by GORM
func (Position) TableName() string {
	return "positions"
}

// BeforeCreate sets a UUID before creating the record
func (p *Position) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// NewPosition creates a new contested position for a club
func NewPosition(clubID uuid.UUID, name string) *Position {
	return &Position{
		ID:     uuid.New(),
		ClubID: clubID,
		Name:   name,
	}
}

// Validate checks if the position data is valid
func (p *Position) Validate() error {
	if p.ClubID == uuid.Nil {
		return fmt.Errorf("club_id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

func (p *Position) GetID() uuid.UUID {
	return p.ID
}

func (p *Position) GetName() string {
	return p.Name
}

// Candidate is a nomination of a user for a position within a specific
// voting event. A user may hold at most one candidacy per position per
// event; the unique index enforces it.
type Candidate struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	EventID     uuid.UUID `json:"event_id" gorm:"type:uuid;not null;uniqueIndex:idx_candidates_event_position_user"`
	PositionID  uuid.UUID `json:"position_id" gorm:"type:uuid;not null;uniqueIndex:idx_candidates_event_position_user"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_candidates_event_position_user"`
	NominatedAt time.Time `json:"nominated_at" gorm:"autoCreateTime"`

	Event    VotingEvent       `json:"event,omitempty" gorm:"foreignKey:EventID"`
	Position Position          `json:"position,omitempty" gorm:"foreignKey:PositionID"`
	User     common.SharedUser `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName overrides the table name used by GORM
func (Candidate) TableName() string {
	return "candidates"
}

// BeforeCreate sets a UUID before creating the record
func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// NewCandidate creates a new nomination
func NewCandidate(eventID, positionID, userID uuid.UUID) *Candidate {
	return &Candidate{
		ID:          uuid.New(),
		EventID:     eventID,
		PositionID:  positionID,
		UserID:      userID,
		NominatedAt: time.Now(),
	}
}

// Validate checks if the candidate data is valid
func (c *Candidate) Validate() error {
	if c.EventID == uuid.Nil {
		return fmt.Errorf("event_id is required")
	}
	if c.PositionID == uuid.Nil {
		return fmt.Errorf("position_id is required")
	}
	if c.UserID == uuid.Nil {
		return fmt.Errorf("user_id is required")
	}
	return nil
}
