package election

import (
	"database/sql/driver"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VotingEvent represents a time-bounded election process scoped to one club
type VotingEvent struct {
	ID                    uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ClubID                uuid.UUID      `json:"club_id" gorm:"type:uuid;not null"`
	Title                 string         `json:"title" gorm:"not null"`
	StartTime             time.Time      `json:"start_time" gorm:"not null"`
	EndTime               time.Time      `json:"end_time" gorm:"not null"`
	Status                Status         `json:"status" gorm:"type:event_status;not null;default:'scheduled'"`
	NeedsManualResolution bool           `json:"needs_manual_resolution" gorm:"not null;default:false"`
	CreatedAt             time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt             time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt             gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName overrides the table name used by GORM
func (VotingEvent) TableName() string {
	return "voting_events"
}

// BeforeCreate sets a UUID before creating the record
func (e *VotingEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// NewVotingEvent creates a new scheduled voting event
func NewVotingEvent(clubID uuid.UUID, title string, startTime, endTime time.Time) *VotingEvent {
	return &VotingEvent{
		ID:        uuid.New(),
		ClubID:    clubID,
		Title:     title,
		StartTime: startTime,
		EndTime:   endTime,
		Status:    StatusScheduled,
	}
}

// CanTransitionTo checks if the event can transition to a new status.
// Transitions are monotonic: a closed event never reopens.
func (e *VotingEvent) CanTransitionTo(newStatus Status) bool {
	transitions := map[Status][]Status{
		StatusScheduled: {StatusActive},
		StatusActive:    {StatusClosed},
		StatusClosed:    {},
	}

	allowed, exists := transitions[e.Status]
	if !exists {
		return false
	}

	return slices.Contains(allowed, newStatus)
}

// UpdateStatus updates the status if the transition is valid
func (e *VotingEvent) UpdateStatus(newStatus Status) error {
	if !e.CanTransitionTo(newStatus) {
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, e.Status, newStatus)
	}
	e.Status = newStatus
	return nil
}

// IsVotingOpenAt reports whether a ballot may be accepted at the given instant
func (e *VotingEvent) IsVotingOpenAt(now time.Time) bool {
	return e.Status == StatusActive && now.Before(e.EndTime)
}

// IsDueForClosure reports whether the automatic closure check should run
func (e *VotingEvent) IsDueForClosure(now time.Time) bool {
	return e.Status == StatusActive && !now.Before(e.EndTime) && !e.NeedsManualResolution
}

// Validate checks if the event data is valid
func (e *VotingEvent) Validate() error {
	if e.Title == "" {
		return fmt.Errorf("title is required")
	}
	if e.ClubID == uuid.Nil {
		return fmt.Errorf("club_id is required")
	}
	if !e.EndTime.After(e.StartTime) {
		return fmt.Errorf("end_time must be after start_time")
	}
	return nil
}

// Status represents the lifecycle state of a voting event
type Status byte

const (
	StatusScheduled Status = iota
	StatusActive
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusScheduled:
		return "scheduled"
	case StatusActive:
		return "active"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaler interface
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *Status) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	status, valid := StatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid status: %s", str)
	}
	*s = status
	return nil
}

// StatusFromString converts a string to a Status
func StatusFromString(s string) (Status, bool) {
	switch s {
	case "scheduled":
		return StatusScheduled, true
	case "active":
		return StatusActive, true
	case "closed":
		return StatusClosed, true
	default:
		return StatusScheduled, false
	}
}

// Scan implements the sql.Scanner interface for database deserialization
func (s *Status) Scan(value interface{}) error {
	if value == nil {
		*s = StatusScheduled
		return nil
	}

	str, ok := value.(string)
	if !ok {
		if b, ok := value.([]byte); ok {
			str = string(b)
		} else {
			return fmt.Errorf("cannot scan %T into Status", value)
		}
	}

	status, valid := StatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid status value: %s", str)
	}
	*s = status
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}
