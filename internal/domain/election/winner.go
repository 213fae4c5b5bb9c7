package election

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ResolutionMethod records how a position outcome was determined
type ResolutionMethod string

const (
	ResolutionAutomatic ResolutionMethod = "automatic"
	ResolutionManual    ResolutionMethod = "manual"
)

// Scan implements the sql.Scanner interface for database deserialization
func (m *ResolutionMethod) Scan(value interface{}) error {
	if value == nil {
		*m = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*m = ResolutionMethod(v)
	case []byte:
		*m = ResolutionMethod(v)
	default:
		return fmt.Errorf("cannot scan %T into ResolutionMethod", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (m ResolutionMethod) Value() (driver.Value, error) {
	return string(m), nil
}

// WinnerRecord is the persisted outcome for one position in one event.
// For a resolved position CandidateID holds the winner; for an open tie
// CandidateID is nil and TiedCandidateIDs lists every candidate sharing
// the top count. A manual resolution supersedes the automatic tie row
// but keeps it in the same record (method flips to manual), so the
// resolution history is carried by updated_at and resolved_by.
type WinnerRecord struct {
	ID                uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	EventID           uuid.UUID        `json:"event_id" gorm:"type:uuid;not null;uniqueIndex:idx_winner_records_event_position"`
	PositionID        uuid.UUID        `json:"position_id" gorm:"type:uuid;not null;uniqueIndex:idx_winner_records_event_position"`
	CandidateID       *uuid.UUID       `json:"candidate_id" gorm:"type:uuid"`
	VoteCount         int              `json:"vote_count" gorm:"not null;default:0"`
	Tied              bool             `json:"tied" gorm:"not null;default:false"`
	TiedCandidateIDs  pq.StringArray   `json:"tied_candidate_ids" gorm:"type:uuid[]"`
	Method            ResolutionMethod `json:"method" gorm:"type:resolution_method"`
	ResolvedBy        *uuid.UUID       `json:"resolved_by" gorm:"type:uuid"`
	ResolvedAt        *time.Time       `json:"resolved_at"`
	LastTieNotifiedAt *time.Time       `json:"last_tie_notified_at"`
	CreatedAt         time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time        `json:"updated_at" gorm:"autoUpdateTime"`

	Event    VotingEvent `json:"event,omitempty" gorm:"foreignKey:EventID"`
	Position Position    `json:"position,omitempty" gorm:"foreignKey:PositionID"`
}

// TableName overrides the table name used by GORM
func (WinnerRecord) TableName() string {
	return "winner_records"
}

// BeforeCreate sets a UUID before creating the record
func (w *WinnerRecord) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// NewWinnerRecord creates a resolved outcome for a position
func NewWinnerRecord(eventID, positionID, candidateID uuid.UUID, voteCount int, method ResolutionMethod, resolvedAt time.Time) *WinnerRecord {
	cid := candidateID
	at := resolvedAt
	return &WinnerRecord{
		ID:          uuid.New(),
		EventID:     eventID,
		PositionID:  positionID,
		CandidateID: &cid,
		VoteCount:   voteCount,
		Method:      method,
		ResolvedAt:  &at,
	}
}

// NewTieRecord creates an unresolved tie outcome for a position
func NewTieRecord(eventID, positionID uuid.UUID, voteCount int, tiedCandidateIDs []uuid.UUID) *WinnerRecord {
	ids := make(pq.StringArray, len(tiedCandidateIDs))
	for i, id := range tiedCandidateIDs {
		ids[i] = id.String()
	}
	return &WinnerRecord{
		ID:               uuid.New(),
		EventID:          eventID,
		PositionID:       positionID,
		VoteCount:        voteCount,
		Tied:             true,
		TiedCandidateIDs: ids,
	}
}

// IsResolved reports whether the position has a final winner
func (w *WinnerRecord) IsResolved() bool {
	return !w.Tied && w.CandidateID != nil
}

// TiedCandidateUUIDs converts pq.StringArray back to []uuid.UUID
func (w *WinnerRecord) TiedCandidateUUIDs() []uuid.UUID {
	uuids := make([]uuid.UUID, 0, len(w.TiedCandidateIDs))
	for _, idStr := range w.TiedCandidateIDs {
		if id, err := uuid.Parse(idStr); err == nil {
			uuids = append(uuids, id)
		}
	}
	return uuids
}

// UpdateTie refreshes an open tie with the latest count and tied set
func (w *WinnerRecord) UpdateTie(voteCount int, tiedCandidateIDs []uuid.UUID) {
	ids := make(pq.StringArray, len(tiedCandidateIDs))
	for i, id := range tiedCandidateIDs {
		ids[i] = id.String()
	}
	w.CandidateID = nil
	w.VoteCount = voteCount
	w.Tied = true
	w.TiedCandidateIDs = ids
}

// ResolveManually supersedes a tie with an administrator's choice
func (w *WinnerRecord) ResolveManually(candidateID, adminID uuid.UUID, voteCount int, at time.Time) {
	cid := candidateID
	aid := adminID
	w.CandidateID = &cid
	w.VoteCount = voteCount
	w.Tied = false
	w.Method = ResolutionManual
	w.ResolvedBy = &aid
	w.ResolvedAt = &at
}

// Validate checks if the winner record data is consistent
func (w *WinnerRecord) Validate() error {
	if w.EventID == uuid.Nil {
		return fmt.Errorf("event_id is required")
	}
	if w.PositionID == uuid.Nil {
		return fmt.Errorf("position_id is required")
	}
	if w.Tied && w.CandidateID != nil {
		return fmt.Errorf("a tied record cannot carry a winner")
	}
	if !w.Tied && w.CandidateID == nil {
		return fmt.Errorf("a resolved record requires a winner")
	}
	return nil
}
