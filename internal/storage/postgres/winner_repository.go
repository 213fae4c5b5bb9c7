package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clubsuite/elections-api/internal/domain/election"
	"github.com/clubsuite/elections-api/internal/logger"
)

// WinnerRepository implements election.WinnerRepository using GORM
type WinnerRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewWinnerRepository creates a new PostgreSQL winner record repository
func NewWinnerRepository(db *gorm.DB) *WinnerRepository {
	return &WinnerRepository{
		db:  db,
		log: logger.Repository("winner_record"),
	}
}

// Upsert writes the outcome for (event, position). Re-running the
// resolution overwrites the previous automatic outcome in place, so one
// row per position per event always holds the latest state.
func (r *WinnerRepository) Upsert(record *election.WinnerRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("winner record validation failed: %w", err)
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "event_id"}, {Name: "position_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"candidate_id", "vote_count", "tied", "tied_candidate_ids",
			"method", "resolved_by", "resolved_at", "last_tie_notified_at", "updated_at",
		}),
	}).Create(record).Error
	if err != nil {
		r.log.Error("failed to upsert winner record", "error", err, "event_id", record.EventID, "position_id", record.PositionID)
		return fmt.Errorf("failed to upsert winner record: %w", err)
	}

	r.log.Info("winner record upserted",
		"event_id", record.EventID,
		"position_id", record.PositionID,
		"tied", record.Tied,
		"method", record.Method)
	return nil
}

func (r *WinnerRepository) GetByEventID(eventID string) ([]*election.WinnerRecord, error) {
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format: %w", err)
	}

	var records []*election.WinnerRecord
	if err := r.db.Preload("Position").
		Where("event_id = ?", eventUUID).
		Order("position_id ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve winner records: %w", err)
	}
	return records, nil
}

func (r *WinnerRepository) GetByEventAndPosition(eventID, positionID string) (*election.WinnerRecord, error) {
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format: %w", err)
	}
	positionUUID, err := uuid.Parse(positionID)
	if err != nil {
		return nil, fmt.Errorf("invalid position ID format: %w", err)
	}

	var record election.WinnerRecord
	if err := r.db.
		Where("event_id = ? AND position_id = ?", eventUUID, positionUUID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, election.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve winner record: %w", err)
	}
	return &record, nil
}

func (r *WinnerRepository) MarkTieNotified(id uuid.UUID, at time.Time) error {
	if err := r.db.Model(&election.WinnerRecord{}).
		Where("id = ?", id).
		Update("last_tie_notified_at", at).Error; err != nil {
		return fmt.Errorf("failed to mark tie notified: %w", err)
	}
	return nil
}
