package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clubsuite/elections-api/internal/domain/election"
	"github.com/clubsuite/elections-api/internal/logger"
)

// EventRepository implements election.EventRepository using GORM
type EventRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewEventRepository creates a new PostgreSQL voting event repository
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{
		db:  db,
		log: logger.Repository("voting_event"),
	}
}

func (r *EventRepository) Create(event *election.VotingEvent) error {
	r.log.Debug("creating voting event", "event_id", event.ID, "club_id", event.ClubID)

	if err := event.Validate(); err != nil {
		return fmt.Errorf("voting event validation failed: %w", err)
	}

	if err := r.db.Create(event).Error; err != nil {
		r.log.Error("failed to create voting event", "error", err, "event_id", event.ID)
		return fmt.Errorf("failed to create voting event: %w", err)
	}

	r.log.Info("voting event created", "event_id", event.ID, "title", event.Title)
	return nil
}

func (r *EventRepository) GetByID(id string) (*election.VotingEvent, error) {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format: %w", err)
	}

	var event election.VotingEvent
	if err := r.db.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, election.ErrNotFound
		}
		r.log.Error("failed to retrieve voting event", "event_id", id, "error", err)
		return nil, fmt.Errorf("failed to retrieve voting event: %w", err)
	}

	return &event, nil
}

func (r *EventRepository) GetAll() ([]*election.VotingEvent, error) {
	var events []*election.VotingEvent
	if err := r.db.Order("start_time DESC").Find(&events).Error; err != nil {
		r.log.Error("failed to retrieve voting events", "error", err)
		return nil, fmt.Errorf("failed to retrieve voting events: %w", err)
	}
	return events, nil
}

func (r *EventRepository) GetByClubID(clubID string) ([]*election.VotingEvent, error) {
	clubUUID, err := uuid.Parse(clubID)
	if err != nil {
		return nil, fmt.Errorf("invalid club ID format: %w", err)
	}

	var events []*election.VotingEvent
	if err := r.db.Where("club_id = ?", clubUUID).Order("start_time DESC").Find(&events).Error; err != nil {
		r.log.Error("failed to retrieve voting events by club", "club_id", clubID, "error", err)
		return nil, fmt.Errorf("failed to retrieve voting events by club: %w", err)
	}
	return events, nil
}

func (r *EventRepository) GetDueForActivation(now time.Time) ([]*election.VotingEvent, error) {
	var events []*election.VotingEvent
	if err := r.db.
		Where("status = ? AND start_time <= ?", election.StatusScheduled, now).
		Order("start_time ASC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events due for activation: %w", err)
	}
	return events, nil
}

func (r *EventRepository) GetDueForClosure(now time.Time) ([]*election.VotingEvent, error) {
	var events []*election.VotingEvent
	if err := r.db.
		Where("status = ? AND end_time <= ? AND needs_manual_resolution = ?", election.StatusActive, now, false).
		Order("end_time ASC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events due for closure: %w", err)
	}
	return events, nil
}

// TransitionStatus performs the atomic conditional status flip. The
// single UPDATE ... WHERE status = from is the serialization point for
// concurrent closure attempts: exactly one caller observes a row
// change.
func (r *EventRepository) TransitionStatus(id uuid.UUID, from, to election.Status) (bool, error) {
	result := r.db.Model(&election.VotingEvent{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		r.log.Error("failed to transition event status", "event_id", id, "from", from, "to", to, "error", result.Error)
		return false, fmt.Errorf("failed to transition event status: %w", result.Error)
	}

	won := result.RowsAffected == 1
	r.log.Debug("event status transition attempted", "event_id", id, "from", from, "to", to, "won", won)
	return won, nil
}

func (r *EventRepository) SetNeedsManualResolution(id uuid.UUID, flagged bool) error {
	if err := r.db.Model(&election.VotingEvent{}).
		Where("id = ?", id).
		Update("needs_manual_resolution", flagged).Error; err != nil {
		return fmt.Errorf("failed to update manual resolution flag: %w", err)
	}
	return nil
}

func (r *EventRepository) CountByStatus() (map[election.Status]int64, error) {
	type row struct {
		Status election.Status
		Count  int64
	}

	var rows []row
	if err := r.db.Model(&election.VotingEvent{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count events by status: %w", err)
	}

	counts := make(map[election.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *EventRepository) CountNeedingManualResolution() (int64, error) {
	var count int64
	if err := r.db.Model(&election.VotingEvent{}).
		Where("needs_manual_resolution = ?", true).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count events awaiting manual resolution: %w", err)
	}
	return count, nil
}

// Delete removes an event. Events that never activated are hard-deleted
// together with their nominations; anything that has been active keeps
// its ballots and is only soft-deleted.
func (r *EventRepository) Delete(id string) error {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid event ID format: %w", err)
	}

	var event election.VotingEvent
	if err := r.db.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return election.ErrNotFound
		}
		return fmt.Errorf("failed to retrieve voting event for deletion: %w", err)
	}

	if event.Status == election.StatusScheduled {
		return r.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("event_id = ?", eventID).Delete(&election.Candidate{}).Error; err != nil {
				return fmt.Errorf("failed to delete nominations: %w", err)
			}
			if err := tx.Unscoped().Delete(&event).Error; err != nil {
				return fmt.Errorf("failed to delete voting event: %w", err)
			}
			r.log.Info("scheduled voting event hard-deleted", "event_id", id)
			return nil
		})
	}

	if err := r.db.Delete(&event).Error; err != nil {
		return fmt.Errorf("failed to soft-delete voting event: %w", err)
	}

	r.log.Info("voting event soft-deleted", "event_id", id, "status", event.Status)
	return nil
}
