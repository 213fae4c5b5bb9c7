package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clubsuite/elections-api/internal/domain/election"
	"github.com/clubsuite/elections-api/internal/logger"
)

// PositionRepository implements election.PositionRepository using GORM
type PositionRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPositionRepository creates a new PostgreSQL position repository
func NewPositionRepository(db *gorm.DB) *PositionRepository {
	return &PositionRepository{
		db:  db,
		log: logger.Repository("position"),
	}
}

func (r *PositionRepository) Create(position *election.Position) error {
	if err := position.Validate(); err != nil {
		return fmt.Errorf("position validation failed: %w", err)
	}

	if err := r.db.Create(position).Error; err != nil {
		r.log.Error("failed to create position", "error", err, "position_id", position.ID)
		return fmt.Errorf("failed to create position: %w", err)
	}

	r.log.Info("position created", "position_id", position.ID, "club_id", position.ClubID, "name", position.Name)
	return nil
}

func (r *PositionRepository) GetByID(id string) (*election.Position, error) {
	positionID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid position ID format: %w", err)
	}

	var position election.Position
	if err := r.db.First(&position, positionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, election.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve position: %w", err)
	}

	return &position, nil
}

func (r *PositionRepository) GetByClubID(clubID string) ([]*election.Position, error) {
	clubUUID, err := uuid.Parse(clubID)
	if err != nil {
		return nil, fmt.Errorf("invalid club ID format: %w", err)
	}

	var positions []*election.Position
	if err := r.db.Where("club_id = ?", clubUUID).Order("name ASC").Find(&positions).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve positions by club: %w", err)
	}
	return positions, nil
}

// CandidateRepository implements election.CandidateRepository using GORM
type CandidateRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewCandidateRepository creates a new PostgreSQL candidate repository
func NewCandidateRepository(db *gorm.DB) *CandidateRepository {
	return &CandidateRepository{
		db:  db,
		log: logger.Repository("candidate"),
	}
}

// Create persists one nomination. The unique index on
// (event_id, position_id, user_id) enforces one candidacy per position
// per event.
func (r *CandidateRepository) Create(candidate *election.Candidate) error {
	if err := candidate.Validate(); err != nil {
		return fmt.Errorf("candidate validation failed: %w", err)
	}

	if err := r.db.Create(candidate).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			r.log.Warn("duplicate nomination rejected",
				"event_id", candidate.EventID,
				"position_id", candidate.PositionID,
				"user_id", candidate.UserID)
			return election.ErrDuplicateCandidate
		}
		r.log.Error("failed to create candidate", "error", err, "candidate_id", candidate.ID)
		return fmt.Errorf("failed to create candidate: %w", err)
	}

	r.log.Info("candidate nominated", "candidate_id", candidate.ID, "event_id", candidate.EventID, "position_id", candidate.PositionID)
	return nil
}

func (r *CandidateRepository) GetByID(id string) (*election.Candidate, error) {
	candidateID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid candidate ID format: %w", err)
	}

	var candidate election.Candidate
	if err := r.db.Preload("Position").Preload("User").First(&candidate, candidateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, election.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve candidate: %w", err)
	}

	return &candidate, nil
}

// GetByEventID preloads Position and User on every candidate; the
// resolution and notification paths rely on those relations being
// populated.
func (r *CandidateRepository) GetByEventID(eventID string) ([]*election.Candidate, error) {
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format: %w", err)
	}

	var candidates []*election.Candidate
	if err := r.db.Preload("Position").Preload("User").
		Where("event_id = ?", eventUUID).
		Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve candidates by event ID: %w", err)
	}

	r.log.Debug("candidates retrieved", "event_id", eventID, "count", len(candidates))
	return candidates, nil
}
