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

// VoteRepository implements election.VoteRepository using GORM
type VoteRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewVoteRepository creates a new PostgreSQL vote repository
func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{
		db:  db,
		log: logger.Repository("vote"),
	}
}

// Create persists one ballot. The unique index on
// (event_id, position_id, voter_id) is the double-vote guard; a
// violation surfaces as election.ErrDuplicateVote.
func (r *VoteRepository) Create(vote *election.Vote) error {
	r.log.Debug("creating vote", "vote_id", vote.ID, "event_id", vote.EventID, "voter_id", vote.VoterID)

	if err := vote.Validate(); err != nil {
		return fmt.Errorf("vote validation failed: %w", err)
	}

	if err := r.db.Create(vote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			r.log.Warn("duplicate vote rejected",
				"event_id", vote.EventID,
				"position_id", vote.PositionID,
				"voter_id", vote.VoterID)
			return election.ErrDuplicateVote
		}
		r.log.Error("failed to create vote", "error", err, "vote_id", vote.ID)
		return fmt.Errorf("failed to create vote: %w", err)
	}

	r.log.Info("vote created", "vote_id", vote.ID, "event_id", vote.EventID, "position_id", vote.PositionID)
	return nil
}

func (r *VoteRepository) GetByEventID(eventID string) ([]*election.Vote, error) {
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format: %w", err)
	}

	var votes []*election.Vote
	if err := r.db.Where("event_id = ?", eventUUID).Find(&votes).Error; err != nil {
		r.log.Error("failed to retrieve votes by event ID", "event_id", eventID, "error", err)
		return nil, fmt.Errorf("failed to retrieve votes by event ID: %w", err)
	}

	r.log.Debug("votes retrieved", "event_id", eventID, "count", len(votes))
	return votes, nil
}

func (r *VoteRepository) HasVoted(eventID, positionID, voterID string) (bool, error) {
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return false, fmt.Errorf("invalid event ID format: %w", err)
	}
	positionUUID, err := uuid.Parse(positionID)
	if err != nil {
		return false, fmt.Errorf("invalid position ID format: %w", err)
	}
	voterUUID, err := uuid.Parse(voterID)
	if err != nil {
		return false, fmt.Errorf("invalid voter ID format: %w", err)
	}

	var count int64
	if err := r.db.Model(&election.Vote{}).
		Where("event_id = ? AND position_id = ? AND voter_id = ?", eventUUID, positionUUID, voterUUID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check voting status: %w", err)
	}

	return count > 0, nil
}

func (r *VoteRepository) CountByEventID(eventID string) (int64, error) {
	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return 0, fmt.Errorf("invalid event ID format: %w", err)
	}

	var count int64
	if err := r.db.Model(&election.Vote{}).Where("event_id = ?", eventUUID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count votes by event ID: %w", err)
	}
	return count, nil
}
