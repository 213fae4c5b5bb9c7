package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/clubsuite/elections-api/internal/config"
)

// Container bundles every repository over one shared connection
type Container struct {
	db *gorm.DB

	Events     *EventRepository
	Positions  *PositionRepository
	Candidates *CandidateRepository
	Votes      *VoteRepository
	Winners    *WinnerRepository
	Users      *UserRepository
	Clubs      *ClubRepository
}

// NewContainer connects to PostgreSQL, runs migrations and builds the
// repository set.
func NewContainer(cfg *config.Config) (*Container, error) {
	db, err := Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return NewContainerWithDB(db), nil
}

// NewContainerWithDB builds the repository set over an existing
// connection (used by tests and the migration tool).
func NewContainerWithDB(db *gorm.DB) *Container {
	return &Container{
		db:         db,
		Events:     NewEventRepository(db),
		Positions:  NewPositionRepository(db),
		Candidates: NewCandidateRepository(db),
		Votes:      NewVoteRepository(db),
		Winners:    NewWinnerRepository(db),
		Users:      NewUserRepository(db),
		Clubs:      NewClubRepository(db),
	}
}

// DB exposes the underlying connection for health checks
func (c *Container) DB() *gorm.DB {
	return c.db
}
