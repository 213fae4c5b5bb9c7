package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clubsuite/elections-api/internal/domain/club"
	"github.com/clubsuite/elections-api/internal/domain/common"
	"github.com/clubsuite/elections-api/internal/domain/election"
	"github.com/clubsuite/elections-api/internal/domain/member"
	"github.com/clubsuite/elections-api/internal/logger"
)

// UserRepository implements election.UserRepository using GORM
type UserRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		db:  db,
		log: logger.Repository("user"),
	}
}

func (r *UserRepository) Create(user *member.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("user validation failed: %w", err)
	}

	if err := r.db.Create(user).Error; err != nil {
		r.log.Error("failed to create user", "error", err, "user_id", user.ID)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByID(id string) (common.UserInterface, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}

	var user member.User
	if err := r.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, election.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) GetAdminsByClubID(clubID string) ([]common.UserInterface, error) {
	clubUUID, err := uuid.Parse(clubID)
	if err != nil {
		return nil, fmt.Errorf("invalid club ID format: %w", err)
	}

	var users []*member.User
	if err := r.db.
		Where("club_id = ? AND role = ?", clubUUID, member.RoleAdmin).
		Order("email ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve club administrators: %w", err)
	}

	admins := make([]common.UserInterface, len(users))
	for i, u := range users {
		admins[i] = u
	}
	return admins, nil
}

// ClubRepository implements election.ClubRepository using GORM
type ClubRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewClubRepository creates a new PostgreSQL club repository
func NewClubRepository(db *gorm.DB) *ClubRepository {
	return &ClubRepository{
		db:  db,
		log: logger.Repository("club"),
	}
}

func (r *ClubRepository) Create(c *club.Club) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("club validation failed: %w", err)
	}

	if err := r.db.Create(c).Error; err != nil {
		r.log.Error("failed to create club", "error", err, "club_id", c.ID)
		return fmt.Errorf("failed to create club: %w", err)
	}

	return nil
}

func (r *ClubRepository) GetByID(id string) (common.ClubInterface, error) {
	clubID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid club ID format: %w", err)
	}

	var c club.Club
	if err := r.db.First(&c, clubID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, election.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve club: %w", err)
	}

	return &c, nil
}
