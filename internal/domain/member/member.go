// Package member holds the minimal user model this engine needs:
// identity, contact details for notifications and the club role used
// by authorization gates. Authentication itself belongs to the
// external identity provider.
package member

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/clubsuite/elections-api/internal/domain/common"
	"gorm.io/gorm"
)

// Role is a user's role within a club
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// User is a club member known to the election engine
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ClubID    uuid.UUID `json:"club_id" gorm:"type:uuid;not null"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"not null;uniqueIndex"`
	Role      Role      `json:"role" gorm:"not null;default:'member'"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Club common.SharedClub `json:"club,omitempty" gorm:"foreignKey:ClubID"`
}

// TableName overrides the table name used by GORM
func (User) TableName() string {
	return "users"
}

// BeforeCreate sets a UUID before creating the record
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// NewUser creates a new club member
func NewUser(clubID uuid.UUID, name, email string, role Role) *User {
	return &User{
		ID:     uuid.New(),
		ClubID: clubID,
		Name:   name,
		Email:  email,
		Role:   role,
	}
}

// IsAdmin reports whether the user may run administrative operations
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Validate checks if the user data is valid
func (u *User) Validate() error {
	if u.ClubID == uuid.Nil {
		return fmt.Errorf("club_id is required")
	}
	if u.Name == "" {
		return fmt.Errorf("name is required")
	}
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	return nil
}

func (u *User) GetID() uuid.UUID {
	return u.ID
}

func (u *User) GetName() string {
	return u.Name
}

func (u *User) GetEmail() string {
	return u.Email
}
