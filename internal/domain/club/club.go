package club

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Club scopes voting events, positions and memberships
type Club struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Club) TableName() string {
	return "clubs"
}

// BeforeCreate sets a UUID before creating the record
func (c *Club) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// NewClub creates a new club
func NewClub(name string) *Club {
	return &Club{
		ID:   uuid.New(),
		Name: name,
	}
}

// Validate checks if the club data is valid
func (c *Club) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

func (c *Club) GetID() uuid.UUID {
	return c.ID
}

func (c *Club) GetName() string {
	return c.Name
}
