package common

import "github.com/google/uuid"

// SharedClub represents the minimal Club structure used across domains
type SharedClub struct {
	ID   uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name string    `json:"name"`
}

// SharedUser represents the minimal User structure used across domains
type SharedUser struct {
	ID    uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func (c *SharedClub) GetID() uuid.UUID {
	return c.ID
}

func (c *SharedClub) GetName() string {
	return c.Name
}

func (u *SharedUser) GetID() uuid.UUID {
	return u.ID
}

func (u *SharedUser) GetName() string {
	return u.Name
}

func (u *SharedUser) GetEmail() string {
	return u.Email
}

// SharedPosition represents the minimal Position structure used across domains
type SharedPosition struct {
	ID   uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name string    `json:"name"`
}

// Interfaces for type safety without circular imports

type UserInterface interface {
	GetID() uuid.UUID
	GetName() string
	GetEmail() string
}

type ClubInterface interface {
	GetID() uuid.UUID
	GetName() string
}

type PositionInterface interface {
	GetID() uuid.UUID
	GetName() string
}
