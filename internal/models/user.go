package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser   = "user"
	RoleAdmin  = "admin"
	RoleHolder = "holder"
)

type User struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	Name           string
	Email          string
	Role           string
	ImageURL       *string
	HashedPassword string
}
