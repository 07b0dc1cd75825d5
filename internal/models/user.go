package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account's public profile. The password hash never leaves the
// database layer in API responses.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
}
