package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the current-user identity. There is no credential verification:
// a user object presented at login is accepted as-is.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	IsPremium bool      `json:"is_premium"`
	CreatedAt time.Time `json:"created_at"`
}
