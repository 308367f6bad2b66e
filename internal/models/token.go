package models

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetToken is the persisted half of a reset link. Only the
// SHA-256 digest of the bearer token is stored; the raw token travels in
// the emailed link and nowhere else.
type PasswordResetToken struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	TokenHash string    `json:"-" db:"token_hash"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
