package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken defines a persisted refresh token from the 'refresh_tokens' table
type RefreshToken struct {
	ID        int64     `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// IsExpired reports whether the token is past its expiry time
func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
