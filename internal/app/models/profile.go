package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile defines the profile model based on the 'profiles' table.
// Role is set once at creation; administrators come from seed data,
// never from a hardcoded address check at runtime.
type Profile struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FullName  *string   `json:"fullName,omitempty" db:"full_name"`
	Password  string    `json:"-" db:"password"`
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
