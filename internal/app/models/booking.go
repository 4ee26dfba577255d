package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking defines the booking model based on the 'bookings' table.
// CreatedAt ordering is significant: the waitlist is FIFO and the
// duplicate check treats the earliest non-cancelled booking as the
// one that counts.
type Booking struct {
	ID        uuid.UUID     `json:"id" db:"id"`
	CourseID  uuid.UUID     `json:"courseId" db:"course_id"`
	UserID    uuid.UUID     `json:"userId" db:"user_id"`
	Status    BookingStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" db:"updated_at"`
	Course    *Course       `json:"course,omitempty"`  // Relation, no db tag
	Profile   *Profile      `json:"profile,omitempty"` // Relation, no db tag
}
