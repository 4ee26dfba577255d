package models

import (
	"time"

	"github.com/google/uuid"
)

// Course defines the course model based on the 'courses' table.
// AvailableSeats always stays within 0..MaxSeats; creation sets it to
// MaxSeats and the booking workflow decrements it when a seat is taken.
type Course struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Title          string    `json:"title" db:"title"`
	Description    *string   `json:"description,omitempty" db:"description"`
	ImageURL       *string   `json:"imageUrl,omitempty" db:"image_url"`
	Date           time.Time `json:"date" db:"date"`
	Location       string    `json:"location" db:"location"`
	Price          float64   `json:"price" db:"price"`
	MaxSeats       int       `json:"maxSeats" db:"max_seats"`
	AvailableSeats int       `json:"availableSeats" db:"available_seats"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}
