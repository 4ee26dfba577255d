package dto

import "time"

// CreateCourseRequest represents a course creation request. Available seats
// are never accepted from the caller: a new course always starts with
// available_seats = max_seats.
type CreateCourseRequest struct {
	Title       string    `json:"title" binding:"required,min=2,max=200"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"imageUrl" binding:"omitempty,url"`
	Date        time.Time `json:"date" binding:"required"`
	Location    string    `json:"location" binding:"required"`
	Price       float64   `json:"price" binding:"gte=0"`
	MaxSeats    int       `json:"maxSeats" binding:"required,gt=0"`
}

// UpdateCourseRequest represents a course metadata update. Seat counts are
// managed by the booking workflow, not by this request.
type UpdateCourseRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=2,max=200"`
	Description *string    `json:"description"`
	ImageURL    *string    `json:"imageUrl" binding:"omitempty,url"`
	Date        *time.Time `json:"date"`
	Location    *string    `json:"location"`
	Price       *float64   `json:"price" binding:"omitempty,gte=0"`
}
