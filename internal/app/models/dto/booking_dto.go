package dto

import (
	"github.com/ateliercucina/backend/internal/app/models"
)

// CreateBookingRequest represents a booking creation request
type CreateBookingRequest struct {
	CourseID string `json:"courseId" binding:"required,uuid"`
}

// UpdateBookingStatusRequest represents an admin status transition
type UpdateBookingStatusRequest struct {
	Status models.BookingStatus `json:"status" binding:"required,oneof=confirmed cancelled waitlist"`
}

// CourseBookingsResponse is the admin view of a course's bookings,
// partitioned into status buckets. Each bucket keeps the created_at
// ascending order of the underlying list, so the waitlist bucket is FIFO.
type CourseBookingsResponse struct {
	Confirmed []*models.Booking `json:"confirmed"`
	Waitlist  []*models.Booking `json:"waitlist"`
	Cancelled []*models.Booking `json:"cancelled"`
}

// BookingCreatedResponse carries the created booking and the caller's
// refreshed booking list, so clients don't need a follow-up request.
type BookingCreatedResponse struct {
	Booking  *models.Booking   `json:"booking"`
	Bookings []*models.Booking `json:"bookings"`
}

// BookingStatusUpdateResponse carries the updated booking and the refreshed,
// partitioned booking list of its course.
type BookingStatusUpdateResponse struct {
	Booking  *models.Booking        `json:"booking"`
	Bookings CourseBookingsResponse `json:"bookings"`
}

// PartitionBookings splits a booking list into status buckets, preserving
// the input order inside each bucket.
func PartitionBookings(bookings []*models.Booking) CourseBookingsResponse {
	out := CourseBookingsResponse{
		Confirmed: []*models.Booking{},
		Waitlist:  []*models.Booking{},
		Cancelled: []*models.Booking{},
	}
	for _, b := range bookings {
		switch b.Status {
		case models.StatusConfirmed:
			out.Confirmed = append(out.Confirmed, b)
		case models.StatusWaitlist:
			out.Waitlist = append(out.Waitlist, b)
		case models.StatusCancelled:
			out.Cancelled = append(out.Cancelled, b)
		}
	}
	return out
}
