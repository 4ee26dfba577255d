package models

// Role defines the profile role type
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// BookingStatus defines the lifecycle state of a booking.
// The initial state is decided at creation time (confirmed or waitlist,
// depending on seat availability); cancelled is terminal in practice,
// although administrators may set any status.
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusWaitlist  BookingStatus = "waitlist"
)

// ValidBookingStatus reports whether s is one of the known booking statuses.
func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusWaitlist:
		return true
	}
	return false
}
