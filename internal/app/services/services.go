// Package services contains the business logic between controllers and
// repositories.
package services

// Services is the container for all services
type Services struct {
	AuthService    *AuthService
	CourseService  *CourseService
	BookingService *BookingService
}
