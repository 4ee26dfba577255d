package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ateliercucina/backend/internal/app/models"
	"github.com/ateliercucina/backend/internal/app/models/dto"
	"github.com/ateliercucina/backend/internal/pkg/changefeed"
)

// BookingStore is the booking persistence the booking service depends on
type BookingStore interface {
	CreateAllocated(ctx context.Context, courseID, userID uuid.UUID) (*models.Booking, error)
	UpdateStatusAllocated(ctx context.Context, bookingID uuid.UUID, status models.BookingStatus) (*models.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Booking, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*models.Booking, error)
}

// Notifier is the booking notification side-channel
type Notifier interface {
	BookingCreated(ctx context.Context, courseID, userID uuid.UUID, status models.BookingStatus) error
}

// BookingService handles the booking workflow and admin status transitions
type BookingService struct {
	bookings BookingStore
	notifier Notifier
	feed     ChangePublisher
	logger   zerolog.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(bookings BookingStore, notifier Notifier, feed ChangePublisher, logger zerolog.Logger) *BookingService {
	return &BookingService{
		bookings: bookings,
		notifier: notifier,
		feed:     feed,
		logger:   logger,
	}
}

// CreateBooking books a seat on a course for the user. The allocation
// (duplicate check, capacity check, insert, seat decrement) is one atomic
// step in the store. The notification is best-effort: a failure is logged
// and the booking stands. Returns the created booking together with the
// user's refreshed booking list.
func (s *BookingService) CreateBooking(ctx context.Context, userID, courseID uuid.UUID) (*models.Booking, []*models.Booking, error) {
	booking, err := s.bookings.CreateAllocated(ctx, courseID, userID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().
		Str("bookingId", booking.ID.String()).
		Str("courseId", courseID.String()).
		Str("userId", userID.String()).
		Str("status", string(booking.Status)).
		Msg("Booking created")

	if err := s.notifier.BookingCreated(ctx, courseID, userID, booking.Status); err != nil {
		s.logger.Error().Err(err).
			Str("bookingId", booking.ID.String()).
			Msg("Booking notification failed")
	}

	s.feed.Publish(changefeed.NewEvent(changefeed.TableBookings, changefeed.ActionInsert, &courseID, &userID))
	if booking.Status == models.StatusConfirmed {
		// A confirmed booking changed the course's seat counter
		s.feed.Publish(changefeed.NewEvent(changefeed.TableCourses, changefeed.ActionUpdate, &courseID, nil))
	}

	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	return booking, bookings, nil
}

// GetUserBookings returns the user's bookings with embedded courses, newest
// first.
func (s *BookingService) GetUserBookings(ctx context.Context, userID uuid.UUID) ([]*models.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// GetCourseBookings returns a course's bookings partitioned by status for
// the admin console. Buckets keep creation order, so the waitlist bucket
// reads as a FIFO queue.
func (s *BookingService) GetCourseBookings(ctx context.Context, courseID uuid.UUID) (*dto.CourseBookingsResponse, error) {
	bookings, err := s.bookings.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	resp := dto.PartitionBookings(bookings)
	return &resp, nil
}

// UpdateBookingStatus applies an admin status transition. Any transition is
// accepted; the store keeps the seat counter consistent. Returns the updated
// booking and the refreshed, partitioned course booking list.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, status models.BookingStatus) (*models.Booking, *dto.CourseBookingsResponse, error) {
	booking, err := s.bookings.UpdateStatusAllocated(ctx, bookingID, status)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().
		Str("bookingId", bookingID.String()).
		Str("status", string(status)).
		Msg("Booking status updated")

	s.feed.Publish(changefeed.NewEvent(changefeed.TableBookings, changefeed.ActionUpdate, &booking.CourseID, &booking.UserID))
	s.feed.Publish(changefeed.NewEvent(changefeed.TableCourses, changefeed.ActionUpdate, &booking.CourseID, nil))

	bookings, err := s.bookings.ListByCourse(ctx, booking.CourseID)
	if err != nil {
		return nil, nil, err
	}

	resp := dto.PartitionBookings(bookings)
	return booking, &resp, nil
}
