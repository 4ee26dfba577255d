package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ateliercucina/backend/internal/app/models"
	"github.com/ateliercucina/backend/internal/pkg/apperrors"
	"github.com/ateliercucina/backend/internal/pkg/dberrors"
)

// BookingRepository handles persistence for bookings
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// CreateAllocated books a seat for the user in a single serialized
// transaction. SELECT ... FOR UPDATE on the course row makes concurrent
// attempts on the last seat queue behind each other, so the capacity check,
// the status decision, the booking insert and the seat decrement act as one
// atomic step: two bookings can never both confirm the same last seat.
func (r *BookingRepository) CreateAllocated(ctx context.Context, courseID, userID uuid.UUID) (booking *models.Booking, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Lock the course row for the duration of the allocation
	var availableSeats int
	err = tx.QueryRow(ctx,
		`SELECT available_seats FROM courses WHERE id = $1 FOR UPDATE`,
		courseID,
	).Scan(&availableSeats)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("lock course row: %w", err)
	}

	// At most one live booking per (course, user); cancelled ones don't count
	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM bookings WHERE course_id = $1 AND user_id = $2 AND status <> 'cancelled')`,
		courseID, userID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check duplicate booking: %w", err)
	}
	if exists {
		return nil, apperrors.ErrDuplicateBooking
	}

	status := models.StatusWaitlist
	if availableSeats > 0 {
		status = models.StatusConfirmed
	}

	booking = &models.Booking{
		CourseID: courseID,
		UserID:   userID,
		Status:   status,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO bookings (course_id, user_id, status)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		courseID, userID, status,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "bookings_live_course_user_idx") {
			return nil, apperrors.ErrDuplicateBooking
		}
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	if status == models.StatusConfirmed {
		_, err = tx.Exec(ctx,
			`UPDATE courses SET available_seats = available_seats - 1, updated_at = now() WHERE id = $1`,
			courseID,
		)
		if err != nil {
			return nil, fmt.Errorf("decrement available seats: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return booking, nil
}

// UpdateStatusAllocated writes the new status unconditionally (any
// transition is allowed, legal or not) and keeps the seat counter
// consistent in the same transaction: leaving confirmed releases a seat,
// entering confirmed takes one. The counter is clamped to 0..max_seats.
func (r *BookingRepository) UpdateStatusAllocated(ctx context.Context, bookingID uuid.UUID, status models.BookingStatus) (booking *models.Booking, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	booking = &models.Booking{}
	err = tx.QueryRow(ctx,
		`SELECT id, course_id, user_id, status, created_at FROM bookings WHERE id = $1 FOR UPDATE`,
		bookingID,
	).Scan(&booking.ID, &booking.CourseID, &booking.UserID, &booking.Status, &booking.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("lock booking row: %w", err)
	}

	previous := booking.Status

	err = tx.QueryRow(ctx,
		`UPDATE bookings SET status = $1, updated_at = now() WHERE id = $2 RETURNING updated_at`,
		status, bookingID,
	).Scan(&booking.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	booking.Status = status

	switch {
	case previous == models.StatusConfirmed && status != models.StatusConfirmed:
		_, err = tx.Exec(ctx,
			`UPDATE courses SET available_seats = LEAST(available_seats + 1, max_seats), updated_at = now() WHERE id = $1`,
			booking.CourseID,
		)
	case previous != models.StatusConfirmed && status == models.StatusConfirmed:
		_, err = tx.Exec(ctx,
			`UPDATE courses SET available_seats = GREATEST(available_seats - 1, 0), updated_at = now() WHERE id = $1`,
			booking.CourseID,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("adjust available seats: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return booking, nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var b models.Booking
	err := r.db.QueryRow(ctx,
		`SELECT id, course_id, user_id, status, created_at, updated_at FROM bookings WHERE id = $1`,
		id,
	).Scan(&b.ID, &b.CourseID, &b.UserID, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return &b, nil
}

// ListByUser retrieves a user's bookings with the embedded course, newest
// first.
func (r *BookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Booking, error) {
	query := `
		SELECT b.id, b.course_id, b.user_id, b.status, b.created_at, b.updated_at,
		       c.id, c.title, c.description, c.image_url, c.date, c.location, c.price, c.max_seats, c.available_seats, c.created_at, c.updated_at
		FROM bookings b
		JOIN courses c ON c.id = b.course_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list user bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		var b models.Booking
		var c models.Course
		if err := rows.Scan(
			&b.ID, &b.CourseID, &b.UserID, &b.Status, &b.CreatedAt, &b.UpdatedAt,
			&c.ID, &c.Title, &c.Description, &c.ImageURL, &c.Date, &c.Location, &c.Price, &c.MaxSeats, &c.AvailableSeats, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user booking: %w", err)
		}
		b.Course = &c
		bookings = append(bookings, &b)
	}

	return bookings, rows.Err()
}

// ListByCourse retrieves all bookings of a course with the embedded profile
// and course, in creation order (so waitlist position is the row position).
func (r *BookingRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*models.Booking, error) {
	query := `
		SELECT b.id, b.course_id, b.user_id, b.status, b.created_at, b.updated_at,
		       p.id, p.email, p.full_name, p.role,
		       c.id, c.title, c.description, c.image_url, c.date, c.location, c.price, c.max_seats, c.available_seats, c.created_at, c.updated_at
		FROM bookings b
		JOIN profiles p ON p.id = b.user_id
		JOIN courses c ON c.id = b.course_id
		WHERE b.course_id = $1
		ORDER BY b.created_at ASC
	`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("list course bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		var b models.Booking
		var p models.Profile
		var c models.Course
		if err := rows.Scan(
			&b.ID, &b.CourseID, &b.UserID, &b.Status, &b.CreatedAt, &b.UpdatedAt,
			&p.ID, &p.Email, &p.FullName, &p.Role,
			&c.ID, &c.Title, &c.Description, &c.ImageURL, &c.Date, &c.Location, &c.Price, &c.MaxSeats, &c.AvailableSeats, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan course booking: %w", err)
		}
		b.Profile = &p
		b.Course = &c
		bookings = append(bookings, &b)
	}

	return bookings, rows.Err()
}
