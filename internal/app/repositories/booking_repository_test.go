package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ateliercucina/backend/internal/app/models"
	"github.com/ateliercucina/backend/internal/pkg/apperrors"
)

func newBookingRepoMock(t *testing.T) (pgxmock.PgxPoolIface, *BookingRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewBookingRepository(mock)
}

const (
	lockCourseSQL     = `SELECT available_seats FROM courses WHERE id = $1 FOR UPDATE`
	duplicateCheckSQL = `SELECT EXISTS(SELECT 1 FROM bookings WHERE course_id = $1 AND user_id = $2 AND status <> 'cancelled')`
)

func TestCreateAllocatedConfirmsAndDecrements(t *testing.T) {
	mock, repo := newBookingRepoMock(t)
	courseID := uuid.New()
	userID := uuid.New()
	bookingID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockCourseSQL)).
		WithArgs(courseID).
		WillReturnRows(pgxmock.NewRows([]string{"available_seats"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(duplicateCheckSQL)).
		WithArgs(courseID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO bookings`)).
		WithArgs(courseID, userID, models.StatusConfirmed).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(bookingID, now, now))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE courses SET available_seats = available_seats - 1, updated_at = now() WHERE id = $1`)).
		WithArgs(courseID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	booking, err := repo.CreateAllocated(context.Background(), courseID, userID)
	require.NoError(t, err)

	assert.Equal(t, bookingID, booking.ID)
	assert.Equal(t, models.StatusConfirmed, booking.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAllocatedWaitlistsWhenFull(t *testing.T) {
	mock, repo := newBookingRepoMock(t)
	courseID := uuid.New()
	userID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockCourseSQL)).
		WithArgs(courseID).
		WillReturnRows(pgxmock.NewRows([]string{"available_seats"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(duplicateCheckSQL)).
		WithArgs(courseID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO bookings`)).
		WithArgs(courseID, userID, models.StatusWaitlist).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(uuid.New(), now, now))
	// No seat decrement for a waitlisted booking
	mock.ExpectCommit()

	booking, err := repo.CreateAllocated(context.Background(), courseID, userID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusWaitlist, booking.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAllocatedRejectsDuplicate(t *testing.T) {
	mock, repo := newBookingRepoMock(t)
	courseID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockCourseSQL)).
		WithArgs(courseID).
		WillReturnRows(pgxmock.NewRows([]string{"available_seats"}).AddRow(5))
	mock.ExpectQuery(regexp.QuoteMeta(duplicateCheckSQL)).
		WithArgs(courseID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := repo.CreateAllocated(context.Background(), courseID, userID)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateBooking)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAllocatedCourseNotFound(t *testing.T) {
	mock, repo := newBookingRepoMock(t)
	courseID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockCourseSQL)).
		WithArgs(courseID).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.CreateAllocated(context.Background(), courseID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusAllocatedReleasesSeatOnCancel(t *testing.T) {
	mock, repo := newBookingRepoMock(t)
	bookingID := uuid.New()
	courseID := uuid.New()
	userID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, course_id, user_id, status, created_at FROM bookings WHERE id = $1 FOR UPDATE`)).
		WithArgs(bookingID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "course_id", "user_id", "status", "created_at"}).
			AddRow(bookingID, courseID, userID, models.StatusConfirmed, now))
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE bookings SET status = $1, updated_at = now() WHERE id = $2 RETURNING updated_at`)).
		WithArgs(models.StatusCancelled, bookingID).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE courses SET available_seats = LEAST(available_seats + 1, max_seats), updated_at = now() WHERE id = $1`)).
		WithArgs(courseID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	booking, err := repo.UpdateStatusAllocated(context.Background(), bookingID, models.StatusCancelled)
	require.NoError(t, err)

	assert.Equal(t, models.StatusCancelled, booking.Status)
	assert.Equal(t, courseID, booking.CourseID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusAllocatedTakesSeatOnPromotion(t *testing.T) {
	mock, repo := newBookingRepoMock(t)
	bookingID := uuid.New()
	courseID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, course_id, user_id, status, created_at FROM bookings WHERE id = $1 FOR UPDATE`)).
		WithArgs(bookingID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "course_id", "user_id", "status", "created_at"}).
			AddRow(bookingID, courseID, uuid.New(), models.StatusWaitlist, now))
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE bookings SET status = $1, updated_at = now() WHERE id = $2 RETURNING updated_at`)).
		WithArgs(models.StatusConfirmed, bookingID).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE courses SET available_seats = GREATEST(available_seats - 1, 0), updated_at = now() WHERE id = $1`)).
		WithArgs(courseID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	booking, err := repo.UpdateStatusAllocated(context.Background(), bookingID, models.StatusConfirmed)
	require.NoError(t, err)

	assert.Equal(t, models.StatusConfirmed, booking.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusAllocatedKeepsCounterOnNeutralTransition(t *testing.T) {
	mock, repo := newBookingRepoMock(t)
	bookingID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, course_id, user_id, status, created_at FROM bookings WHERE id = $1 FOR UPDATE`)).
		WithArgs(bookingID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "course_id", "user_id", "status", "created_at"}).
			AddRow(bookingID, uuid.New(), uuid.New(), models.StatusWaitlist, now))
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE bookings SET status = $1, updated_at = now() WHERE id = $2 RETURNING updated_at`)).
		WithArgs(models.StatusCancelled, bookingID).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now))
	// waitlist -> cancelled never touches the seat counter
	mock.ExpectCommit()

	_, err := repo.UpdateStatusAllocated(context.Background(), bookingID, models.StatusCancelled)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusAllocatedBookingNotFound(t *testing.T) {
	mock, repo := newBookingRepoMock(t)
	bookingID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, course_id, user_id, status, created_at FROM bookings WHERE id = $1 FOR UPDATE`)).
		WithArgs(bookingID).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.UpdateStatusAllocated(context.Background(), bookingID, models.StatusConfirmed)
	assert.ErrorIs(t, err, apperrors.ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUserEmbedsCourse(t *testing.T) {
	mock, repo := newBookingRepoMock(t)
	userID := uuid.New()
	courseID := uuid.New()
	bookingID := uuid.New()
	now := time.Now()
	description := "Pâtes fraîches maison"

	rows := pgxmock.NewRows([]string{
		"id", "course_id", "user_id", "status", "created_at", "updated_at",
		"c_id", "title", "description", "image_url", "date", "location", "price", "max_seats", "available_seats", "c_created_at", "c_updated_at",
	}).AddRow(
		bookingID, courseID, userID, models.StatusConfirmed, now, now,
		courseID, "Atelier pâtes fraîches", &description, (*string)(nil), now, "Paris", 75.0, 10, 9, now, now,
	)

	mock.ExpectQuery(`SELECT .+ FROM bookings b\s+JOIN courses c ON c\.id = b\.course_id\s+WHERE b\.user_id = \$1`).
		WithArgs(userID).
		WillReturnRows(rows)

	bookings, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)

	require.Len(t, bookings, 1)
	assert.Equal(t, bookingID, bookings[0].ID)
	require.NotNil(t, bookings[0].Course)
	assert.Equal(t, "Atelier pâtes fraîches", bookings[0].Course.Title)
	assert.Equal(t, 9, bookings[0].Course.AvailableSeats)
	assert.NoError(t, mock.ExpectationsWereMet())
}
