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

func newCourseRepoMock(t *testing.T) (pgxmock.PgxPoolIface, *CourseRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewCourseRepository(mock)
}

func TestCourseCreateStartsWithAllSeatsAvailable(t *testing.T) {
	mock, repo := newCourseRepoMock(t)
	id := uuid.New()
	now := time.Now()

	course := &models.Course{
		Title:    "Atelier pâtes fraîches",
		Date:     now.AddDate(0, 1, 0),
		Location: "Paris",
		Price:    75,
		MaxSeats: 10,
	}

	// max_seats is bound once and reused for available_seats
	mock.ExpectQuery(`INSERT INTO courses .+ VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$7\)`).
		WithArgs(course.Title, course.Description, course.ImageURL, course.Date, course.Location, course.Price, course.MaxSeats).
		WillReturnRows(pgxmock.NewRows([]string{"id", "available_seats", "created_at", "updated_at"}).
			AddRow(id, 10, now, now))

	require.NoError(t, repo.Create(context.Background(), course))

	assert.Equal(t, id, course.ID)
	assert.Equal(t, 10, course.AvailableSeats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseGetByIDNotFound(t *testing.T) {
	mock, repo := newCourseRepoMock(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM courses WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseUpdateNotFound(t *testing.T) {
	mock, repo := newCourseRepoMock(t)
	course := &models.Course{
		ID:       uuid.New(),
		Title:    "Atelier",
		Date:     time.Now(),
		Location: "Paris",
	}

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE courses`)).
		WithArgs(course.Title, course.Description, course.ImageURL, course.Date, course.Location, course.Price, course.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), course)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseDelete(t *testing.T) {
	mock, repo := newCourseRepoMock(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM courses WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.Delete(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}
