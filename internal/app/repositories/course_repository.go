package repositories

import (
	"errors"
	"fmt"

	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ateliercucina/backend/internal/app/models"
	"github.com/ateliercucina/backend/internal/pkg/apperrors"
)

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db DB) *CourseRepository {
	return &CourseRepository{
		db: db,
	}
}

const courseColumns = `id, title, description, image_url, date, location, price, max_seats, available_seats, created_at, updated_at`

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.ImageURL,
		&c.Date,
		&c.Location,
		&c.Price,
		&c.MaxSeats,
		&c.AvailableSeats,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new course. Available seats always start at max_seats.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (title, description, image_url, date, location, price, max_seats, available_seats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id, available_seats, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		course.Title,
		course.Description,
		course.ImageURL,
		course.Date,
		course.Location,
		course.Price,
		course.MaxSeats,
	).Scan(&course.ID, &course.AvailableSeats, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert course: %w", err)
	}

	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	course, err := scanCourse(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	return course, nil
}

// GetAll retrieves the full catalogue ordered by date ascending
func (r *CourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY date ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, course)
	}

	return courses, rows.Err()
}

// Update updates course metadata. Seat counts are owned by the booking
// workflow and are not touched here.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET title = $1, description = $2, image_url = $3, date = $4, location = $5, price = $6, updated_at = now()
		WHERE id = $7
	`

	cmdTag, err := r.db.Exec(ctx, query,
		course.Title,
		course.Description,
		course.ImageURL,
		course.Date,
		course.Location,
		course.Price,
		course.ID,
	)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Delete deletes a course by ID. Bookings referencing the course are
// removed by the foreign key cascade.
func (r *CourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}
