package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ateliercucina/backend/internal/app/models"
	"github.com/ateliercucina/backend/internal/app/models/dto"
	"github.com/ateliercucina/backend/internal/pkg/changefeed"
	"github.com/ateliercucina/backend/internal/pkg/mirror"
)

// CourseStore is the course persistence the services depend on
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	GetAll(ctx context.Context) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ChangePublisher publishes change events to the feed
type ChangePublisher interface {
	Publish(event changefeed.Event)
}

// CourseService handles catalogue reads and admin course management
type CourseService struct {
	courses   CourseStore
	catalogue *mirror.Mirror[*models.Course]
	feed      ChangePublisher
	logger    zerolog.Logger
}

// NewCourseService creates a new course service. The catalogue mirror serves
// public reads; writes go straight to the store and announce themselves on
// the change feed, which in turn refreshes the mirror.
func NewCourseService(courses CourseStore, catalogue *mirror.Mirror[*models.Course], feed ChangePublisher, logger zerolog.Logger) *CourseService {
	return &CourseService{
		courses:   courses,
		catalogue: catalogue,
		feed:      feed,
		logger:    logger,
	}
}

// ListCourses returns the full catalogue, date ascending, from the mirror.
func (s *CourseService) ListCourses() []*models.Course {
	return s.catalogue.Snapshot()
}

// GetCourse returns a single course from the store
func (s *CourseService) GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	return s.courses.GetByID(ctx, id)
}

// CreateCourse creates a new course with all seats available
func (s *CourseService) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	course := &models.Course{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Date:        req.Date,
		Location:    req.Location,
		Price:       req.Price,
		MaxSeats:    req.MaxSeats,
	}

	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info().Str("courseId", course.ID.String()).Str("title", course.Title).Msg("Course created")
	s.feed.Publish(changefeed.NewEvent(changefeed.TableCourses, changefeed.ActionInsert, &course.ID, nil))

	return course, nil
}

// UpdateCourse updates course metadata. Fields left nil in the request keep
// their current values.
func (s *CourseService) UpdateCourse(ctx context.Context, id uuid.UUID, req *dto.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.ImageURL != nil {
		course.ImageURL = req.ImageURL
	}
	if req.Date != nil {
		course.Date = *req.Date
	}
	if req.Location != nil {
		course.Location = *req.Location
	}
	if req.Price != nil {
		course.Price = *req.Price
	}

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info().Str("courseId", id.String()).Msg("Course updated")
	s.feed.Publish(changefeed.NewEvent(changefeed.TableCourses, changefeed.ActionUpdate, &id, nil))

	return course, nil
}

// DeleteCourse deletes a course and, through the foreign key cascade, its
// bookings.
func (s *CourseService) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("courseId", id.String()).Msg("Course deleted")
	s.feed.Publish(changefeed.NewEvent(changefeed.TableCourses, changefeed.ActionDelete, &id, nil))
	s.feed.Publish(changefeed.NewEvent(changefeed.TableBookings, changefeed.ActionDelete, &id, nil))

	return nil
}
