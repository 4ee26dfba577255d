package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ateliercucina/backend/internal/app/models"
	"github.com/ateliercucina/backend/internal/app/models/dto"
	"github.com/ateliercucina/backend/internal/pkg/apperrors"
	"github.com/ateliercucina/backend/internal/pkg/changefeed"
	"github.com/ateliercucina/backend/internal/pkg/mirror"
)

type fakeCourseStore struct {
	mu      sync.Mutex
	courses map[uuid.UUID]*models.Course
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{courses: make(map[uuid.UUID]*models.Course)}
}

func (f *fakeCourseStore) Create(_ context.Context, course *models.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	course.ID = uuid.New()
	course.AvailableSeats = course.MaxSeats
	f.courses[course.ID] = course
	return nil
}

func (f *fakeCourseStore) GetByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.courses[id]; ok {
		return c, nil
	}
	return nil, apperrors.ErrCourseNotFound
}

func (f *fakeCourseStore) GetAll(_ context.Context) ([]*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Course, 0, len(f.courses))
	for _, c := range f.courses {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCourseStore) Update(_ context.Context, course *models.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.courses[course.ID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	f.courses[course.ID] = course
	return nil
}

func (f *fakeCourseStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(f.courses, id)
	return nil
}

func newTestCourseService(t *testing.T, store *fakeCourseStore) (*CourseService, *changefeed.Hub) {
	t.Helper()

	hub := changefeed.NewHub(zerolog.Nop())
	go hub.Run()

	m := mirror.New(store.GetAll, hub, changefeed.Filter{Table: changefeed.TableCourses}, zerolog.Nop())
	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(m.Close)

	return NewCourseService(store, m, hub, zerolog.Nop()), hub
}

func TestCreateCourseStartsWithAllSeats(t *testing.T) {
	store := newFakeCourseStore()
	svc, _ := newTestCourseService(t, store)

	course, err := svc.CreateCourse(context.Background(), &dto.CreateCourseRequest{
		Title:    "Atelier pâtes fraîches",
		Date:     time.Now().AddDate(0, 1, 0),
		Location: "Paris",
		Price:    75,
		MaxSeats: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, 10, course.MaxSeats)
	assert.Equal(t, 10, course.AvailableSeats)
}

func TestCatalogueMirrorRefreshesOnCourseEvents(t *testing.T) {
	store := newFakeCourseStore()
	svc, _ := newTestCourseService(t, store)

	assert.Empty(t, svc.ListCourses())

	_, err := svc.CreateCourse(context.Background(), &dto.CreateCourseRequest{
		Title:    "Pâtisserie française",
		Date:     time.Now().AddDate(0, 1, 0),
		Location: "Paris",
		Price:    85,
		MaxSeats: 8,
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return len(svc.ListCourses()) == 1
	}, time.Second, 10*time.Millisecond, "catalogue mirror should pick up the new course")
}

func TestUpdateCoursePatchesOnlyProvidedFields(t *testing.T) {
	store := newFakeCourseStore()
	svc, _ := newTestCourseService(t, store)

	created, err := svc.CreateCourse(context.Background(), &dto.CreateCourseRequest{
		Title:    "Atelier pâtes fraîches",
		Date:     time.Now().AddDate(0, 1, 0),
		Location: "Paris",
		Price:    75,
		MaxSeats: 10,
	})
	require.NoError(t, err)

	newPrice := 80.0
	updated, err := svc.UpdateCourse(context.Background(), created.ID, &dto.UpdateCourseRequest{
		Price: &newPrice,
	})
	require.NoError(t, err)

	assert.Equal(t, 80.0, updated.Price)
	assert.Equal(t, "Atelier pâtes fraîches", updated.Title)
	assert.Equal(t, "Paris", updated.Location)
}

func TestDeleteCoursePublishesBothTables(t *testing.T) {
	store := newFakeCourseStore()

	course := &models.Course{Title: "Atelier", MaxSeats: 5}
	require.NoError(t, store.Create(context.Background(), course))

	feed := &fakePublisher{}
	hub := changefeed.NewHub(zerolog.Nop())
	go hub.Run()
	m := mirror.New(store.GetAll, hub, changefeed.Filter{Table: changefeed.TableCourses}, zerolog.Nop())
	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(m.Close)

	svc := NewCourseService(store, m, feed, zerolog.Nop())

	require.NoError(t, svc.DeleteCourse(context.Background(), course.ID))

	// Deleting a course cascades to its bookings, so both tables change
	require.Len(t, feed.events, 2)
	assert.Equal(t, changefeed.TableCourses, feed.events[0].Table)
	assert.Equal(t, changefeed.ActionDelete, feed.events[0].Action)
	assert.Equal(t, changefeed.TableBookings, feed.events[1].Table)

	err := svc.DeleteCourse(context.Background(), course.ID)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}
