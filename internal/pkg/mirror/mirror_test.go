package mirror

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ateliercucina/backend/internal/pkg/changefeed"
)

type fetchSource struct {
	mu    sync.Mutex
	items []string
	err   error
	calls int
}

func (s *fetchSource) fetch(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *fetchSource) set(items []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}

func (s *fetchSource) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func newTestMirror(t *testing.T, source *fetchSource, filter changefeed.Filter) (*Mirror[string], *changefeed.Hub) {
	t.Helper()

	hub := changefeed.NewHub(zerolog.Nop())
	go hub.Run()

	m := New(source.fetch, hub, filter, zerolog.Nop())
	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(m.Close)

	return m, hub
}

func TestMirrorInitialLoad(t *testing.T) {
	source := &fetchSource{items: []string{"a", "b"}}
	m, _ := newTestMirror(t, source, changefeed.Filter{Table: changefeed.TableCourses})

	assert.Equal(t, []string{"a", "b"}, m.Snapshot())
}

func TestMirrorStartFailsOnInitialFetchError(t *testing.T) {
	source := &fetchSource{err: errors.New("db down")}
	hub := changefeed.NewHub(zerolog.Nop())
	go hub.Run()

	m := New(source.fetch, hub, changefeed.Filter{}, zerolog.Nop())
	err := m.Start(context.Background())
	assert.Error(t, err)
}

func TestMirrorRefetchesOnMatchingEvent(t *testing.T) {
	source := &fetchSource{items: []string{"a"}}
	m, hub := newTestMirror(t, source, changefeed.Filter{Table: changefeed.TableCourses})

	source.set([]string{"a", "b"})
	hub.Publish(changefeed.NewEvent(changefeed.TableCourses, changefeed.ActionInsert, nil, nil))

	assert.Eventually(t, func() bool {
		return len(m.Snapshot()) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestMirrorIgnoresNonMatchingEvent(t *testing.T) {
	source := &fetchSource{items: []string{"a"}}
	m, hub := newTestMirror(t, source, changefeed.Filter{Table: changefeed.TableCourses})

	source.set([]string{"a", "b"})
	hub.Publish(changefeed.NewEvent(changefeed.TableProfiles, changefeed.ActionInsert, nil, nil))

	// Give the event time to be dispatched and dropped
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"a"}, m.Snapshot())
}

func TestMirrorKeepsSnapshotOnRefetchError(t *testing.T) {
	source := &fetchSource{items: []string{"a"}}
	m, hub := newTestMirror(t, source, changefeed.Filter{Table: changefeed.TableCourses})

	source.setErr(errors.New("db down"))
	hub.Publish(changefeed.NewEvent(changefeed.TableCourses, changefeed.ActionUpdate, nil, nil))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"a"}, m.Snapshot())
}

func TestMirrorFiltersByCourse(t *testing.T) {
	courseID := uuid.New()
	otherID := uuid.New()

	source := &fetchSource{items: []string{"a"}}
	m, hub := newTestMirror(t, source, changefeed.Filter{Table: changefeed.TableBookings, CourseID: &courseID})

	source.set([]string{"a", "b"})
	hub.Publish(changefeed.NewEvent(changefeed.TableBookings, changefeed.ActionInsert, &otherID, nil))
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, m.Snapshot(), 1)

	hub.Publish(changefeed.NewEvent(changefeed.TableBookings, changefeed.ActionInsert, &courseID, nil))
	assert.Eventually(t, func() bool {
		return len(m.Snapshot()) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestMirrorCloseIsIdempotent(t *testing.T) {
	source := &fetchSource{items: []string{"a"}}
	hub := changefeed.NewHub(zerolog.Nop())
	go hub.Run()

	m := New(source.fetch, hub, changefeed.Filter{}, zerolog.Nop())
	require.NoError(t, m.Start(context.Background()))

	m.Close()
	m.Close()
}
