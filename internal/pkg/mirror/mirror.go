// Package mirror holds local, disposable, re-fetchable copies of externally
// owned collections. A mirror loads the full collection once, then replaces
// it wholesale whenever a matching change event arrives on the feed. It never
// patches incrementally.
package mirror

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ateliercucina/backend/internal/pkg/changefeed"
)

// FetchFunc loads the full, ordered collection from its source of truth.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Mirror keeps a snapshot of a collection in sync with a change feed.
type Mirror[T any] struct {
	fetch   FetchFunc[T]
	hub     *changefeed.Hub
	filter  changefeed.Filter
	timeout time.Duration
	logger  zerolog.Logger

	mu       sync.RWMutex
	snapshot []T

	events chan changefeed.Event
	done   chan struct{}
	once   sync.Once
}

// New creates a mirror for the collection returned by fetch, refreshed on
// events matching filter.
func New[T any](fetch FetchFunc[T], hub *changefeed.Hub, filter changefeed.Filter, logger zerolog.Logger) *Mirror[T] {
	return &Mirror[T]{
		fetch:   fetch,
		hub:     hub,
		filter:  filter,
		timeout: 10 * time.Second,
		logger:  logger,
		events:  make(chan changefeed.Event, 16),
		done:    make(chan struct{}),
	}
}

// Start performs the initial load and begins consuming change events.
// The initial load error is returned; later refetch errors are logged and
// the previous snapshot stays in place.
func (m *Mirror[T]) Start(ctx context.Context) error {
	items, err := m.fetch(ctx)
	if err != nil {
		return err
	}
	m.apply(items)

	m.hub.AddListener(m.events)
	go m.loop()
	return nil
}

// Snapshot returns the current copy of the collection. The returned slice
// must not be mutated by callers.
func (m *Mirror[T]) Snapshot() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// Close releases the feed subscription. It is idempotent and safe to call
// from any exit path; a refetch still in flight will have its result
// discarded instead of being applied to a closed mirror.
func (m *Mirror[T]) Close() {
	m.once.Do(func() {
		m.hub.RemoveListener(m.events)
		close(m.done)
	})
}

func (m *Mirror[T]) loop() {
	for {
		select {
		case <-m.done:
			return
		case event := <-m.events:
			if !m.filter.Matches(event) {
				continue
			}
			m.refetch()
		}
	}
}

func (m *Mirror[T]) refetch() {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	items, err := m.fetch(ctx)
	if err != nil {
		m.logger.Error().Err(err).Str("table", m.filter.Table).Msg("Mirror refetch failed, keeping previous snapshot")
		return
	}

	// Liveness guard: the fetch may outlive a Close
	select {
	case <-m.done:
		return
	default:
	}

	m.apply(items)
}

func (m *Mirror[T]) apply(items []T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	select {
	case <-m.done:
		// Closed while waiting for the lock; drop the late result
		return
	default:
	}
	m.snapshot = items
}
