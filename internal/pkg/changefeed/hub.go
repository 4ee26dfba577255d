package changefeed

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Hub maintains the set of active subscribers and fans change events out to
// them. Websocket clients receive events matching their filter; in-process
// listeners (mirrors) receive every event and apply their own matching.
type Hub struct {
	// Registered websocket clients
	clients map[*Client]bool

	// Channel for events to fan out
	events chan Event

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for concurrent access to the clients map
	mu sync.RWMutex

	// Mutex for in-process listeners
	listenersMu sync.RWMutex

	// In-process event listeners
	listeners []chan Event

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		events:     make(chan Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run starts the hub, handling client registrations and event fan-out.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.events:
			h.fanOut(event)
		}
	}
}

// Publish enqueues an event for delivery to all matching subscribers.
// It never blocks the caller: a full hub queue drops the event and logs,
// which observers tolerate because the next event triggers a full refetch.
func (h *Hub) Publish(event Event) {
	select {
	case h.events <- event:
	default:
		h.logger.Warn().
			Str("table", event.Table).
			Str("action", string(event.Action)).
			Msg("Change feed queue full, event dropped")
	}
}

// AddListener registers a channel to receive all events.
func (h *Hub) AddListener(listener chan Event) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	h.listeners = append(h.listeners, listener)
}

// RemoveListener removes an in-process listener from the hub.
func (h *Hub) RemoveListener(listener chan Event) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	for i, l := range h.listeners {
		if l == listener {
			h.listeners[i] = h.listeners[len(h.listeners)-1]
			h.listeners = h.listeners[:len(h.listeners)-1]
			break
		}
	}
}

// SubscriberCount returns the number of connected websocket clients.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	h.logger.Info().
		Str("table", client.filter.Table).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Change feed subscriber registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)

		h.logger.Info().
			Str("table", client.filter.Table).
			Str("addr", client.conn.RemoteAddr().String()).
			Msg("Change feed subscriber unregistered")
	}
}

func (h *Hub) fanOut(event Event) {
	h.notifyListeners(event)

	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.clients) == 0 {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("table", event.Table).Msg("Failed to marshal change event")
		return
	}

	var stale []*Client
	for client := range h.clients {
		if !client.filter.Matches(event) {
			continue
		}
		select {
		case client.send <- data:
		default:
			// Client's send buffer is full, they might be slow or disconnected
			stale = append(stale, client)
		}
	}

	for _, client := range stale {
		go func(c *Client) { h.unregister <- c }(client)
	}
}

func (h *Hub) notifyListeners(event Event) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, listener := range h.listeners {
		select {
		case listener <- event:
		default:
			h.logger.Warn().Msg("Skipped slow change feed listener")
		}
	}
}
