package changefeed

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Handler upgrades authenticated HTTP requests to change feed subscriptions
type Handler struct {
	hub    *Hub
	logger zerolog.Logger
}

// NewHandler creates a new change feed handler
func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		logger: logger,
	}
}

// HandleConnection upgrades the HTTP connection to a websocket subscription.
// The filter comes from query parameters: table, courseId, userId. Subscribers
// on the bookings table may only filter by their own user id unless they are
// administrators.
func (h *Handler) HandleConnection(c *gin.Context) {
	filter := Filter{Table: c.Query("table")}

	switch filter.Table {
	case "", TableCourses, TableBookings, TableProfiles:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown table"})
		return
	}

	if raw := c.Query("courseId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid courseId"})
			return
		}
		filter.CourseID = &id
	}

	if raw := c.Query("userId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
			return
		}
		filter.UserID = &id
	}

	// Auth middleware put the caller identity in the context
	userIDValue, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	callerID, ok := userIDValue.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user ID format"})
		return
	}

	role, _ := c.Get("role")
	if filter.Table == TableBookings && role != "admin" {
		// Non-admins only see changes to their own bookings
		filter.UserID = &callerID
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade connection to websocket")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, 64),
		filter: filter,
		logger: h.logger,
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Str("table", filter.Table).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("Change feed subscription established")
}
