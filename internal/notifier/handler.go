package notifier

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ateliercucina/backend/internal/app/models"
	"github.com/ateliercucina/backend/internal/pkg/apperrors"
)

// Handler exposes the notifier service over HTTP
type Handler struct {
	service *Service
	logger  zerolog.Logger
}

// NewHandler creates a new notifier handler
func NewHandler(service *Service, logger zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

type notificationRequest struct {
	CourseID string `json:"courseId" binding:"required,uuid"`
	UserID   string `json:"userId" binding:"required,uuid"`
	Status   string `json:"status"`
}

// Register mounts the notifier routes on the router
func (h *Handler) Register(router *gin.Engine) {
	router.POST("/send-booking-notification", h.SendBookingNotification)
	router.POST("/send-booking-confirmation", h.SendBookingConfirmation)
}

// SendBookingNotification handles POST /send-booking-notification
func (h *Handler) SendBookingNotification(c *gin.Context) {
	req, ok := h.parse(c)
	if !ok {
		return
	}

	status := models.BookingStatus(req.Status)
	if status == "" {
		status = models.StatusConfirmed
	}
	if !models.ValidBookingStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown booking status"})
		return
	}

	courseID := uuid.MustParse(req.CourseID)
	userID := uuid.MustParse(req.UserID)

	if err := h.service.SendBookingNotification(c.Request.Context(), courseID, userID, status); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification envoyée"})
}

// SendBookingConfirmation handles POST /send-booking-confirmation
func (h *Handler) SendBookingConfirmation(c *gin.Context) {
	req, ok := h.parse(c)
	if !ok {
		return
	}

	courseID := uuid.MustParse(req.CourseID)
	userID := uuid.MustParse(req.UserID)

	if err := h.service.SendBookingConfirmation(c.Request.Context(), courseID, userID); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Confirmation envoyée"})
}

func (h *Handler) parse(c *gin.Context) (*notificationRequest, bool) {
	var req notificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "courseId and userId are required"})
		return nil, false
	}
	return &req, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrCourseNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Cours non trouvé"})
	case errors.Is(err, apperrors.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Profil non trouvé"})
	default:
		h.logger.Error().Err(err).Msg("Notification failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "notification failed"})
	}
}
