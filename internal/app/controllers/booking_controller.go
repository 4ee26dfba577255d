package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ateliercucina/backend/internal/app/models/dto"
	"github.com/ateliercucina/backend/internal/app/services"
	"github.com/ateliercucina/backend/internal/middleware"
)

// BookingController handles the booking workflow and the admin booking views
type BookingController struct {
	bookingService *services.BookingService
}

// NewBookingController creates a new BookingController
func NewBookingController(bookingService *services.BookingService) *BookingController {
	return &BookingController{
		bookingService: bookingService,
	}
}

// CreateBooking books a seat on a course for the caller
// @Summary Book a course
// @Description Books a seat when one is available, otherwise joins the waitlist. Returns the created booking together with the caller's refreshed booking list.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBookingRequest true "Course to book"
// @Success 201 {object} dto.APIResponse{data=dto.BookingCreatedResponse} "Booking created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Course already booked by this user"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /bookings [post]
func (c *BookingController) CreateBooking(ctx *gin.Context) {
	var req dto.CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid booking data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	// Binding already validated the uuid format
	courseID := uuid.MustParse(req.CourseID)
	userID := ctx.MustGet(middleware.ContextUserID).(uuid.UUID)

	booking, bookings, err := c.bookingService.CreateBooking(ctx, userID, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: dto.BookingCreatedResponse{
			Booking:  booking,
			Bookings: bookings,
		},
		Timestamp: time.Now(),
	})
}

// GetMyBookings returns the caller's bookings
// @Summary List my bookings
// @Description Returns the caller's bookings with embedded courses, newest first
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Booking} "Bookings retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /bookings [get]
func (c *BookingController) GetMyBookings(ctx *gin.Context) {
	userID := ctx.MustGet(middleware.ContextUserID).(uuid.UUID)

	bookings, err := c.bookingService.GetUserBookings(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      bookings,
		Timestamp: time.Now(),
	})
}

// GetCourseBookings returns a course's bookings for the admin console
// @Summary List course bookings
// @Description Returns a course's bookings partitioned into confirmed, waitlist and cancelled buckets. Waitlist keeps first-come-first-served order.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseBookingsResponse} "Bookings retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/courses/{id}/bookings [get]
func (c *BookingController) GetCourseBookings(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	bookings, err := c.bookingService.GetCourseBookings(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      bookings,
		Timestamp: time.Now(),
	})
}

// UpdateBookingStatus applies an admin status transition
// @Summary Update booking status
// @Description Sets a booking's status and keeps the course seat counter consistent. Waitlisted bookings are not promoted automatically when a seat frees up.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateBookingStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=dto.BookingStatusUpdateResponse} "Status updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 404 {object} dto.ErrorResponse "Booking not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/bookings/{id}/status [patch]
func (c *BookingController) UpdateBookingStatus(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateBookingStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid status data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	booking, bookings, err := c.bookingService.UpdateBookingStatus(ctx, id, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.BookingStatusUpdateResponse{
			Booking:  booking,
			Bookings: *bookings,
		},
		Timestamp: time.Now(),
	})
}
