package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ateliercucina/backend/internal/app/controllers"
	"github.com/ateliercucina/backend/internal/app/models"
	"github.com/ateliercucina/backend/internal/middleware"
	"github.com/ateliercucina/backend/internal/pkg/changefeed"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	bookingController *controllers.BookingController,
	changeFeedHandler *changefeed.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public catalogue routes ---
	courses := v1.Group("/courses")
	{
		courses.GET("", courseController.ListCourses)
		courses.GET("/:id", courseController.GetCourse)
	}

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.GetMe)

		bookings := authenticated.Group("/bookings")
		{
			bookings.POST("", bookingController.CreateBooking)
			bookings.GET("", bookingController.GetMyBookings)
		}

		// Live change feed (websocket). Non-admins are restricted to their
		// own booking events inside the handler.
		authenticated.GET("/changes/ws", changeFeedHandler.HandleConnection)
	}

	// --- Admin routes ---
	admin := authenticated.Group("/admin")
	admin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
	{
		adminCourses := admin.Group("/courses")
		{
			adminCourses.POST("", courseController.CreateCourse)
			adminCourses.PUT("/:id", courseController.UpdateCourse)
			adminCourses.DELETE("/:id", courseController.DeleteCourse)
			adminCourses.GET("/:id/bookings", bookingController.GetCourseBookings)
		}

		admin.PATCH("/bookings/:id/status", bookingController.UpdateBookingStatus)
	}
}
