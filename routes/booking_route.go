package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/travelapp/clients"
	"github.com/joy095/travelapp/config/db"
	"github.com/joy095/travelapp/controllers/booking_controller"
	middleware "github.com/joy095/travelapp/middlewares"
	"github.com/joy095/travelapp/middlewares/auth"
	"github.com/joy095/travelapp/utils/mail"
)

// RegisterBookingRoutes registers booking creation and retrieval routes.
func RegisterBookingRoutes(router *gin.Engine, gateway clients.ChapaClientWrapper, notifier mail.Notifier) {
	bookingController := booking_controller.NewBookingController(db.DB, gateway, notifier)

	// Protected routes - require authentication
	protected := router.Group("/api/bookings")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("",
			middleware.NewRateLimiter("10-1m", "create-booking"),
			bookingController.CreateBooking)

		protected.GET("",
			middleware.NewRateLimiter("30-1m", "list-bookings"),
			bookingController.GetBookings)

		protected.GET("/:booking_id", bookingController.GetBooking)
	}
}
