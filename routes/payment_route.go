package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/travelapp/clients"
	"github.com/joy095/travelapp/config/db"
	"github.com/joy095/travelapp/controllers/payment_controller"
	middleware "github.com/joy095/travelapp/middlewares"
	"github.com/joy095/travelapp/middlewares/auth"
	"github.com/joy095/travelapp/utils/mail"
)

// RegisterPaymentRoutes registers payment verification and initiation routes.
func RegisterPaymentRoutes(router *gin.Engine, gateway clients.ChapaClientWrapper, notifier mail.Notifier) {
	paymentController := payment_controller.NewPaymentController(db.DB, gateway, notifier)

	// The gateway redirects browsers here after checkout, so the callback
	// stays public. The handler trusts nothing in the request beyond the
	// reference and re-verifies against the gateway.
	router.GET("/api/payments/verify",
		middleware.NewRateLimiter("30-1m", "verify-payment"),
		paymentController.VerifyPayment)

	// Protected routes - require authentication
	protected := router.Group("/api")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("/payments/initiate",
			middleware.NewRateLimiter("10-1m", "initiate-payment"),
			paymentController.InitiatePayment)

		protected.GET("/bookings/:booking_id/payments", paymentController.GetBookingPayments)
	}
}
