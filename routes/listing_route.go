package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/travelapp/config/db"
	"github.com/joy095/travelapp/controllers/listing_controller"
	"github.com/joy095/travelapp/middlewares/auth"
)

// RegisterListingRoutes registers listing catalogue and review routes.
func RegisterListingRoutes(router *gin.Engine) {
	listingController := listing_controller.NewListingController(db.DB)

	// Public routes
	public := router.Group("/api/listings")
	{
		public.GET("", listingController.GetListings)
		public.GET("/:listing_id", listingController.GetListing)
		public.GET("/:listing_id/reviews", listingController.GetReviews)
	}

	// Protected routes
	protected := router.Group("/api/listings")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("", listingController.CreateListing)
		protected.PATCH("/:listing_id/status", listingController.UpdateListingStatus)
		protected.POST("/:listing_id/reviews", listingController.CreateReview)
	}
}
