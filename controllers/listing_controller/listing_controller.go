package listing_controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/travelapp/logger"
	"github.com/joy095/travelapp/middlewares/auth"
	"github.com/joy095/travelapp/models/listing_models"
	"github.com/joy095/travelapp/models/review_models"
	"github.com/joy095/travelapp/utils"
)

// ListingStore is the subset of listing operations the controller needs.
type ListingStore interface {
	Create(ctx context.Context, listing *listing_models.Listing) (*listing_models.Listing, error)
	GetByID(ctx context.Context, listingID uuid.UUID) (*listing_models.Listing, error)
	List(ctx context.Context, status string, page, limit int) ([]listing_models.Listing, int, error)
	UpdateStatus(ctx context.Context, listingID uuid.UUID, status string) error
}

// ReviewStore is the subset of review operations the controller needs.
type ReviewStore interface {
	Create(ctx context.Context, review *review_models.Review) (*review_models.Review, error)
	ListByListing(ctx context.Context, listingID uuid.UUID) ([]review_models.Review, error)
}

// ListingController handles listing catalogue CRUD and listing reviews.
type ListingController struct {
	Listings ListingStore
	Reviews  ReviewStore
}

// NewListingController creates a listing controller backed by pgx stores.
func NewListingController(db *pgxpool.Pool) *ListingController {
	return &ListingController{
		Listings: listing_models.NewStore(db),
		Reviews:  review_models.NewStore(db),
	}
}

// CreateListingRequest is the payload for POST /api/listings.
type CreateListingRequest struct {
	Title         string  `json:"title" binding:"required"`
	Location      string  `json:"location" binding:"required"`
	Description   string  `json:"description"`
	PricePerNight float64 `json:"price_per_night" binding:"required,gte=0"`
	PropertyType  string  `json:"property_type" binding:"required"`
	MaxGuests     int     `json:"max_guests" binding:"required,gte=1"`
	Bedrooms      int     `json:"bedrooms" binding:"gte=0"`
	Bathrooms     int     `json:"bathrooms" binding:"gte=0"`
}

// CreateListing publishes a new listing owned by the authenticated host.
func (lc *ListingController) CreateListing(c *gin.Context) {
	hostID, err := uuid.Parse(c.GetString(auth.ContextGuestID))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	listing, err := listing_models.NewListing(hostID, req.Title, req.Location, req.Description,
		req.PropertyType, req.PricePerNight, req.MaxGuests, req.Bedrooms, req.Bathrooms)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := lc.Listings.Create(c.Request.Context(), listing)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to create listing for host %s: %v", hostID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create listing"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"listing": created})
}

// GetListings lists listings with pagination and an optional status filter.
func (lc *ListingController) GetListings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	status := c.Query("status")

	listings, total, err := lc.Listings.List(c.Request.Context(), status, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch listings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listings": listings,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// GetListing returns a single listing by id.
func (lc *ListingController) GetListing(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("listing_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing id"})
		return
	}

	listing, err := lc.Listings.GetByID(c.Request.Context(), listingID)
	if err != nil {
		if errors.Is(err, utils.ErrListingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch listing"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"listing": listing})
}

// UpdateListingStatusRequest is the payload for PATCH /api/listings/:listing_id/status.
type UpdateListingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive pending suspended"`
}

// UpdateListingStatus changes a listing's availability. Only the owning
// host may do this.
func (lc *ListingController) UpdateListingStatus(c *gin.Context) {
	hostID, err := uuid.Parse(c.GetString(auth.ContextGuestID))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	listingID, err := uuid.Parse(c.Param("listing_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing id"})
		return
	}

	var req UpdateListingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()

	listing, err := lc.Listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, utils.ErrListingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch listing"})
		}
		return
	}

	if listing.HostID != hostID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the host can modify this listing"})
		return
	}

	if err := lc.Listings.UpdateStatus(ctx, listingID, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update listing"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

// CreateReviewRequest is the payload for POST /api/listings/:listing_id/reviews.
type CreateReviewRequest struct {
	Rating    int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment   string `json:"comment"`
	BookingID string `json:"booking_id" binding:"omitempty,uuid"`
}

// CreateReview records a guest's review for a listing.
func (lc *ListingController) CreateReview(c *gin.Context) {
	reviewerID, err := uuid.Parse(c.GetString(auth.ContextGuestID))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	listingID, err := uuid.Parse(c.Param("listing_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing id"})
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()

	if _, err := lc.Listings.GetByID(ctx, listingID); err != nil {
		if errors.Is(err, utils.ErrListingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch listing"})
		}
		return
	}

	var bookingID *uuid.UUID
	if req.BookingID != "" {
		id, err := uuid.Parse(req.BookingID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking_id"})
			return
		}
		bookingID = &id
	}

	review, err := review_models.NewReview(listingID, reviewerID, bookingID, req.Rating, req.Comment)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := lc.Reviews.Create(ctx, review)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create review"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": created})
}

// GetReviews lists a listing's reviews, newest first.
func (lc *ListingController) GetReviews(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("listing_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing id"})
		return
	}

	reviews, err := lc.Reviews.ListByListing(c.Request.Context(), listingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}
