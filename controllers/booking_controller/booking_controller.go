package booking_controller

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/travelapp/clients"
	"github.com/joy095/travelapp/logger"
	"github.com/joy095/travelapp/middlewares/auth"
	"github.com/joy095/travelapp/models/booking_models"
	"github.com/joy095/travelapp/models/listing_models"
	"github.com/joy095/travelapp/models/payment_models"
	"github.com/joy095/travelapp/utils"
	"github.com/joy095/travelapp/utils/mail"
)

const dateLayout = "2006-01-02"

// ListingStore is the subset of listing operations the controller needs.
type ListingStore interface {
	GetByID(ctx context.Context, listingID uuid.UUID) (*listing_models.Listing, error)
}

// BookingStore is the subset of booking operations the controller needs.
type BookingStore interface {
	Create(ctx context.Context, booking *booking_models.Booking) (*booking_models.Booking, error)
	GetByID(ctx context.Context, bookingID uuid.UUID) (*booking_models.Booking, error)
	ListByGuest(ctx context.Context, guestID uuid.UUID, status string, page, limit int) ([]booking_models.Booking, int, error)
}

// PaymentStore is the subset of payment operations the controller needs.
type PaymentStore interface {
	Create(ctx context.Context, payment *payment_models.Payment) (*payment_models.Payment, error)
}

// BookingController orchestrates booking creation: persist the booking,
// fire the confirmation email, initiate the gateway transaction and record
// the payment attempt.
type BookingController struct {
	Listings ListingStore
	Bookings BookingStore
	Payments PaymentStore
	Gateway  clients.ChapaClientWrapper
	Notifier mail.Notifier

	CallbackURL string
	Currency    string
}

// NewBookingController creates a booking controller backed by pgx stores.
func NewBookingController(db *pgxpool.Pool, gateway clients.ChapaClientWrapper, notifier mail.Notifier) *BookingController {
	currency := os.Getenv("PAYMENT_CURRENCY")
	if currency == "" {
		currency = "ETB"
	}

	return &BookingController{
		Listings:    listing_models.NewStore(db),
		Bookings:    booking_models.NewStore(db),
		Payments:    payment_models.NewStore(db),
		Gateway:     gateway,
		Notifier:    notifier,
		CallbackURL: os.Getenv("CALLBACK_BASE_URL") + "/api/payments/verify",
		Currency:    currency,
	}
}

// CreateBookingRequest is the payload for POST /api/bookings.
type CreateBookingRequest struct {
	ListingID   string `json:"listing_id" binding:"required,uuid"`
	CheckIn     string `json:"check_in" binding:"required"`
	CheckOut    string `json:"check_out" binding:"required"`
	GuestsCount int    `json:"guests_count" binding:"required,gte=1"`
}

// CreateBooking persists a booking and initiates payment for it. The
// booking succeeds independent of gateway availability: a gateway failure
// is absorbed into a failed payment record, never a failed request.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	guestID, guestEmail, firstName, lastName, ok := guestFromContext(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing_id"})
		return
	}

	checkIn, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check_in date, expected YYYY-MM-DD"})
		return
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check_out date, expected YYYY-MM-DD"})
		return
	}

	ctx := c.Request.Context()

	listing, err := bc.Listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, utils.ErrListingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch listing"})
		}
		return
	}

	if listing.Status != listing_models.StatusActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "listing is not available for booking"})
		return
	}

	booking, err := booking_models.NewBooking(listing, guestID, guestEmail, firstName, lastName, checkIn, checkOut, req.GuestsCount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	createdBooking, err := bc.Bookings.Create(ctx, booking)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to save booking for listing %s: %v", listingID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create booking"})
		return
	}

	// Booking confirmation goes out regardless of how payment initiation
	// ends up; it only confirms the reservation was recorded.
	bc.Notifier.SendBookingConfirmation(createdBooking.ID, createdBooking.GuestEmail)

	payment, checkoutURL := bc.initiatePayment(ctx, createdBooking, createdBooking.TotalPrice)
	if payment == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record payment attempt"})
		return
	}

	resp := gin.H{
		"booking": createdBooking,
		"payment": payment,
	}
	if checkoutURL != "" {
		resp["checkout_url"] = checkoutURL
	} else {
		resp["checkout_url"] = nil
	}

	c.JSON(http.StatusCreated, resp)
}

// initiatePayment generates a transaction reference, calls the gateway and
// persists the payment attempt. The reference is kept on the record even
// when the gateway call fails, so the attempt stays correlatable. Returns
// a nil payment only when persisting the record itself failed.
func (bc *BookingController) initiatePayment(ctx context.Context, booking *booking_models.Booking, amount float64) (*payment_models.Payment, string) {
	txRef := utils.GenerateTxRef(booking.ID)

	initResp, err := bc.Gateway.Initialize(ctx, &clients.InitializeRequest{
		Amount:      amount,
		Currency:    bc.Currency,
		Email:       booking.GuestEmail,
		FirstName:   booking.GuestFirstName,
		LastName:    booking.GuestLastName,
		TxRef:       txRef,
		CallbackURL: bc.CallbackURL,
	})

	var payment *payment_models.Payment
	var checkoutURL string

	if err != nil {
		logger.ErrorLogger.Errorf("Gateway initialize failed for booking %s (tx_ref %s): %v", booking.ID, txRef, err)
		payment, err = payment_models.NewPayment(booking.ID, amount, txRef, payment_models.StatusFailed)
	} else {
		checkoutURL = initResp.CheckoutURL
		payment, err = payment_models.NewPayment(booking.ID, amount, initResp.TxRef, payment_models.StatusPending)
	}
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to build payment record for booking %s: %v", booking.ID, err)
		return nil, ""
	}

	created, err := bc.Payments.Create(ctx, payment)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to save payment record for booking %s: %v", booking.ID, err)
		return nil, ""
	}

	return created, checkoutURL
}

// GetBooking returns a single booking by id.
func (bc *BookingController) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	booking, err := bc.Bookings.GetByID(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, utils.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch booking"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// GetBookings lists the authenticated guest's bookings with pagination and
// an optional status filter.
func (bc *BookingController) GetBookings(c *gin.Context) {
	guestID, _, _, _, ok := guestFromContext(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	status := c.Query("status")

	bookings, total, err := bc.Bookings.ListByGuest(c.Request.Context(), guestID, status, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// guestFromContext reads the identity claims set by the auth middleware.
// Aborts with 401 when the guest id is missing or malformed.
func guestFromContext(c *gin.Context) (uuid.UUID, string, string, string, bool) {
	guestIDStr := c.GetString(auth.ContextGuestID)
	guestID, err := uuid.Parse(guestIDStr)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, "", "", "", false
	}

	return guestID,
		c.GetString(auth.ContextGuestEmail),
		c.GetString(auth.ContextGuestFirstName),
		c.GetString(auth.ContextGuestLastName),
		true
}
