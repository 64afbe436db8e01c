package payment_controller

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/travelapp/clients"
	"github.com/joy095/travelapp/logger"
	"github.com/joy095/travelapp/models/booking_models"
	"github.com/joy095/travelapp/models/payment_models"
	"github.com/joy095/travelapp/utils"
	"github.com/joy095/travelapp/utils/mail"
)

// remote status reported by the gateway for a successful transaction
const remoteStatusSuccess = "success"

// BookingStore is the subset of booking operations the controller needs.
type BookingStore interface {
	GetByID(ctx context.Context, bookingID uuid.UUID) (*booking_models.Booking, error)
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status string) error
}

// PaymentStore is the subset of payment operations the controller needs.
type PaymentStore interface {
	Create(ctx context.Context, payment *payment_models.Payment) (*payment_models.Payment, error)
	GetByTxRef(ctx context.Context, txRef string) (*payment_models.Payment, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]payment_models.Payment, error)
	MarkCompletedIfPending(ctx context.Context, txRef string) (bool, error)
	MarkFailedIfPending(ctx context.Context, txRef string) (bool, error)
}

// PaymentController reconciles externally reported payment outcomes onto
// local payment records and handles manual payment initiation.
type PaymentController struct {
	Bookings BookingStore
	Payments PaymentStore
	Gateway  clients.ChapaClientWrapper
	Notifier mail.Notifier

	CallbackURL string
	Currency    string
}

// NewPaymentController creates a payment controller backed by pgx stores.
func NewPaymentController(db *pgxpool.Pool, gateway clients.ChapaClientWrapper, notifier mail.Notifier) *PaymentController {
	currency := os.Getenv("PAYMENT_CURRENCY")
	if currency == "" {
		currency = "ETB"
	}

	return &PaymentController{
		Bookings:    booking_models.NewStore(db),
		Payments:    payment_models.NewStore(db),
		Gateway:     gateway,
		Notifier:    notifier,
		CallbackURL: os.Getenv("CALLBACK_BASE_URL") + "/api/payments/verify",
		Currency:    currency,
	}
}

// VerifyPayment handles GET /api/payments/verify?tx_ref=...
//
// The gateway is always re-queried; the inbound reference alone proves
// nothing. A payment only ever moves out of pending through the single
// conditional write below, so concurrent verify calls for the same
// reference cannot double-notify: at most one caller observes the
// transition, and only that caller sends the confirmation email.
func (pc *PaymentController) VerifyPayment(c *gin.Context) {
	txRef := c.Query("tx_ref")
	if txRef == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tx_ref is required"})
		return
	}

	ctx := c.Request.Context()

	verifyResp, err := pc.Gateway.Verify(ctx, txRef)
	if err != nil {
		logger.ErrorLogger.Errorf("Gateway verify failed for tx_ref %s: %v", txRef, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to verify payment"})
		return
	}

	payment, err := pc.Payments.GetByTxRef(ctx, txRef)
	if err != nil {
		if errors.Is(err, utils.ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch payment"})
		}
		return
	}

	var localStatus string
	if verifyResp.Status == remoteStatusSuccess {
		transitioned, err := pc.Payments.MarkCompletedIfPending(ctx, txRef)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update payment"})
			return
		}

		if transitioned {
			localStatus = payment_models.StatusCompleted
			pc.confirmBooking(ctx, payment.BookingID)
		} else {
			// Already terminal; report the stored status without re-notifying.
			localStatus = payment.Status
		}
	} else {
		transitioned, err := pc.Payments.MarkFailedIfPending(ctx, txRef)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update payment"})
			return
		}

		if transitioned {
			localStatus = payment_models.StatusFailed
		} else {
			localStatus = payment.Status
		}
		logger.WarnLogger.Warnf("Gateway reported status %q for tx_ref %s", verifyResp.Status, txRef)
	}

	c.JSON(http.StatusOK, gin.H{"status": localStatus})
}

// confirmBooking marks the booking confirmed and enqueues the payment
// confirmation email. Called only by the verify path that actually
// transitioned the payment, so the notification fires exactly once.
func (pc *PaymentController) confirmBooking(ctx context.Context, bookingID uuid.UUID) {
	booking, err := pc.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		logger.ErrorLogger.Errorf("Payment completed but booking %s could not be fetched: %v", bookingID, err)
		return
	}

	if err := pc.Bookings.UpdateStatus(ctx, bookingID, booking_models.StatusConfirmed); err != nil {
		logger.ErrorLogger.Errorf("Failed to confirm booking %s after payment: %v", bookingID, err)
	}

	pc.Notifier.SendPaymentConfirmation(booking.ID, booking.GuestEmail)
}

// InitiatePaymentRequest is the payload for POST /api/payments/initiate.
type InitiatePaymentRequest struct {
	BookingID string  `json:"booking_id" binding:"required,uuid"`
	Amount    float64 `json:"amount" binding:"omitempty,gt=0"`
}

// InitiatePayment starts a fresh payment attempt for an existing booking.
// Unlike booking creation, a gateway failure here is surfaced to the
// caller, but the failed attempt is still recorded with its reference.
func (pc *PaymentController) InitiatePayment(c *gin.Context) {
	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking_id"})
		return
	}

	ctx := c.Request.Context()

	booking, err := pc.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, utils.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch booking"})
		}
		return
	}

	amount := req.Amount
	if amount == 0 {
		amount = booking.TotalPrice
	}

	txRef := utils.GenerateTxRef(booking.ID)

	initResp, err := pc.Gateway.Initialize(ctx, &clients.InitializeRequest{
		Amount:      amount,
		Currency:    pc.Currency,
		Email:       booking.GuestEmail,
		FirstName:   booking.GuestFirstName,
		LastName:    booking.GuestLastName,
		TxRef:       txRef,
		CallbackURL: pc.CallbackURL,
	})
	if err != nil {
		logger.ErrorLogger.Errorf("Gateway initialize failed for booking %s (tx_ref %s): %v", booking.ID, txRef, err)

		failed, buildErr := payment_models.NewPayment(booking.ID, amount, txRef, payment_models.StatusFailed)
		if buildErr == nil {
			if _, createErr := pc.Payments.Create(ctx, failed); createErr != nil {
				logger.ErrorLogger.Errorf("Failed to record failed payment attempt for booking %s: %v", booking.ID, createErr)
			}
		}

		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to initiate payment"})
		return
	}

	payment, err := payment_models.NewPayment(booking.ID, amount, initResp.TxRef, payment_models.StatusPending)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to prepare payment record"})
		return
	}

	created, err := pc.Payments.Create(ctx, payment)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record payment attempt"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"payment":      created,
		"checkout_url": initResp.CheckoutURL,
	})
}

// GetBookingPayments lists every payment attempt for a booking.
func (pc *PaymentController) GetBookingPayments(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	ctx := c.Request.Context()

	if _, err := pc.Bookings.GetByID(ctx, bookingID); err != nil {
		if errors.Is(err, utils.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch booking"})
		}
		return
	}

	payments, err := pc.Payments.ListByBooking(ctx, bookingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
