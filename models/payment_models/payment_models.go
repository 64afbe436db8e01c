package payment_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/travelapp/logger"
	"github.com/joy095/travelapp/utils"
)

// Payment statuses
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
	StatusCancelled = "cancelled"
)

// MethodChapa is the payment method tag for gateway payments.
const MethodChapa = "chapa"

// Payment is the local record tracking one attempt to collect payment for
// a booking through the external gateway. A booking may have multiple
// attempts; the transaction reference is the correlation key between this
// row and the gateway's record.
type Payment struct {
	ID             uuid.UUID `json:"id"`
	BookingID      uuid.UUID `json:"booking_id"`
	Amount         float64   `json:"amount"`
	TransactionRef *string   `json:"transaction_ref"`
	Status         string    `json:"status"`
	PaymentMethod  string    `json:"payment_method"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewPayment creates a new Payment struct. The transaction reference is
// recorded even for failed initiation attempts so later retries stay
// correlatable.
func NewPayment(bookingID uuid.UUID, amount float64, txRef, status string) (*Payment, error) {
	if amount < 0 {
		return nil, fmt.Errorf("payment amount must be non-negative")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for payment: %w", err)
	}

	var ref *string
	if txRef != "" {
		ref = &txRef
	}

	now := time.Now()
	return &Payment{
		ID:             id,
		BookingID:      bookingID,
		Amount:         amount,
		TransactionRef: ref,
		Status:         status,
		PaymentMethod:  MethodChapa,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// CreatePayment inserts a new payment record into the database.
func CreatePayment(ctx context.Context, db *pgxpool.Pool, payment *Payment) (*Payment, error) {
	logger.InfoLogger.Infof("Attempting to create payment record for booking %s", payment.BookingID)

	query := `
		INSERT INTO payments (
			id, booking_id, amount, transaction_ref, status, payment_method, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id`

	var insertedID uuid.UUID
	err := db.QueryRow(ctx, query,
		payment.ID, payment.BookingID, payment.Amount, payment.TransactionRef,
		payment.Status, payment.PaymentMethod, payment.CreatedAt, payment.UpdatedAt,
	).Scan(&insertedID)

	if err != nil {
		logger.ErrorLogger.Errorf("Failed to insert payment for booking %s: %v", payment.BookingID, err)
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	payment.ID = insertedID
	logger.InfoLogger.Infof("Payment %s created with status %s for booking %s", payment.ID, payment.Status, payment.BookingID)
	return payment, nil
}

// GetPaymentByTxRef fetches a payment record by its transaction reference.
func GetPaymentByTxRef(ctx context.Context, db *pgxpool.Pool, txRef string) (*Payment, error) {
	payment := &Payment{}
	query := `
		SELECT id, booking_id, amount, transaction_ref, status, payment_method, created_at, updated_at
		FROM payments
		WHERE transaction_ref = $1`

	err := db.QueryRow(ctx, query, txRef).Scan(
		&payment.ID, &payment.BookingID, &payment.Amount, &payment.TransactionRef,
		&payment.Status, &payment.PaymentMethod, &payment.CreatedAt, &payment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.WarnLogger.Warnf("Payment with transaction ref %s not found", txRef)
			return nil, utils.ErrPaymentNotFound
		}
		logger.ErrorLogger.Errorf("Failed to fetch payment by transaction ref %s: %v", txRef, err)
		return nil, fmt.Errorf("database error fetching payment: %w", err)
	}

	return payment, nil
}

// GetPaymentsByBooking retrieves all payment attempts for a booking, newest first.
func GetPaymentsByBooking(ctx context.Context, db *pgxpool.Pool, bookingID uuid.UUID) ([]Payment, error) {
	query := `
		SELECT id, booking_id, amount, transaction_ref, status, payment_method, created_at, updated_at
		FROM payments
		WHERE booking_id = $1
		ORDER BY created_at DESC`

	rows, err := db.Query(ctx, query, bookingID)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to fetch payments for booking %s: %v", bookingID, err)
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var payment Payment
		err := rows.Scan(
			&payment.ID, &payment.BookingID, &payment.Amount, &payment.TransactionRef,
			&payment.Status, &payment.PaymentMethod, &payment.CreatedAt, &payment.UpdatedAt,
		)
		if err != nil {
			logger.ErrorLogger.Errorf("Failed to scan payment row: %v", err)
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}

	return payments, nil
}

// MarkCompletedIfPending transitions a payment to completed only if it is
// still pending. The single conditional UPDATE is what keeps concurrent
// verify calls from double-notifying: only the caller that actually flipped
// the row sees transitioned=true.
func MarkCompletedIfPending(ctx context.Context, db *pgxpool.Pool, txRef string) (bool, error) {
	return markStatusIfPending(ctx, db, txRef, StatusCompleted)
}

// MarkFailedIfPending transitions a payment to failed only if it is still
// pending. Terminal statuses are never overwritten.
func MarkFailedIfPending(ctx context.Context, db *pgxpool.Pool, txRef string) (bool, error) {
	return markStatusIfPending(ctx, db, txRef, StatusFailed)
}

func markStatusIfPending(ctx context.Context, db *pgxpool.Pool, txRef, status string) (bool, error) {
	query := `
		UPDATE payments
		SET status = $2, updated_at = $3
		WHERE transaction_ref = $1 AND status = 'pending'`

	cmdTag, err := db.Exec(ctx, query, txRef, status, time.Now())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to transition payment %s to %s: %v", txRef, status, err)
		return false, fmt.Errorf("failed to update payment status: %w", err)
	}

	transitioned := cmdTag.RowsAffected() > 0
	if transitioned {
		logger.InfoLogger.Infof("Payment %s transitioned to %s", txRef, status)
	} else {
		logger.InfoLogger.Infof("Payment %s already in a terminal state, no transition to %s", txRef, status)
	}
	return transitioned, nil
}
