package payment_models

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps the pgx-backed payment operations behind a value that
// controllers can depend on through narrow interfaces.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, payment *Payment) (*Payment, error) {
	return CreatePayment(ctx, s.DB, payment)
}

func (s *Store) GetByTxRef(ctx context.Context, txRef string) (*Payment, error) {
	return GetPaymentByTxRef(ctx, s.DB, txRef)
}

func (s *Store) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]Payment, error) {
	return GetPaymentsByBooking(ctx, s.DB, bookingID)
}

func (s *Store) MarkCompletedIfPending(ctx context.Context, txRef string) (bool, error) {
	return MarkCompletedIfPending(ctx, s.DB, txRef)
}

func (s *Store) MarkFailedIfPending(ctx context.Context, txRef string) (bool, error) {
	return MarkFailedIfPending(ctx, s.DB, txRef)
}
