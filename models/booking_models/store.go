package booking_models

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps the pgx-backed booking operations behind a value that
// controllers can depend on through narrow interfaces.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, booking *Booking) (*Booking, error) {
	return CreateBooking(ctx, s.DB, booking)
}

func (s *Store) GetByID(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	return GetBookingByID(ctx, s.DB, bookingID)
}

func (s *Store) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status string) error {
	return UpdateBookingStatus(ctx, s.DB, bookingID, status)
}

func (s *Store) ListByGuest(ctx context.Context, guestID uuid.UUID, status string, page, limit int) ([]Booking, int, error) {
	return GetBookingsByGuest(ctx, s.DB, guestID, status, page, limit)
}
