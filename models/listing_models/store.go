package listing_models

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps the pgx-backed listing operations behind a value that
// controllers can depend on through narrow interfaces.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, listing *Listing) (*Listing, error) {
	return CreateListing(ctx, s.DB, listing)
}

func (s *Store) GetByID(ctx context.Context, listingID uuid.UUID) (*Listing, error) {
	return GetListingByID(ctx, s.DB, listingID)
}

func (s *Store) List(ctx context.Context, status string, page, limit int) ([]Listing, int, error) {
	return GetAllListings(ctx, s.DB, status, page, limit)
}

func (s *Store) UpdateStatus(ctx context.Context, listingID uuid.UUID, status string) error {
	return UpdateListingStatus(ctx, s.DB, listingID, status)
}
