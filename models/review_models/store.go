package review_models

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps the pgx-backed review operations behind a value that
// controllers can depend on through narrow interfaces.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, review *Review) (*Review, error) {
	return CreateReview(ctx, s.DB, review)
}

func (s *Store) ListByListing(ctx context.Context, listingID uuid.UUID) ([]Review, error) {
	return GetReviewsByListing(ctx, s.DB, listingID)
}
