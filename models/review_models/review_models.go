package review_models

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/travelapp/logger"
)

// Review represents a guest's rating and comment for a listing.
type Review struct {
	ID         uuid.UUID  `json:"id"`
	ListingID  uuid.UUID  `json:"listing_id"`
	ReviewerID uuid.UUID  `json:"reviewer_id"`
	BookingID  *uuid.UUID `json:"booking_id,omitempty"`
	Rating     int        `json:"rating"`
	Comment    string     `json:"comment"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewReview creates a new Review struct. Rating must be between 1 and 5.
func NewReview(listingID, reviewerID uuid.UUID, bookingID *uuid.UUID, rating int, comment string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for review: %w", err)
	}
	now := time.Now()
	return &Review{
		ID:         id,
		ListingID:  listingID,
		ReviewerID: reviewerID,
		BookingID:  bookingID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// CreateReview inserts a new review record into the database.
func CreateReview(ctx context.Context, db *pgxpool.Pool, review *Review) (*Review, error) {
	query := `
		INSERT INTO reviews (
			id, listing_id, reviewer_id, booking_id, rating, comment, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id`

	var insertedID uuid.UUID
	err := db.QueryRow(ctx, query,
		review.ID, review.ListingID, review.ReviewerID, review.BookingID,
		review.Rating, review.Comment, review.CreatedAt, review.UpdatedAt,
	).Scan(&insertedID)

	if err != nil {
		logger.ErrorLogger.Errorf("Failed to insert review for listing %s: %v", review.ListingID, err)
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	review.ID = insertedID
	logger.InfoLogger.Infof("Review %s created for listing %s", review.ID, review.ListingID)
	return review, nil
}

// GetReviewsByListing retrieves reviews for a listing, newest first.
func GetReviewsByListing(ctx context.Context, db *pgxpool.Pool, listingID uuid.UUID) ([]Review, error) {
	query := `
		SELECT id, listing_id, reviewer_id, booking_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE listing_id = $1
		ORDER BY created_at DESC`

	rows, err := db.Query(ctx, query, listingID)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to fetch reviews for listing %s: %v", listingID, err)
		return nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var review Review
		err := rows.Scan(
			&review.ID, &review.ListingID, &review.ReviewerID, &review.BookingID,
			&review.Rating, &review.Comment, &review.CreatedAt, &review.UpdatedAt,
		)
		if err != nil {
			logger.ErrorLogger.Errorf("Failed to scan review row: %v", err)
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	return reviews, nil
}
