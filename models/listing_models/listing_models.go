package listing_models

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

// Listing statuses
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusPending   = "pending"
	StatusSuspended = "suspended"
)

// Listing represents a bookable property published by a host.
type Listing struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	HostID        uuid.UUID `json:"host_id"`
	Location      string    `json:"location"`
	Description   string    `json:"description"`
	PricePerNight float64   `json:"price_per_night"`
	PropertyType  string    `json:"property_type"`
	Status        string    `json:"status"`
	MaxGuests     int       `json:"max_guests"`
	Bedrooms      int       `json:"bedrooms"`
	Bathrooms     int       `json:"bathrooms"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewListing creates a new Listing struct.
func NewListing(hostID uuid.UUID, title, location, description, propertyType string, pricePerNight float64, maxGuests, bedrooms, bathrooms int) (*Listing, error) {
	if pricePerNight < 0 {
		return nil, fmt.Errorf("price per night must be non-negative")
	}
	if maxGuests < 1 {
		return nil, fmt.Errorf("max guests must be at least 1")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for listing: %w", err)
	}
	now := time.Now()
	return &Listing{
		ID:            id,
		Title:         title,
		HostID:        hostID,
		Location:      location,
		Description:   description,
		PricePerNight: pricePerNight,
		PropertyType:  propertyType,
		Status:        StatusActive,
		MaxGuests:     maxGuests,
		Bedrooms:      bedrooms,
		Bathrooms:     bathrooms,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// CreateListing inserts a new listing record into the database.
func CreateListing(ctx context.Context, db *pgxpool.Pool, listing *Listing) (*Listing, error) {
	logger.InfoLogger.Infof("Attempting to create listing '%s' for host %s", listing.Title, listing.HostID)

	query := `
		INSERT INTO listings (
			id, title, host_id, location, description, price_per_night,
			property_type, status, max_guests, bedrooms, bathrooms, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		) RETURNING id`

	var insertedID uuid.UUID
	err := db.QueryRow(ctx, query,
		listing.ID, listing.Title, listing.HostID, listing.Location, listing.Description,
		listing.PricePerNight, listing.PropertyType, listing.Status,
		listing.MaxGuests, listing.Bedrooms, listing.Bathrooms,
		listing.CreatedAt, listing.UpdatedAt,
	).Scan(&insertedID)

	if err != nil {
		logger.ErrorLogger.Errorf("Failed to insert listing '%s': %v", listing.Title, err)
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	listing.ID = insertedID
	logger.InfoLogger.Infof("Listing %s created successfully", listing.ID)
	return listing, nil
}

// GetListingByID fetches a listing record by its ID.
func GetListingByID(ctx context.Context, db *pgxpool.Pool, listingID uuid.UUID) (*Listing, error) {
	listing := &Listing{}
	query := `
		SELECT id, title, host_id, location, description, price_per_night,
		       property_type, status, max_guests, bedrooms, bathrooms, created_at, updated_at
		FROM listings
		WHERE id = $1`

	err := db.QueryRow(ctx, query, listingID).Scan(
		&listing.ID, &listing.Title, &listing.HostID, &listing.Location, &listing.Description,
		&listing.PricePerNight, &listing.PropertyType, &listing.Status,
		&listing.MaxGuests, &listing.Bedrooms, &listing.Bathrooms,
		&listing.CreatedAt, &listing.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.WarnLogger.Warnf("Listing with ID %s not found", listingID)
			return nil, utils.ErrListingNotFound
		}
		logger.ErrorLogger.Errorf("Failed to fetch listing %s: %v", listingID, err)
		return nil, fmt.Errorf("database error fetching listing: %w", err)
	}

	return listing, nil
}

// GetAllListings retrieves listings with pagination and an optional status filter.
func GetAllListings(ctx context.Context, db *pgxpool.Pool, status string, page, limit int) ([]Listing, int, error) {
	offset := (page - 1) * limit
	var listings []Listing
	var totalCount int

	baseQuery := `
		SELECT id, title, host_id, location, description, price_per_night,
		       property_type, status, max_guests, bedrooms, bathrooms, created_at, updated_at
		FROM listings
	`
	countQuery := `SELECT COUNT(*) FROM listings`

	var query string
	var args []interface{}

	if status != "" {
		baseQuery += " WHERE status = $1"
		countQuery += " WHERE status = $1"
		args = append(args, status)
		query = baseQuery + " ORDER BY created_at DESC LIMIT $2 OFFSET $3"
		args = append(args, limit, offset)
	} else {
		query = baseQuery + " ORDER BY created_at DESC LIMIT $1 OFFSET $2"
		args = append(args, limit, offset)
	}

	err := db.QueryRow(ctx, countQuery, args[:len(args)-2]...).Scan(&totalCount)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to get listing count: %v", err)
		return nil, 0, fmt.Errorf("failed to get listing count: %w", err)
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to fetch listings: %v", err)
		return nil, 0, fmt.Errorf("failed to fetch listings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var listing Listing
		err := rows.Scan(
			&listing.ID, &listing.Title, &listing.HostID, &listing.Location, &listing.Description,
			&listing.PricePerNight, &listing.PropertyType, &listing.Status,
			&listing.MaxGuests, &listing.Bedrooms, &listing.Bathrooms,
			&listing.CreatedAt, &listing.UpdatedAt,
		)
		if err != nil {
			logger.ErrorLogger.Errorf("Failed to scan listing row: %v", err)
			return nil, 0, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, listing)
	}

	logger.InfoLogger.Infof("Fetched %d listings (total: %d)", len(listings), totalCount)
	return listings, totalCount, nil
}

// UpdateListingStatus updates the status of a listing.
func UpdateListingStatus(ctx context.Context, db *pgxpool.Pool, listingID uuid.UUID, status string) error {
	query := `
		UPDATE listings
		SET status = $2, updated_at = $3
		WHERE id = $1`

	cmdTag, err := db.Exec(ctx, query, listingID, status, time.Now())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to update listing %s status: %v", listingID, err)
		return fmt.Errorf("failed to update listing status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return utils.ErrListingNotFound
	}

	logger.InfoLogger.Infof("Listing %s status updated to %s", listingID, status)
	return nil
}
