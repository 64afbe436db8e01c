package booking_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/travelapp/logger"
	"github.com/joy095/travelapp/models/listing_models"
	"github.com/joy095/travelapp/utils"
)

// Booking statuses
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Booking represents a guest's reservation of a listing for a date range.
// Total price is derived at creation time: nightly rate x nights x guests.
type Booking struct {
	ID             uuid.UUID `json:"id"`
	ListingID      uuid.UUID `json:"listing_id"`
	GuestID        uuid.UUID `json:"guest_id"`
	GuestEmail     string    `json:"guest_email"`
	GuestFirstName string    `json:"guest_first_name"`
	GuestLastName  string    `json:"guest_last_name"`
	CheckIn        time.Time `json:"check_in"`
	CheckOut       time.Time `json:"check_out"`
	GuestsCount    int       `json:"guests_count"`
	TotalPrice     float64   `json:"total_price"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Nights returns the number of nights between check-in and check-out.
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}

// NewBooking creates a new Booking struct, validating the date range and
// guest count against the listing and computing the total price.
func NewBooking(listing *listing_models.Listing, guestID uuid.UUID, guestEmail, guestFirstName, guestLastName string, checkIn, checkOut time.Time, guestsCount int) (*Booking, error) {
	nights := Nights(checkIn, checkOut)
	if nights < 1 {
		return nil, fmt.Errorf("check-out must be at least one day after check-in")
	}
	if guestsCount < 1 {
		return nil, fmt.Errorf("guests count must be at least 1")
	}
	if guestsCount > listing.MaxGuests {
		return nil, fmt.Errorf("guests count %d exceeds listing capacity of %d", guestsCount, listing.MaxGuests)
	}

	totalPrice := listing.PricePerNight * float64(nights) * float64(guestsCount)
	if totalPrice < 0 {
		return nil, fmt.Errorf("computed total price is negative")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for booking: %w", err)
	}
	now := time.Now()
	return &Booking{
		ID:             id,
		ListingID:      listing.ID,
		GuestID:        guestID,
		GuestEmail:     guestEmail,
		GuestFirstName: guestFirstName,
		GuestLastName:  guestLastName,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		GuestsCount:    guestsCount,
		TotalPrice:     totalPrice,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// CreateBooking inserts a new booking record into the database.
func CreateBooking(ctx context.Context, db *pgxpool.Pool, booking *Booking) (*Booking, error) {
	logger.InfoLogger.Infof("Attempting to create booking for listing %s, guest %s", booking.ListingID, booking.GuestID)

	query := `
		INSERT INTO bookings (
			id, listing_id, guest_id, guest_email, guest_first_name, guest_last_name,
			check_in, check_out, guests_count, total_price, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		) RETURNING id`

	var insertedID uuid.UUID
	err := db.QueryRow(ctx, query,
		booking.ID, booking.ListingID, booking.GuestID,
		booking.GuestEmail, booking.GuestFirstName, booking.GuestLastName,
		booking.CheckIn, booking.CheckOut, booking.GuestsCount, booking.TotalPrice,
		booking.Status, booking.CreatedAt, booking.UpdatedAt,
	).Scan(&insertedID)

	if err != nil {
		logger.ErrorLogger.Errorf("Failed to insert booking for listing %s: %v", booking.ListingID, err)
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	booking.ID = insertedID
	logger.InfoLogger.Infof("Booking %s created successfully for listing %s", booking.ID, booking.ListingID)
	return booking, nil
}

// GetBookingByID fetches a booking record by its ID.
func GetBookingByID(ctx context.Context, db *pgxpool.Pool, bookingID uuid.UUID) (*Booking, error) {
	booking := &Booking{}
	query := `
		SELECT id, listing_id, guest_id, guest_email, guest_first_name, guest_last_name,
		       check_in, check_out, guests_count, total_price, status, created_at, updated_at
		FROM bookings
		WHERE id = $1`

	err := db.QueryRow(ctx, query, bookingID).Scan(
		&booking.ID, &booking.ListingID, &booking.GuestID,
		&booking.GuestEmail, &booking.GuestFirstName, &booking.GuestLastName,
		&booking.CheckIn, &booking.CheckOut, &booking.GuestsCount, &booking.TotalPrice,
		&booking.Status, &booking.CreatedAt, &booking.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.WarnLogger.Warnf("Booking with ID %s not found", bookingID)
			return nil, utils.ErrBookingNotFound
		}
		logger.ErrorLogger.Errorf("Failed to fetch booking %s: %v", bookingID, err)
		return nil, fmt.Errorf("database error fetching booking: %w", err)
	}

	return booking, nil
}

// UpdateBookingStatus updates the status of a booking. Bookings are never
// deleted, only status-transitioned.
func UpdateBookingStatus(ctx context.Context, db *pgxpool.Pool, bookingID uuid.UUID, status string) error {
	logger.InfoLogger.Infof("Updating status for booking %s to %s", bookingID, status)

	query := `
		UPDATE bookings
		SET status = $2, updated_at = $3
		WHERE id = $1`

	cmdTag, err := db.Exec(ctx, query, bookingID, status, time.Now())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to update booking %s status: %v", bookingID, err)
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return utils.ErrBookingNotFound
	}

	logger.InfoLogger.Infof("Booking %s status updated to %s", bookingID, status)
	return nil
}

// GetBookingsByGuest retrieves bookings for a specific guest with pagination
// and an optional status filter.
func GetBookingsByGuest(ctx context.Context, db *pgxpool.Pool, guestID uuid.UUID, status string, page, limit int) ([]Booking, int, error) {
	offset := (page - 1) * limit
	var bookings []Booking
	var totalCount int

	baseQuery := `
		SELECT id, listing_id, guest_id, guest_email, guest_first_name, guest_last_name,
		       check_in, check_out, guests_count, total_price, status, created_at, updated_at
		FROM bookings
		WHERE guest_id = $1
	`
	countQuery := `SELECT COUNT(*) FROM bookings WHERE guest_id = $1`

	var query string
	args := []interface{}{guestID}

	if status != "" {
		baseQuery += " AND status = $2"
		countQuery += " AND status = $2"
		args = append(args, status)
		query = baseQuery + " ORDER BY created_at DESC LIMIT $3 OFFSET $4"
		args = append(args, limit, offset)
	} else {
		query = baseQuery + " ORDER BY created_at DESC LIMIT $2 OFFSET $3"
		args = append(args, limit, offset)
	}

	err := db.QueryRow(ctx, countQuery, args[:len(args)-2]...).Scan(&totalCount)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to get booking count for guest %s: %v", guestID, err)
		return nil, 0, fmt.Errorf("failed to get booking count: %w", err)
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to fetch bookings for guest %s: %v", guestID, err)
		return nil, 0, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var booking Booking
		err := rows.Scan(
			&booking.ID, &booking.ListingID, &booking.GuestID,
			&booking.GuestEmail, &booking.GuestFirstName, &booking.GuestLastName,
			&booking.CheckIn, &booking.CheckOut, &booking.GuestsCount, &booking.TotalPrice,
			&booking.Status, &booking.CreatedAt, &booking.UpdatedAt,
		)
		if err != nil {
			logger.ErrorLogger.Errorf("Failed to scan booking row: %v", err)
			return nil, 0, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	logger.InfoLogger.Infof("Fetched %d bookings for guest %s (total: %d)", len(bookings), guestID, totalCount)
	return bookings, totalCount, nil
}
