// utils/errors.go
package utils

import "errors"

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrPaymentNotFound = errors.New("payment not found")

	ErrGuestIDNotFound = errors.New("authentication required: guest ID not found")
)
