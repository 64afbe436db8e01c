package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// GenerateTxRef builds a transaction reference unique to one payment
// attempt: the booking id plus random entropy. It is generated before the
// gateway call and stored in all outcomes, so every attempt stays
// correlatable even when initiation fails.
func GenerateTxRef(bookingID uuid.UUID) string {
	entropy := make([]byte, 4)
	if _, err := rand.Read(entropy); err != nil {
		// crypto/rand failing is effectively unrecoverable; fall back to a
		// fresh UUID so the reference stays unique.
		return fmt.Sprintf("booking_%s_%s", bookingID, uuid.New().String()[:8])
	}
	return fmt.Sprintf("booking_%s_%s", bookingID, hex.EncodeToString(entropy))
}
