package utils

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateTxRefFormat(t *testing.T) {
	bookingID := uuid.New()

	txRef := GenerateTxRef(bookingID)

	assert.True(t, strings.HasPrefix(txRef, "booking_"+bookingID.String()+"_"))
	suffix := strings.TrimPrefix(txRef, "booking_"+bookingID.String()+"_")
	assert.Len(t, suffix, 8)
}

func TestGenerateTxRefUniquePerAttempt(t *testing.T) {
	bookingID := uuid.New()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref := GenerateTxRef(bookingID)
		assert.False(t, seen[ref], "duplicate tx_ref generated: %s", ref)
		seen[ref] = true
	}
}
