package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOrderID(t *testing.T) {
	bookingID := uuid.MustParse("3f1c9a62-7c44-4d28-9c47-5b7f2a9e1d10")
	now := time.Unix(1756500000, 0)

	orderID := BuildOrderID(bookingID, now)

	assert.Equal(t, "SPORTBOOK-3f1c9a62-7c44-4d28-9c47-5b7f2a9e1d10-1756500000", orderID)
}

func TestParseOrderID_RoundTrip(t *testing.T) {
	bookingID := uuid.New()
	orderID := BuildOrderID(bookingID, time.Now())

	parsed, err := ParseOrderID(orderID)

	require.NoError(t, err)
	assert.Equal(t, bookingID, parsed)
}

func TestParseOrderID_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		orderID string
	}{
		{"empty", ""},
		{"wrong prefix", "SHOP-3f1c9a62-7c44-4d28-9c47-5b7f2a9e1d10-1756500000"},
		{"missing timestamp", "SPORTBOOK-3f1c9a62-7c44-4d28-9c47-5b7f2a9e1d10"},
		{"non numeric timestamp", "SPORTBOOK-3f1c9a62-7c44-4d28-9c47-5b7f2a9e1d10-abc"},
		{"garbage booking id", "SPORTBOOK-not-a-uuid-1756500000"},
		{"prefix only", "SPORTBOOK-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOrderID(tt.orderID)
			require.Error(t, err)
		})
	}
}
