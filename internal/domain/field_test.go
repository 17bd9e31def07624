package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		price int64
		want  string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{1000, "Rp 1.000"},
		{150000, "Rp 150.000"},
		{2500000, "Rp 2.500.000"},
		{-150000, "Rp -150.000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPrice(tt.price))
	}
}
