package payment_webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGrossAmount(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"150000.00", 150000},
		{"150000", 150000},
		{"0.00", 0},
		{"", 0},
		{"abc", 0},
		{".50", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseGrossAmount(tt.in), "input %q", tt.in)
	}
}

func TestToUseCaseNotification(t *testing.T) {
	raw := []byte(`{"order_id":"SPORTBOOK-x-1","transaction_status":"settlement","payment_type":"qris","gross_amount":"150000.00","extra":"ignored"}`)

	req := &WebhookRequest{
		OrderID:           "SPORTBOOK-x-1",
		TransactionStatus: "settlement",
		PaymentType:       "qris",
		GrossAmount:       "150000.00",
	}

	n := req.ToUseCaseNotification(raw)

	assert.Equal(t, "SPORTBOOK-x-1", n.OrderID)
	assert.Equal(t, "settlement", n.ProviderStatus)
	require.NotNil(t, n.PaymentType)
	assert.Equal(t, "qris", *n.PaymentType)
	assert.Equal(t, int64(150000), n.GrossAmount)
	// Raw сохраняет исходное тело целиком, включая неизвестные поля
	assert.JSONEq(t, string(raw), string(n.Raw))
}

func TestToUseCaseNotification_OmitsEmptyPaymentType(t *testing.T) {
	n := (&WebhookRequest{OrderID: "x"}).ToUseCaseNotification([]byte(`{}`))
	assert.Nil(t, n.PaymentType)
}
