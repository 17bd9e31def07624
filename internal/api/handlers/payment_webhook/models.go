package payment_webhook

import (
	"encoding/json"
	"strconv"
	"strings"

	processWebhook "github.com/m04kA/SportBook-BookingService/internal/usecase/process_webhook"
	"github.com/m04kA/SportBook-BookingService/pkg/ptr"
)

// WebhookRequest уведомление Midtrans HTTP(S) Notification
// Провайдер шлет десятки полей; сервис читает только нужные,
// полный payload сохраняется как есть
type WebhookRequest struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	PaymentType       string `json:"payment_type"`
	GrossAmount       string `json:"gross_amount"` // Десятичная строка, например "150000.00"
}

// WebhookResponse подтверждение приема уведомления
type WebhookResponse struct {
	Success bool `json:"success"`
}

// ToUseCaseNotification конвертирует HTTP запрос в модель use case
// raw - исходное тело запроса, до декодирования
func (r *WebhookRequest) ToUseCaseNotification(raw []byte) *processWebhook.Notification {
	n := &processWebhook.Notification{
		OrderID:        r.OrderID,
		ProviderStatus: r.TransactionStatus,
		GrossAmount:    parseGrossAmount(r.GrossAmount),
		Raw:            json.RawMessage(raw),
	}

	if r.PaymentType != "" {
		n.PaymentType = ptr.Ptr(r.PaymentType)
	}

	return n
}

// parseGrossAmount извлекает целую часть десятичной строки провайдера
// Нераспознанная сумма превращается в 0, а не в ошибку: сумма
// информационная, решение принимается по transaction_status
func parseGrossAmount(s string) int64 {
	if s == "" {
		return 0
	}

	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		s = s[:idx]
	}

	amount, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}

	return amount
}
