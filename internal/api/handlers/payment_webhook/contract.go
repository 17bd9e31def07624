package payment_webhook

import (
	"context"

	processWebhook "github.com/m04kA/SportBook-BookingService/internal/usecase/process_webhook"
)

type ProcessWebhookUseCase interface {
	Execute(ctx context.Context, n *processWebhook.Notification) (*processWebhook.Result, error)
}

// MetricsCollector счетчики обработки уведомлений; nil-able, метрики опциональны
type MetricsCollector interface {
	IncWebhook(outcome string)
	IncTicketIssued()
	IncEmail(status string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
