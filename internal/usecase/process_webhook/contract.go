package process_webhook

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SportBook-BookingService/internal/domain"
	"github.com/m04kA/SportBook-BookingService/internal/mailer"
	"github.com/m04kA/SportBook-BookingService/internal/ticket"
)

// TransactionRepository интерфейс репозитория платежных транзакций
type TransactionRepository interface {
	// Upsert атомарно создает или обновляет транзакцию по order_id
	Upsert(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*domain.Booking, error)
	// UpdateStatusWhere условный переход статуса; true - переход произошел
	UpdateStatusWhere(ctx context.Context, id uuid.UUID, status domain.BookingStatus, allowedFrom []domain.BookingStatus) (bool, error)
	// ClaimTicketIssue атомарный check-and-set guard'а выпуска билета
	ClaimTicketIssue(ctx context.Context, id uuid.UUID) (bool, error)
	ReleaseTicketClaim(ctx context.Context, id uuid.UUID) error
}

// TicketIssuer интерфейс генератора e-ticket
type TicketIssuer interface {
	Render(t *ticket.Ticket) ([]byte, error)
}

// Notifier интерфейс отправки уведомлений
type Notifier interface {
	Send(to, subject, htmlBody string, attachments []mailer.Attachment) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
