package create_payment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SportBook-BookingService/internal/domain"
	"github.com/m04kA/SportBook-BookingService/internal/integrations/midtranspay"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	SetTransactionID(ctx context.Context, id uuid.UUID, transactionID uuid.UUID) error
}

// TransactionRepository интерфейс репозитория платежных транзакций
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
}

// PaymentGateway интерфейс платежного шлюза
type PaymentGateway interface {
	CreateSession(ctx context.Context, req *midtranspay.SessionRequest) (*midtranspay.Session, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
