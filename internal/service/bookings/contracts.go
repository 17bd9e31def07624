package bookings

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SportBook-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	UpdateStatusWhere(ctx context.Context, id uuid.UUID, status domain.BookingStatus, allowedFrom []domain.BookingStatus) (bool, error)
}

// FieldRepository интерфейс репозитория площадок
type FieldRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Field, error)
}

// TransactionRepository интерфейс репозитория платежных транзакций
type TransactionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
