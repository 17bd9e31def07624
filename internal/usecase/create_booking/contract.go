package create_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SportBook-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByFieldAndDate(ctx context.Context, fieldID uuid.UUID, date time.Time) ([]*domain.Booking, error)
}

// FieldRepository интерфейс репозитория площадок
type FieldRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Field, error)
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
