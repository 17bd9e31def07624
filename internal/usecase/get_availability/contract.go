package get_availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SportBook-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetByFieldAndDate получает активные бронирования поля на конкретную дату
	// в детерминированном порядке (по времени начала)
	GetByFieldAndDate(ctx context.Context, fieldID uuid.UUID, date time.Time) ([]*domain.Booking, error)
}

// FieldRepository интерфейс справочника полей
type FieldRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Field, error)
}

// TimeProvider интерфейс для получения текущего времени в бизнес-таймзоне
// Подменяется в тестах фиксированным моментом
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
