package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SportBook-BookingService/internal/domain"
	"github.com/m04kA/SportBook-BookingService/pkg/types"
)

// Request запрос на создание бронирования
type Request struct {
	FieldID   uuid.UUID
	UserID    int64
	UserName  string
	UserEmail string
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Response созданное бронирование
type Response struct {
	Booking *domain.Booking
}
