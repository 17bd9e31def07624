package get_availability

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SportBook-BookingService/internal/domain"
)

// Request модель запроса на получение доступности слотов
type Request struct {
	FieldID uuid.UUID // ID поля
	Date    time.Time // Дата, на которую запрашиваются слоты (без времени)
}

// Response модель ответа со статусами слотов на день
type Response struct {
	FieldID uuid.UUID
	Date    time.Time
	Slots   []domain.TimeSlot // Ровно SlotsPerDay слотов в порядке возрастания времени
}
