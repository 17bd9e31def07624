package get_availability

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SportBook-BookingService/internal/domain"
	getAvailability "github.com/m04kA/SportBook-BookingService/internal/usecase/get_availability"
)

// TimeSlotResponse модель временного слота
type TimeSlotResponse struct {
	Label  string `json:"label"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Status string `json:"status"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
// Ответ - плоский массив из пятнадцати слотов, по одному на каждый
// рабочий час площадки
func FromUseCaseResponse(resp *getAvailability.Response) []TimeSlotResponse {
	slots := make([]TimeSlotResponse, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = TimeSlotResponse{
			Label:  slot.Label,
			Start:  slot.Start.String(),
			End:    slot.End.String(),
			Status: string(slot.Status),
		}
	}
	return slots
}

// ToUseCaseRequest создает запрос use case из параметров URL
func ToUseCaseRequest(fieldID uuid.UUID, dateStr string) (*getAvailability.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailability.Request{
		FieldID: fieldID,
		Date:    date,
	}, nil
}
