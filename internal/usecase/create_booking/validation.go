package create_booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SportBook-BookingService/internal/domain"
)

// validateRequest проверяет структурную корректность запроса
func validateRequest(req *Request) error {
	if req.FieldID == uuid.Nil {
		return fmt.Errorf("%w: field id is required", ErrInvalidInput)
	}

	if req.UserID <= 0 {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	if req.UserEmail == "" {
		return fmt.Errorf("%w: user email is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	startMin, err := req.StartTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: invalid start time %q", ErrInvalidInput, req.StartTime)
	}

	endMin, err := req.EndTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: invalid end time %q", ErrInvalidInput, req.EndTime)
	}

	if startMin >= endMin {
		return fmt.Errorf("%w: start time must be before end time", ErrInvalidInput)
	}

	// Бронируются только целые часовые слоты по сетке площадки
	if startMin%domain.SlotDurationMinutes != 0 {
		return fmt.Errorf("%w: start time must be aligned to the hour", ErrInvalidInput)
	}

	if endMin-startMin != domain.SlotDurationMinutes {
		return fmt.Errorf("%w: booking must cover exactly one hourly slot", ErrInvalidInput)
	}

	if startMin < domain.OpeningHour*60 || endMin > domain.ClosingHour*60 {
		return fmt.Errorf("%w: slot is outside working hours %02d:00-%02d:00",
			ErrInvalidInput, domain.OpeningHour, domain.ClosingHour)
	}

	return nil
}

// validateNotPast проверяет, что начало слота еще не прошло в бизнес-часовом поясе
func validateNotPast(req *Request, now time.Time) error {
	reqDay := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, now.Location())
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if reqDay.Before(nowDay) {
		return ErrPastDateTime
	}

	if reqDay.Equal(nowDay) {
		startMin, _ := req.StartTime.Minutes()
		nowMinutes := now.Hour()*60 + now.Minute()
		if startMin <= nowMinutes {
			return ErrPastDateTime
		}
	}

	return nil
}
