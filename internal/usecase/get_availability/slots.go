package get_availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SportBook-BookingService/internal/domain"
	"github.com/m04kA/SportBook-BookingService/pkg/types"
)

// buildDaySlots вычисляет статусы всех слотов дня
// Чистая функция: не мутирует входные данные и не делает I/O, безопасна
// для неограниченного конкурентного вызова.
//
// Правила (в порядке приоритета):
//  1. Если date - "сегодня" в бизнес-таймзоне и начало слота <= текущего
//     времени дня, статус Past независимо от бронирований.
//  2. Иначе статус определяет первое пересекающееся активное бронирование
//     (PENDING → Pending, APPROVED → Booked, прочее - сырой статус).
//  3. Без пересечений - Available.
func buildDaySlots(date time.Time, now time.Time, bookings []*domain.Booking) []domain.TimeSlot {
	isToday := isSameDay(date, now)
	nowMinutes := now.Hour()*60 + now.Minute()

	intervals := bookingIntervals(bookings)

	slots := make([]domain.TimeSlot, 0, domain.SlotsPerDay)

	for hour := domain.OpeningHour; hour < domain.ClosingHour; hour++ {
		startMin := hour * 60
		endMin := (hour + 1) * 60

		slot := domain.TimeSlot{
			Label:  fmt.Sprintf("%02d:00 - %02d:00", hour, hour+1),
			Start:  types.TimeString(fmt.Sprintf("%02d:00", hour)),
			End:    types.TimeString(fmt.Sprintf("%02d:00", hour+1)),
			Status: domain.SlotStatusAvailable,
		}

		if isToday && startMin <= nowMinutes {
			slot.Status = domain.SlotStatusPast
			slots = append(slots, slot)
			continue
		}

		if overlap, ok := findOverlapping(intervals, startMin, endMin); ok {
			slot.Status = domain.SlotStatusForBooking(overlap.status)
		}

		slots = append(slots, slot)
	}

	return slots
}

// bookingInterval бронирование, приведенное к минутам с полуночи
type bookingInterval struct {
	startMin int
	endMin   int
	status   domain.BookingStatus
}

func bookingIntervals(bookings []*domain.Booking) []bookingInterval {
	intervals := make([]bookingInterval, 0, len(bookings))

	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}

		startMin, err := b.Start.Minutes()
		if err != nil {
			continue
		}
		endMin, err := b.End.Minutes()
		if err != nil {
			continue
		}

		intervals = append(intervals, bookingInterval{
			startMin: startMin,
			endMin:   endMin,
			status:   b.Status,
		})
	}

	return intervals
}

// findOverlapping возвращает первое бронирование, пересекающееся со слотом
// Интервалы полуоткрытые: касание границами пересечением не считается.
// Несколько пересекающихся бронирований на слот структурно невозможны
// (уникальный индекс + проверка при создании); на всякий случай берется
// первое в порядке обхода.
func findOverlapping(intervals []bookingInterval, slotStartMin, slotEndMin int) (bookingInterval, bool) {
	for _, iv := range intervals {
		if iv.startMin < slotEndMin && iv.endMin > slotStartMin {
			return iv, true
		}
	}
	return bookingInterval{}, false
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
