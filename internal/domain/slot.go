package domain

import "github.com/m04kA/SportBook-BookingService/pkg/types"

// SlotStatus статус временного слота в ответе на запрос доступности
// Помимо перечисленных значений статусом может быть сырой статус
// бронирования (pass-through для состояний вне таблицы соответствия).
type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "Available"
	SlotStatusPast      SlotStatus = "Past"
	SlotStatusPending   SlotStatus = "Pending"
	SlotStatusBooked    SlotStatus = "Booked"
)

// TimeSlot производная модель слота: вычисляется на каждый запрос
// доступности, нигде не хранится
type TimeSlot struct {
	Label  string // "08:00 - 09:00"
	Start  types.TimeString
	End    types.TimeString
	Status SlotStatus
}

// SlotStatusForBooking маппит статус пересекающегося бронирования в статус слота
// PENDING → Pending, APPROVED → Booked, остальные статусы проходят насквозь
func SlotStatusForBooking(status BookingStatus) SlotStatus {
	switch status {
	case StatusPending:
		return SlotStatusPending
	case StatusApproved:
		return SlotStatusBooked
	default:
		return SlotStatus(status)
	}
}
