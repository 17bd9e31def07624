package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SportBook-BookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending  BookingStatus = "PENDING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
	StatusCanceled BookingStatus = "CANCELED"
	StatusPaid     BookingStatus = "PAID"
)

// Booking represents a field reservation in the system
type Booking struct {
	ID      uuid.UUID
	FieldID uuid.UUID
	UserID  int64
	Date    time.Time // Календарный день, компонент времени не используется
	Start   types.TimeString
	End     types.TimeString
	Status  BookingStatus

	// Связь с транзакцией оплаты (устанавливается при создании платежной сессии)
	TransactionID *uuid.UUID

	// Момент выпуска e-ticket; одновременно служит идемпотентным guard'ом
	// против повторной выдачи билета при редоставке webhook'а
	TicketIssuedAt *time.Time

	// Denormalized data for history and ticket rendering
	UserName   string
	UserEmail  string
	FieldName  string
	FieldPrice int64 // В минимальных единицах валюты

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies its slot
// (counts against availability)
func (b *Booking) IsActive() bool {
	return b.Status != StatusRejected && b.Status != StatusCanceled
}

// CanBePaid returns true if the booking may transition to PAID
// Оплата возможна только после одобрения бронирования
func (b *Booking) CanBePaid() bool {
	return b.Status == StatusApproved
}

// CanBeReviewed returns true if the booking awaits the approval decision
func (b *Booking) CanBeReviewed() bool {
	return b.Status == StatusPending
}

// ParseBookingStatus валидирует и конвертирует строку в BookingStatus
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case StatusPending, StatusApproved, StatusRejected, StatusCanceled, StatusPaid:
		return BookingStatus(s), true
	default:
		return "", false
	}
}
