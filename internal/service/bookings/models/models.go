package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SportBook-BookingService/internal/domain"
)

// Request модели

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	BookingID uuid.UUID `json:"-"`
	UserID    int64     `json:"-"`
	Status    string    `json:"status"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID        uuid.UUID `json:"id"`
	FieldID   uuid.UUID `json:"fieldId"`
	UserID    int64     `json:"userId"`
	Date      string    `json:"date"`      // "2025-10-15"
	StartTime string    `json:"startTime"` // "10:00"
	EndTime   string    `json:"endTime"`   // "11:00"
	Status    string    `json:"status"`

	// Денормализованные данные
	UserName   string `json:"userName,omitempty"`
	FieldName  string `json:"fieldName"`
	FieldPrice int64  `json:"fieldPrice"`

	TransactionID  *uuid.UUID   `json:"transactionId,omitempty"`
	Payment        *PaymentInfo `json:"payment,omitempty"`
	TicketIssuedAt *string      `json:"ticketIssuedAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PaymentInfo данные платежа по бронированию
type PaymentInfo struct {
	OrderID     string  `json:"orderId"`
	Status      string  `json:"status"`
	PaymentType *string `json:"paymentType,omitempty"`
	GrossAmount int64   `json:"grossAmount"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:            b.ID,
		FieldID:       b.FieldID,
		UserID:        b.UserID,
		Date:          b.Date.Format(domain.DateFormat),
		StartTime:     b.Start.String(),
		EndTime:       b.End.String(),
		Status:        string(b.Status),
		UserName:      b.UserName,
		FieldName:     b.FieldName,
		FieldPrice:    b.FieldPrice,
		TransactionID: b.TransactionID,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}

	if b.TicketIssuedAt != nil {
		issuedAt := b.TicketIssuedAt.Format(time.RFC3339)
		resp.TicketIssuedAt = &issuedAt
	}

	return resp
}

// FromDomainTransaction конвертирует транзакцию в данные платежа
func FromDomainTransaction(t *domain.Transaction) *PaymentInfo {
	if t == nil {
		return nil
	}

	return &PaymentInfo{
		OrderID:     t.OrderID,
		Status:      t.Status,
		PaymentType: t.PaymentType,
		GrossAmount: t.GrossAmount,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, b := range bookings {
		if converted := FromDomainBooking(b); converted != nil {
			resp.Bookings = append(resp.Bookings, *converted)
		}
	}

	return resp
}
