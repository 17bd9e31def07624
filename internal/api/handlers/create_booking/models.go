package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SportBook-BookingService/internal/domain"
	createBooking "github.com/m04kA/SportBook-BookingService/internal/usecase/create_booking"
	"github.com/m04kA/SportBook-BookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	FieldID   string `json:"fieldId"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
	Date      string `json:"date"`      // "2025-10-15"
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "11:00"
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID         uuid.UUID `json:"id"`
	FieldID    uuid.UUID `json:"fieldId"`
	UserID     int64     `json:"userId"`
	Date       string    `json:"date"`
	StartTime  string    `json:"startTime"`
	EndTime    string    `json:"endTime"`
	Status     string    `json:"status"`
	FieldName  string    `json:"fieldName"`
	FieldPrice int64     `json:"fieldPrice"`
	CreatedAt  string    `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	fieldID, err := uuid.Parse(r.FieldID)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		FieldID:   fieldID,
		UserID:    userID,
		UserName:  r.UserName,
		UserEmail: r.UserEmail,
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	b := resp.Booking

	return &BookingResponse{
		ID:         b.ID,
		FieldID:    b.FieldID,
		UserID:     b.UserID,
		Date:       b.Date.Format(domain.DateFormat),
		StartTime:  b.Start.String(),
		EndTime:    b.End.String(),
		Status:     string(b.Status),
		FieldName:  b.FieldName,
		FieldPrice: b.FieldPrice,
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
	}
}
