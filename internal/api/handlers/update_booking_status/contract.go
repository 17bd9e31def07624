package update_booking_status

import (
	"context"

	"github.com/m04kA/SportBook-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	UpdateStatus(ctx context.Context, req *models.UpdateStatusRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
