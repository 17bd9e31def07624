package create_payment

import (
	"context"

	createPayment "github.com/m04kA/SportBook-BookingService/internal/usecase/create_payment"
)

type CreatePaymentUseCase interface {
	Execute(ctx context.Context, req *createPayment.Request) (*createPayment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
