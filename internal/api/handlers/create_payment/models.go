package create_payment

import (
	"github.com/google/uuid"

	createPayment "github.com/m04kA/SportBook-BookingService/internal/usecase/create_payment"
)

// PaymentSessionResponse HTTP response model
type PaymentSessionResponse struct {
	Token         string    `json:"token"`
	PaymentURL    string    `json:"paymentUrl"`
	OrderID       string    `json:"orderId"`
	TransactionID uuid.UUID `json:"transactionId"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createPayment.Response) *PaymentSessionResponse {
	return &PaymentSessionResponse{
		Token:         resp.Token,
		PaymentURL:    resp.PaymentURL,
		OrderID:       resp.OrderID,
		TransactionID: resp.TransactionID,
	}
}
