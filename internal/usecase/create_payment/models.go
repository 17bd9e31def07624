package create_payment

import "github.com/google/uuid"

// Request запрос на создание платежной сессии
type Request struct {
	BookingID uuid.UUID
	UserID    int64
}

// Response созданная платежная сессия
type Response struct {
	Token         string
	PaymentURL    string
	OrderID       string
	TransactionID uuid.UUID
}
