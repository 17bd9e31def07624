package create_payment

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается при попытке оплатить чужое бронирование
	ErrAccessDenied = errors.New("access denied")

	// ErrBookingNotPayable возвращается, когда бронирование не в статусе APPROVED
	ErrBookingNotPayable = errors.New("booking is not payable")

	// ErrGatewayUnavailable возвращается при сбое платежного шлюза
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
