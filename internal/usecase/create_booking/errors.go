package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input")

	// ErrFieldNotFound возвращается, когда площадка не найдена
	ErrFieldNotFound = errors.New("field not found")

	// ErrPastDateTime возвращается при попытке забронировать прошедшее время
	ErrPastDateTime = errors.New("booking date/time is in the past")

	// ErrSlotNotAvailable возвращается, когда слот уже занят
	ErrSlotNotAvailable = errors.New("slot is not available")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
