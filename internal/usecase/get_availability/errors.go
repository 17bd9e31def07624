package get_availability

import "errors"

var (
	// ErrFieldNotFound возвращается, когда поле не найдено
	ErrFieldNotFound = errors.New("field not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
