package process_webhook

import "errors"

var (
	// ErrMissingOrderID возвращается для структурно некорректного уведомления
	// Единственная ошибка, которая отклоняет уведомление до записи
	ErrMissingOrderID = errors.New("missing order_id")

	// ErrSideEffect возвращается при сбое выпуска билета или отправки письма
	// Статус бронирования при этом уже закоммичен и не откатывается;
	// редоставка уведомления повторит побочные эффекты
	ErrSideEffect = errors.New("side effect failed")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
