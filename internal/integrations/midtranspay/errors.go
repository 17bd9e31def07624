package midtranspay

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("midtranspay client: internal error")

	// ErrGatewayRejected возвращается, когда шлюз отклонил создание сессии
	ErrGatewayRejected = errors.New("midtranspay client: gateway rejected session request")
)
