package process_webhook

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Notification уведомление платежного провайдера
type Notification struct {
	OrderID        string
	ProviderStatus string  // Сырой transaction_status провайдера
	PaymentType    *string // Опционально
	GrossAmount    int64   // В минимальных единицах валюты, 0 если не передан

	// Полный payload уведомления для аудита
	Raw json.RawMessage
}

// Outcome итог обработки уведомления
type Outcome string

const (
	// OutcomePaid бронирование переведено в PAID, билет выпущен и отправлен
	OutcomePaid Outcome = "paid"
	// OutcomeDuplicate повторная доставка: состояние уже применено, побочные эффекты пропущены
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeCancelled бронирование переведено в CANCELED
	OutcomeCancelled Outcome = "cancelled"
	// OutcomeRecorded нетерминальный статус: транзакция записана, бронирование не тронуто
	OutcomeRecorded Outcome = "recorded"
	// OutcomeUnresolved бронирование не найдено даже через fallback; уведомление подтверждено
	OutcomeUnresolved Outcome = "unresolved"
	// OutcomeIgnored переход невозможен из текущего статуса бронирования; уведомление подтверждено
	OutcomeIgnored Outcome = "ignored"
)

// Result результат обработки уведомления
type Result struct {
	Outcome       Outcome
	BookingID     *uuid.UUID
	TransactionID uuid.UUID
	TicketIssued  bool
	EmailSent     bool
}
