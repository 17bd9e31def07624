package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Статусы платежного провайдера (Midtrans transaction_status)
// Хранятся как есть - это внешние строки, не внутренний enum.
// Внутренне значимые состояния бронирования описывает BookingStatus.
const (
	ProviderStatusPending    = "pending"
	ProviderStatusSettlement = "settlement"
	ProviderStatusCapture    = "capture"
	ProviderStatusCancel     = "cancel"
	ProviderStatusExpire     = "expire"
	ProviderStatusDeny       = "deny"
)

// Transaction represents a payment transaction with the external gateway
// OrderID - внешний идемпотентный ключ: повторные уведомления по одному
// OrderID обновляют одну и ту же запись. Транзакции никогда не удаляются.
type Transaction struct {
	ID          uuid.UUID
	OrderID     string
	Status      string // Сырой статус провайдера
	PaymentType *string
	GrossAmount int64

	// Полная копия последнего уведомления провайдера для аудита и replay
	Raw json.RawMessage

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsSuccessStatus returns true for provider statuses meaning the payment succeeded
func IsSuccessStatus(providerStatus string) bool {
	return providerStatus == ProviderStatusSettlement || providerStatus == ProviderStatusCapture
}

// IsFailureStatus returns true for terminal provider statuses meaning the payment failed
func IsFailureStatus(providerStatus string) bool {
	switch providerStatus {
	case ProviderStatusCancel, ProviderStatusExpire, ProviderStatusDeny:
		return true
	default:
		return false
	}
}
