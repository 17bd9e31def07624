package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderIDPrefix префикс внешнего идентификатора заказа
const OrderIDPrefix = "SPORTBOOK"

// BuildOrderID формирует внешний идентификатор заказа для платежной сессии
// Формат: "<PREFIX>-<bookingId>-<unixTimestamp>"
// Timestamp делает идентификатор уникальным между повторными попытками
// оплаты одного бронирования.
func BuildOrderID(bookingID uuid.UUID, now time.Time) string {
	return fmt.Sprintf("%s-%s-%d", OrderIDPrefix, bookingID, now.Unix())
}

// ParseOrderID извлекает ID бронирования из идентификатора заказа
// Fallback-путь разрешения бронирования для уведомлений, обогнавших запись
// связи booking↔transaction. Основной путь - поиск по transaction_id;
// формат разбирается с конца, потому что сам bookingID содержит дефисы.
func ParseOrderID(orderID string) (uuid.UUID, error) {
	prefix := OrderIDPrefix + "-"
	if !strings.HasPrefix(orderID, prefix) {
		return uuid.Nil, fmt.Errorf("order id %q: missing %q prefix", orderID, OrderIDPrefix)
	}

	rest := orderID[len(prefix):]

	lastDash := strings.LastIndex(rest, "-")
	if lastDash <= 0 {
		return uuid.Nil, fmt.Errorf("order id %q: missing timestamp suffix", orderID)
	}

	if _, err := strconv.ParseInt(rest[lastDash+1:], 10, 64); err != nil {
		return uuid.Nil, fmt.Errorf("order id %q: invalid timestamp suffix", orderID)
	}

	bookingID, err := uuid.Parse(rest[:lastDash])
	if err != nil {
		return uuid.Nil, fmt.Errorf("order id %q: invalid booking id: %v", orderID, err)
	}

	return bookingID, nil
}
