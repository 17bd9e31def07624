package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Field represents a sports field owned by the facility
// Для этого сервиса поля неизменяемы: справочник ведется снаружи
type Field struct {
	ID      uuid.UUID
	OwnerID int64 // Пользователь, одобряющий бронирования этого поля
	Name    string
	Price   int64 // Цена за слот в минимальных единицах валюты

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FormatPrice возвращает цену в человекочитаемом виде ("Rp 100.000")
// Группировка разрядов точками, как принято для рупии
func FormatPrice(price int64) string {
	sign := ""
	if price < 0 {
		sign = "-"
		price = -price
	}

	digits := fmt.Sprintf("%d", price)
	grouped := make([]byte, 0, len(digits)+len(digits)/3)

	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, '.')
		}
		grouped = append(grouped, d)
	}

	return fmt.Sprintf("Rp %s%s", sign, string(grouped))
}
