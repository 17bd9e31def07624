package types

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// TimeString время в формате "HH:MM" (без даты)
// Используется для времени начала/конца слотов бронирования.
// Хранится в БД как текстовая колонка, поэтому реализует sql.Scanner и driver.Valuer.
type TimeString string

// NewTimeString создает TimeString из time.Time (часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()))
}

// NewTimeStringFromString парсит строку "HH:MM"
func NewTimeStringFromString(s string) (TimeString, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", fmt.Errorf("types: invalid time string %q: %w", s, err)
	}
	return NewTimeString(t), nil
}

// NewTimeStringFromMinutes создает TimeString из количества минут с полуночи
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes >= 24*60 {
		return "", fmt.Errorf("types: minutes out of range: %d", minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// String возвращает строковое представление "HH:MM"
func (t TimeString) String() string {
	return string(t)
}

// Minutes возвращает количество минут с полуночи
func (t TimeString) Minutes() (int, error) {
	parsed, err := time.Parse("15:04", string(t))
	if err != nil {
		return 0, fmt.Errorf("types: invalid time string %q: %w", string(t), err)
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// AddMinutes возвращает новый TimeString со сдвигом на minutes минут
// Возвращает ошибку при выходе за границы суток
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	current, err := t.Minutes()
	if err != nil {
		return "", err
	}
	return NewTimeStringFromMinutes(current + minutes)
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	if errA != nil || errB != nil {
		return false
	}
	return a < b
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	if errA != nil || errB != nil {
		return false
	}
	return a > b
}

// Value реализует driver.Valuer для записи в БД
func (t TimeString) Value() (driver.Value, error) {
	return string(t), nil
}

// Scan реализует sql.Scanner для чтения из БД
// Поддерживает text колонки и time колонки (драйвер может вернуть time.Time)
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("types: cannot scan %T into TimeString", src)
	}
}

func (t *TimeString) scanString(s string) error {
	// Колонки типа time приходят как "HH:MM:SS" - обрезаем секунды
	if len(s) > 5 {
		s = s[:5]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
