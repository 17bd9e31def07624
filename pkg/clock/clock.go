package clock

import (
	"fmt"
	"time"
)

// Clock провайдер текущего времени
// Абстракция нужна, чтобы бизнес-логика не зависела от часового пояса хоста
// и чтобы в тестах можно было подставить фиксированный момент времени.
type Clock interface {
	Now() time.Time
}

// BusinessClock часы в фиксированном бизнес-таймзоне
// Таймзона задается конфигурацией по имени (например, "Asia/Jakarta"),
// никогда не берется из окружения хоста.
type BusinessClock struct {
	location *time.Location
}

// NewBusinessClock создает часы для указанной таймзоны
func NewBusinessClock(timezone string) (*BusinessClock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("clock: failed to load timezone %q: %w", timezone, err)
	}
	return &BusinessClock{location: loc}, nil
}

// Now возвращает текущее время в бизнес-таймзоне
func (c *BusinessClock) Now() time.Time {
	return time.Now().In(c.location)
}

// Location возвращает бизнес-таймзону
func (c *BusinessClock) Location() *time.Location {
	return c.location
}

// FixedClock часы с фиксированным моментом времени (для тестов)
type FixedClock struct {
	Moment time.Time
}

// Now возвращает фиксированный момент времени
func (c *FixedClock) Now() time.Time {
	return c.Moment
}
