package domain

// Операционные часы площадки: почасовые слоты 08:00-23:00
const (
	OpeningHour = 8
	ClosingHour = 23

	SlotDurationMinutes = 60

	// SlotsPerDay количество слотов в день (08-09, ..., 22-23)
	SlotsPerDay = ClosingHour - OpeningHour
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DefaultBusinessTimezone таймзона бизнеса по умолчанию (WIB)
// Используется для определения "сегодня" и прошедших слотов.
// Переопределяется конфигурацией, никогда не берется из окружения хоста.
const DefaultBusinessTimezone = "Asia/Jakarta"

// InactiveStatuses список статусов, при которых бронирование не занимает слот
// Используется для фильтрации при вычислении доступности
var InactiveStatuses = []BookingStatus{
	StatusRejected,
	StatusCanceled,
}
