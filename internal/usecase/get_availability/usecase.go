package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SportBook-BookingService/internal/domain"
	fieldRepo "github.com/m04kA/SportBook-BookingService/internal/infra/storage/field"
)

// UseCase use case для получения статусов слотов поля на дату
type UseCase struct {
	bookingRepo  BookingRepository
	fieldRepo    FieldRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// timeProvider обязан отдавать время в бизнес-таймзоне (pkg/clock.BusinessClock)
func NewUseCase(
	bookingRepo BookingRepository,
	fieldRepo FieldRepository,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		fieldRepo:    fieldRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute выполняет use case получения доступности слотов
// Чистый read path: ничего не блокирует и не мутирует
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: field=%s, date=%s",
		req.FieldID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем существование поля
	if _, err := uc.fieldRepo.GetByID(ctx, req.FieldID); err != nil {
		if errors.Is(err, fieldRepo.ErrFieldNotFound) {
			uc.logger.Warn("GetAvailability: field id=%s not found", req.FieldID)
			return nil, ErrFieldNotFound
		}
		uc.logger.Error("GetAvailability: failed to get field id=%s: %v", req.FieldID, err)
		return nil, fmt.Errorf("%w: failed to get field: %v", ErrInternal, err)
	}

	// 3. Текущее время в бизнес-таймзоне
	now := uc.timeProvider.Now()

	// 4. Активные бронирования на эту дату
	bookings, err := uc.bookingRepo.GetByFieldAndDate(ctx, req.FieldID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 5. Вычисляем статусы слотов
	slots := buildDaySlots(req.Date, now, bookings)

	uc.logger.Info("GetAvailability: computed %d slots for field=%s, date=%s",
		len(slots), req.FieldID, req.Date.Format(domain.DateFormat))

	return &Response{
		FieldID: req.FieldID,
		Date:    req.Date,
		Slots:   slots,
	}, nil
}
