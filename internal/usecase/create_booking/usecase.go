package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SportBook-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/SportBook-BookingService/internal/infra/storage/booking"
	fieldRepo "github.com/m04kA/SportBook-BookingService/internal/infra/storage/field"
)

// UseCase use case создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	fieldRepo    FieldRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	fieldRepo FieldRepository,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		fieldRepo:    fieldRepo,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Использует сериализуемую транзакцию для предотвращения гонки за слот;
// частичный уникальный индекс в БД страхует от двойного бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: field=%s, user=%d, date=%s, time=%s-%s",
		req.FieldID, req.UserID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Слот не должен быть в прошлом (бизнес-часовой пояс)
	if err := validateNotPast(req, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateBooking: past slot rejected: field=%s, date=%s, time=%s",
			req.FieldID, req.Date.Format(domain.DateFormat), req.StartTime)
		return nil, err
	}

	// 3. Проверяем существование площадки и берем данные для денормализации
	field, err := uc.fieldRepo.GetByID(ctx, req.FieldID)
	if err != nil {
		if errors.Is(err, fieldRepo.ErrFieldNotFound) {
			return nil, ErrFieldNotFound
		}
		uc.logger.Error("CreateBooking: failed to get field %s: %v", req.FieldID, err)
		return nil, fmt.Errorf("%w: failed to get field: %v", ErrInternal, err)
	}

	var created *domain.Booking

	err = uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		// 4. Перечитываем активные бронирования дня под блокировкой
		existing, err := uc.bookingRepo.GetByFieldAndDate(ctx, req.FieldID, req.Date)
		if err != nil {
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		startMin, _ := req.StartTime.Minutes()
		endMin, _ := req.EndTime.Minutes()

		for _, b := range existing {
			if !b.IsActive() {
				continue
			}

			bStart, err := b.Start.Minutes()
			if err != nil {
				continue
			}
			bEnd, err := b.End.Minutes()
			if err != nil {
				continue
			}

			// Полуоткрытые интервалы: границы слотов не пересекаются
			if bStart < endMin && bEnd > startMin {
				return ErrSlotNotAvailable
			}
		}

		// 5. Создаем бронирование в статусе PENDING
		created, err = uc.bookingRepo.Create(ctx, &domain.Booking{
			FieldID:    req.FieldID,
			UserID:     req.UserID,
			Date:       req.Date,
			Start:      req.StartTime,
			End:        req.EndTime,
			Status:     domain.StatusPending,
			UserName:   req.UserName,
			UserEmail:  req.UserEmail,
			FieldName:  field.Name,
			FieldPrice: field.Price,
		})
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				return ErrSlotNotAvailable
			}
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) {
			uc.logger.Warn("CreateBooking: slot taken: field=%s, date=%s, time=%s-%s",
				req.FieldID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)
			return nil, ErrSlotNotAvailable
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CreateBooking: booking %s created, field=%s, user=%d",
		created.ID, req.FieldID, req.UserID)

	return &Response{Booking: created}, nil
}
