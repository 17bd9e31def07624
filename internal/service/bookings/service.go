package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SportBook-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/SportBook-BookingService/internal/infra/storage/booking"
	fieldRepo "github.com/m04kA/SportBook-BookingService/internal/infra/storage/field"
	transactionRepo "github.com/m04kA/SportBook-BookingService/internal/infra/storage/transaction"
	"github.com/m04kA/SportBook-BookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo     BookingRepository
	fieldRepo       FieldRepository
	transactionRepo TransactionRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	fieldRepo FieldRepository,
	transactionRepo TransactionRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:     bookingRepo,
		fieldRepo:       fieldRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - бронирование видит его автор
// или владелец площадки
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkUserAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%s", userID, id)
		return nil, err
	}

	resp := models.FromDomainBooking(booking)
	resp.Payment = s.loadPaymentInfo(ctx, booking)

	s.logger.Info("GetByID: successfully fetched booking id=%s", id)
	return resp, nil
}

// loadPaymentInfo подгружает данные платежа, если бронирование оплачивалось.
// Отсутствие транзакции не считается ошибкой запроса
func (s *Service) loadPaymentInfo(ctx context.Context, booking *domain.Booking) *models.PaymentInfo {
	if booking.TransactionID == nil {
		return nil
	}

	tx, err := s.transactionRepo.GetByID(ctx, *booking.TransactionID)
	if err != nil {
		if !errors.Is(err, transactionRepo.ErrTransactionNotFound) {
			s.logger.Error("loadPaymentInfo: failed to get transaction %s: %v", *booking.TransactionID, err)
		}
		return nil
	}

	return models.FromDomainTransaction(tx)
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	// Конвертируем статус из строки в domain.BookingStatus
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, ok := domain.ParseBookingStatus(*req.Status)
		if !ok {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus рассматривает заявку на бронирование
// Решение принимает только владелец площадки: APPROVED либо REJECTED,
// и только пока бронирование в статусе PENDING
func (s *Service) UpdateStatus(ctx context.Context, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: booking id=%s, user=%d, status=%s", req.BookingID, req.UserID, req.Status)

	newStatus, ok := domain.ParseBookingStatus(req.Status)
	if !ok || (newStatus != domain.StatusApproved && newStatus != domain.StatusRejected) {
		s.logger.Warn("UpdateStatus: status %q is not allowed for review decision", req.Status)
		return nil, ErrInvalidStatus
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	// Решение принимает владелец площадки
	field, err := s.fieldRepo.GetByID(ctx, booking.FieldID)
	if err != nil {
		if errors.Is(err, fieldRepo.ErrFieldNotFound) {
			return nil, ErrFieldNotFound
		}
		s.logger.Error("UpdateStatus: failed to get field %s: %v", booking.FieldID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - failed to get field: %v", ErrInternal, err)
	}

	if field.OwnerID != req.UserID {
		s.logger.Warn("UpdateStatus: user=%d is not the owner of field %s", req.UserID, field.ID)
		return nil, ErrAccessDenied
	}

	if !booking.CanBeReviewed() {
		s.logger.Warn("UpdateStatus: booking id=%s already reviewed (status=%s)", booking.ID, booking.Status)
		return nil, ErrStatusConflict
	}

	// Условный переход защищает от гонки параллельных рассмотрений
	transitioned, err := s.bookingRepo.UpdateStatusWhere(ctx, booking.ID, newStatus,
		[]domain.BookingStatus{domain.StatusPending})
	if err != nil {
		s.logger.Error("UpdateStatus: failed to update booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - failed to update status: %v", ErrInternal, err)
	}

	if !transitioned {
		s.logger.Warn("UpdateStatus: booking id=%s already reviewed (status=%s)", booking.ID, booking.Status)
		return nil, ErrStatusConflict
	}

	updated, err := s.bookingRepo.GetByID(ctx, booking.ID)
	if err != nil {
		s.logger.Error("UpdateStatus: failed to re-read booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - failed to re-read booking: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: booking id=%s is now %s", updated.ID, updated.Status)
	return models.FromDomainBooking(updated), nil
}

// checkUserAccess проверяет, что пользователь видит бронирование
func (s *Service) checkUserAccess(ctx context.Context, booking *domain.Booking, userID int64) error {
	if booking.UserID == userID {
		return nil
	}

	field, err := s.fieldRepo.GetByID(ctx, booking.FieldID)
	if err != nil {
		if errors.Is(err, fieldRepo.ErrFieldNotFound) {
			return ErrAccessDenied
		}
		return fmt.Errorf("%w: checkUserAccess - failed to get field: %v", ErrInternal, err)
	}

	if field.OwnerID != userID {
		return ErrAccessDenied
	}

	return nil
}
