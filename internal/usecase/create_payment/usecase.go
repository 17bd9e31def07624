package create_payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SportBook-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/SportBook-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/SportBook-BookingService/internal/integrations/midtranspay"
)

// UseCase use case создания платежной сессии для бронирования
type UseCase struct {
	bookingRepo     BookingRepository
	transactionRepo TransactionRepository
	gateway         PaymentGateway
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	transactionRepo TransactionRepository,
	gateway PaymentGateway,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:     bookingRepo,
		transactionRepo: transactionRepo,
		gateway:         gateway,
		txManager:       txManager,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute выполняет use case создания платежа
// Транзакция и связь с бронированием создаются в одной сериализуемой
// транзакции БД ДО обращения к шлюзу: уведомление провайдера, пришедшее
// сразу после создания сессии, уже найдет связанное бронирование
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreatePayment: booking=%s, user=%d", req.BookingID, req.UserID)

	var (
		booking *domain.Booking
		payment *domain.Transaction
		orderID string
	)

	err := uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		var err error

		// 1. Получаем бронирование и проверяем права доступа
		booking, err = uc.bookingRepo.GetByID(ctx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if booking.UserID != req.UserID {
			return ErrAccessDenied
		}

		// 2. Оплатить можно только одобренное бронирование
		if !booking.CanBePaid() {
			uc.logger.Warn("CreatePayment: booking=%s has status %s, payment rejected",
				booking.ID, booking.Status)
			return ErrBookingNotPayable
		}

		// 3. Создаем транзакцию с уникальным order_id
		// Повторный запрос оплаты порождает новую сессию с новым order_id;
		// связь бронирования переключается на последнюю транзакцию
		orderID = domain.BuildOrderID(booking.ID, uc.timeProvider.Now())

		payment, err = uc.transactionRepo.Create(ctx, &domain.Transaction{
			OrderID:     orderID,
			Status:      domain.ProviderStatusPending,
			GrossAmount: booking.FieldPrice,
			Raw:         []byte("{}"),
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create transaction: %v", ErrInternal, err)
		}

		// 4. Связываем бронирование с транзакцией
		if err := uc.bookingRepo.SetTransactionID(ctx, booking.ID, payment.ID); err != nil {
			return fmt.Errorf("%w: failed to link transaction to booking: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if isBusinessError(err) {
			return nil, err
		}
		uc.logger.Error("CreatePayment: transaction failed for booking=%s: %v", req.BookingID, err)
		return nil, err
	}

	// 5. Создаем платежную сессию у шлюза
	session, err := uc.gateway.CreateSession(ctx, &midtranspay.SessionRequest{
		OrderID:       orderID,
		GrossAmount:   booking.FieldPrice,
		CustomerName:  booking.UserName,
		CustomerEmail: booking.UserEmail,
		ItemID:        booking.FieldID.String(),
		ItemName:      fmt.Sprintf("Sewa %s (%s %s-%s)", booking.FieldName, booking.Date.Format(domain.DateFormat), booking.Start, booking.End),
	})
	if err != nil {
		uc.logger.Error("CreatePayment: gateway rejected session for order_id=%s: %v", orderID, err)
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	uc.logger.Info("CreatePayment: session created, booking=%s, order_id=%s", booking.ID, orderID)

	return &Response{
		Token:         session.Token,
		PaymentURL:    session.RedirectURL,
		OrderID:       orderID,
		TransactionID: payment.ID,
	}, nil
}

func isBusinessError(err error) bool {
	return errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrAccessDenied) ||
		errors.Is(err, ErrBookingNotPayable)
}
