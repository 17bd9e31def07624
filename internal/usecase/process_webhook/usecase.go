package process_webhook

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SportBook-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/SportBook-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/SportBook-BookingService/internal/mailer"
	"github.com/m04kA/SportBook-BookingService/internal/ticket"
)

const (
	emailSubject = "E-Ticket SportBook - Pembayaran Berhasil"

	emailBodyTemplate = `<h3>Halo %s,</h3>
<p>Pembayaran Anda telah <b style="color:green">BERHASIL</b>.</p>
<p>Terlampir e-ticket Anda. Tunjukkan QR saat check-in.</p>`
)

// UseCase use case обработки уведомления платежного провайдера
//
// State machine над парой (Transaction.status, Booking.status).
// Доставка уведомлений - at-least-once и без гарантии порядка, поэтому
// каждый шаг идемпотентен: upsert по order_id, условные переходы статуса,
// атомарный guard выпуска билета.
type UseCase struct {
	transactionRepo TransactionRepository
	bookingRepo     BookingRepository
	ticketIssuer    TicketIssuer
	notifier        Notifier
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	transactionRepo TransactionRepository,
	bookingRepo BookingRepository,
	ticketIssuer TicketIssuer,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		transactionRepo: transactionRepo,
		bookingRepo:     bookingRepo,
		ticketIssuer:    ticketIssuer,
		notifier:        notifier,
		logger:          logger,
	}
}

// Execute обрабатывает уведомление
//
// Ошибка возвращается только для структурно некорректного уведомления
// (ErrMissingOrderID), сбоя хранилища (ErrInternal) или сбоя побочных
// эффектов (ErrSideEffect). Неразрешимое бронирование ошибкой не является:
// уведомление подтверждается, чтобы не провоцировать шторм ретраев провайдера.
func (uc *UseCase) Execute(ctx context.Context, n *Notification) (*Result, error) {
	// 1. Валидация до каких-либо записей
	if n.OrderID == "" {
		uc.logger.Warn("ProcessWebhook: notification without order_id rejected")
		return nil, ErrMissingOrderID
	}

	uc.logger.Info("ProcessWebhook: order_id=%s, provider_status=%s", n.OrderID, n.ProviderStatus)

	// 2. Идемпотентный upsert транзакции по order_id
	tx, err := uc.transactionRepo.Upsert(ctx, &domain.Transaction{
		OrderID:     n.OrderID,
		Status:      n.ProviderStatus,
		PaymentType: n.PaymentType,
		GrossAmount: n.GrossAmount,
		Raw:         n.Raw,
	})
	if err != nil {
		uc.logger.Error("ProcessWebhook: failed to upsert transaction order_id=%s: %v", n.OrderID, err)
		return nil, fmt.Errorf("%w: failed to upsert transaction: %v", ErrInternal, err)
	}

	// 3. Разрешаем бронирование
	booking, err := uc.resolveBooking(ctx, tx.ID, n.OrderID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		uc.logger.Warn("ProcessWebhook: no booking resolved for order_id=%s, acknowledging", n.OrderID)
		return &Result{Outcome: OutcomeUnresolved, TransactionID: tx.ID}, nil
	}

	result := &Result{
		BookingID:     &booking.ID,
		TransactionID: tx.ID,
	}

	// 4. Терминальный переход
	switch {
	case domain.IsSuccessStatus(n.ProviderStatus):
		return uc.handleSuccess(ctx, booking, result)

	case domain.IsFailureStatus(n.ProviderStatus):
		return uc.handleFailure(ctx, booking, result)

	default:
		// Нетерминальный статус (например, "pending"): транзакция записана,
		// бронирование не трогаем
		uc.logger.Info("ProcessWebhook: non-terminal status %q recorded for order_id=%s",
			n.ProviderStatus, n.OrderID)
		result.Outcome = OutcomeRecorded
		return result, nil
	}
}

// resolveBooking находит бронирование для транзакции
// Основной путь - по записанной связи transaction_id. Fallback - разбор
// order_id (deprecated-путь для уведомлений, обогнавших запись связи).
// nil без ошибки означает "не найдено".
func (uc *UseCase) resolveBooking(ctx context.Context, transactionID uuid.UUID, orderID string) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByTransactionID(ctx, transactionID)
	if err == nil {
		return booking, nil
	}
	if !errors.Is(err, bookingRepo.ErrBookingNotFound) {
		uc.logger.Error("ProcessWebhook: failed to resolve booking by transaction id=%s: %v", transactionID, err)
		return nil, fmt.Errorf("%w: failed to resolve booking: %v", ErrInternal, err)
	}

	// Fallback: извлекаем ID бронирования из order_id
	bookingID, parseErr := domain.ParseOrderID(orderID)
	if parseErr != nil {
		uc.logger.Warn("ProcessWebhook: order_id=%s is not parseable: %v", orderID, parseErr)
		return nil, nil
	}

	uc.logger.Warn("ProcessWebhook: booking link missing for order_id=%s, using parsed booking id=%s",
		orderID, bookingID)

	booking, err = uc.bookingRepo.GetByID(ctx, bookingID)
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		return nil, nil
	}
	if err != nil {
		uc.logger.Error("ProcessWebhook: failed to get booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	return booking, nil
}

// handleSuccess переводит бронирование в PAID и единожды выпускает билет
func (uc *UseCase) handleSuccess(ctx context.Context, booking *domain.Booking, result *Result) (*Result, error) {
	transitioned, err := uc.bookingRepo.UpdateStatusWhere(ctx, booking.ID, domain.StatusPaid,
		[]domain.BookingStatus{domain.StatusApproved})
	if err != nil {
		uc.logger.Error("ProcessWebhook: failed to mark booking id=%s as paid: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to mark booking as paid: %v", ErrInternal, err)
	}

	if transitioned {
		uc.logger.Info("ProcessWebhook: booking id=%s marked as PAID", booking.ID)
	} else if booking.Status != domain.StatusPaid {
		// Оплата бронирования, которое не было одобрено (или уже отклонено).
		// Подтверждаем уведомление, но билет не выпускаем: инвариант
		// "PAID только из APPROVED" важнее щедрости провайдера.
		uc.logger.Warn("ProcessWebhook: payment for booking id=%s in status %s ignored",
			booking.ID, booking.Status)
		result.Outcome = OutcomeIgnored
		return result, nil
	}

	// 5. Guard выпуска билета: захват проходит ровно один раз на бронирование
	claimed, err := uc.bookingRepo.ClaimTicketIssue(ctx, booking.ID)
	if err != nil {
		uc.logger.Error("ProcessWebhook: failed to claim ticket issue for booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to claim ticket issue: %v", ErrInternal, err)
	}

	if !claimed {
		uc.logger.Info("ProcessWebhook: ticket already issued for booking id=%s, skipping side effects", booking.ID)
		result.Outcome = OutcomeDuplicate
		return result, nil
	}

	// 6. Побочные эффекты: рендер билета и письмо
	// При сбое снимаем захват, чтобы редоставка уведомления повторила выпуск;
	// статус PAID не откатывается
	if err := uc.issueAndSend(booking); err != nil {
		if releaseErr := uc.bookingRepo.ReleaseTicketClaim(ctx, booking.ID); releaseErr != nil {
			uc.logger.Error("ProcessWebhook: failed to release ticket claim for booking id=%s: %v",
				booking.ID, releaseErr)
		}
		return nil, err
	}

	result.Outcome = OutcomePaid
	result.TicketIssued = true
	result.EmailSent = true
	return result, nil
}

// handleFailure переводит бронирование в CANCELED
func (uc *UseCase) handleFailure(ctx context.Context, booking *domain.Booking, result *Result) (*Result, error) {
	transitioned, err := uc.bookingRepo.UpdateStatusWhere(ctx, booking.ID, domain.StatusCanceled,
		[]domain.BookingStatus{domain.StatusPending, domain.StatusApproved})
	if err != nil {
		uc.logger.Error("ProcessWebhook: failed to cancel booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
	}

	if !transitioned {
		uc.logger.Info("ProcessWebhook: booking id=%s already terminal (%s), cancel is a no-op",
			booking.ID, booking.Status)
		result.Outcome = OutcomeDuplicate
		return result, nil
	}

	uc.logger.Info("ProcessWebhook: booking id=%s marked as CANCELED", booking.ID)
	result.Outcome = OutcomeCancelled
	return result, nil
}

func (uc *UseCase) issueAndSend(booking *domain.Booking) error {
	customerName := booking.UserName
	if customerName == "" {
		customerName = booking.UserEmail
	}

	document, err := uc.ticketIssuer.Render(&ticket.Ticket{
		BookingID: booking.ID.String(),
		UserName:  customerName,
		FieldName: booking.FieldName,
		Date:      booking.Date.Format(domain.DateFormat),
		TimeRange: fmt.Sprintf("%s - %s", booking.Start, booking.End),
		Price:     domain.FormatPrice(booking.FieldPrice),
	})
	if err != nil {
		uc.logger.Error("ProcessWebhook: failed to render ticket for booking id=%s: %v", booking.ID, err)
		return fmt.Errorf("%w: render ticket: %v", ErrSideEffect, err)
	}

	uc.logger.Info("ProcessWebhook: ticket rendered for booking id=%s (%d bytes)", booking.ID, len(document))

	err = uc.notifier.Send(
		booking.UserEmail,
		emailSubject,
		fmt.Sprintf(emailBodyTemplate, customerName),
		[]mailer.Attachment{
			{
				Filename:    fmt.Sprintf("E-Ticket-%s.pdf", booking.ID),
				Content:     document,
				ContentType: "application/pdf",
			},
		},
	)
	if err != nil {
		uc.logger.Error("ProcessWebhook: failed to send ticket email for booking id=%s: %v", booking.ID, err)
		return fmt.Errorf("%w: send email: %v", ErrSideEffect, err)
	}

	uc.logger.Info("ProcessWebhook: ticket email sent for booking id=%s to=%s", booking.ID, booking.UserEmail)
	return nil
}
