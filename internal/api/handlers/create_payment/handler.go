package create_payment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SportBook-BookingService/internal/api/handlers"
	"github.com/m04kA/SportBook-BookingService/internal/api/middleware"
	createPayment "github.com/m04kA/SportBook-BookingService/internal/usecase/create_payment"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgBookingNotFound    = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgBookingNotPayable  = "бронирование еще не одобрено владельцем площадки"
	msgGatewayUnavailable = "платежный сервис временно недоступен"
)

type Handler struct {
	useCase CreatePaymentUseCase
	logger  Logger
}

func NewHandler(useCase CreatePaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	bookingID, err := uuid.Parse(vars["bookingId"])
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/payment - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/payment - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &createPayment.Request{
		BookingID: bookingID,
		UserID:    userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, createPayment.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/payment - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, createPayment.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/payment - Access denied: booking_id=%s, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createPayment.ErrBookingNotPayable):
			h.logger.Warn("POST /bookings/{id}/payment - Booking not payable: booking_id=%s", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgBookingNotPayable)

		case errors.Is(err, createPayment.ErrGatewayUnavailable):
			h.logger.Error("POST /bookings/{id}/payment - Gateway unavailable: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgGatewayUnavailable)

		default:
			h.logger.Error("POST /bookings/{id}/payment - Failed to create payment: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/payment - Payment session created: booking_id=%s, order_id=%s",
		bookingID, result.OrderID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
