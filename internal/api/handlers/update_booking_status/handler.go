package update_booking_status

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SportBook-BookingService/internal/api/handlers"
	"github.com/m04kA/SportBook-BookingService/internal/api/middleware"
	"github.com/m04kA/SportBook-BookingService/internal/service/bookings"
	"github.com/m04kA/SportBook-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgInvalidStatus      = "допустимые статусы: APPROVED или REJECTED"
	msgStatusConflict     = "бронирование уже рассмотрено"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	bookingID, err := uuid.Parse(vars["bookingId"])
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/status - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	req.BookingID = bookingID
	req.UserID = userID

	result, err := h.service.UpdateStatus(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound), errors.Is(err, bookings.ErrFieldNotFound):
			h.logger.Warn("PATCH /bookings/{id}/status - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/status - Access denied: booking_id=%s, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidStatus):
			h.logger.Warn("PATCH /bookings/{id}/status - Invalid status: booking_id=%s, status=%s", bookingID, req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, bookings.ErrStatusConflict):
			h.logger.Warn("PATCH /bookings/{id}/status - Status conflict: booking_id=%s", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgStatusConflict)

		default:
			h.logger.Error("PATCH /bookings/{id}/status - Failed to update status: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/status - Status updated successfully: booking_id=%s, status=%s, user_id=%d",
		bookingID, result.Status, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
