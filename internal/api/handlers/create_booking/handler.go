package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SportBook-BookingService/internal/api/handlers"
	"github.com/m04kA/SportBook-BookingService/internal/api/middleware"
	createBooking "github.com/m04kA/SportBook-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные данные бронирования"
	msgFieldNotFound      = "площадка не найдена"
	msgPastDateTime       = "выбранное время уже прошло"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInput)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrFieldNotFound):
			h.logger.Warn("POST /bookings - Field not found: user_id=%d, field_id=%s", userID, req.FieldID)
			handlers.RespondNotFound(w, msgFieldNotFound)

		case errors.Is(err, createBooking.ErrPastDateTime):
			h.logger.Warn("POST /bookings - Past date/time: user_id=%d, date=%s, time=%s", userID, req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgPastDateTime)

		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: user_id=%d, field_id=%s, date=%s, time=%s-%s",
				userID, req.FieldID, req.Date, req.StartTime, req.EndTime)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, user_id=%d, field_id=%s",
		result.Booking.ID, userID, req.FieldID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
