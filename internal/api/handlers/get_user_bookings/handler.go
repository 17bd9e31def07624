package get_user_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SportBook-BookingService/internal/api/handlers"
	"github.com/m04kA/SportBook-BookingService/internal/api/middleware"
	"github.com/m04kA/SportBook-BookingService/internal/service/bookings"
	"github.com/m04kA/SportBook-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidUserID = "некорректный ID пользователя"
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "доступ запрещен"
	msgInvalidStatus = "некорректный статус бронирования"
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

// Handle GET /api/v1/users/{userId}/bookings
// Query params: status (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем userId из URL
	vars := mux.Vars(r)

	userID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /users/{userId}/bookings - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	authUserID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /users/{userId}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Пользователь видит только собственную историю
	if authUserID != userID {
		h.logger.Warn("GET /users/{userId}/bookings - Access denied: user_id=%d, auth_user_id=%d", userID, authUserID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	// Получаем status из query параметров (опционально)
	status := r.URL.Query().Get("status")
	var statusPtr *string
	if status != "" {
		statusPtr = &status
	}

	result, err := h.service.GetUserBookings(r.Context(), &models.GetUserBookingsRequest{
		UserID: userID,
		Status: statusPtr,
	})
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /users/{userId}/bookings - Invalid status: user_id=%d, status=%s", userID, status)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}

		h.logger.Error("GET /users/{userId}/bookings - Failed to get bookings: user_id=%d, error=%v",
			userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /users/{userId}/bookings - Bookings retrieved successfully: user_id=%d, count=%d",
		userID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
