package get_availability

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SportBook-BookingService/internal/api/handlers"
	getAvailability "github.com/m04kA/SportBook-BookingService/internal/usecase/get_availability"
)

const (
	msgInvalidFieldID = "некорректный ID площадки"
	msgMissingDate    = "дата обязательна"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgFieldNotFound  = "площадка не найдена"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/fields/{fieldId}/availability
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	// Извлекаем fieldId из URL
	fieldID, err := uuid.Parse(vars["fieldId"])
	if err != nil {
		h.logger.Warn("GET /fields/{id}/availability - Invalid field ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFieldID)
		return
	}

	// Извлекаем date из query параметров
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /fields/{id}/availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(fieldID, dateStr)
	if err != nil {
		h.logger.Warn("GET /fields/{id}/availability - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrFieldNotFound):
			h.logger.Warn("GET /fields/{id}/availability - Field not found: field_id=%s", fieldID)
			handlers.RespondNotFound(w, msgFieldNotFound)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /fields/{id}/availability - Invalid input: field_id=%s, error=%v", fieldID, err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /fields/{id}/availability - Failed to get slots: field_id=%s, date=%s, error=%v",
				fieldID, dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /fields/{id}/availability - Slots retrieved successfully: field_id=%s, date=%s, slots_count=%d",
		fieldID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
