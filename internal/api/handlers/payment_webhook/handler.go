package payment_webhook

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/SportBook-BookingService/internal/api/handlers"
	processWebhook "github.com/m04kA/SportBook-BookingService/internal/usecase/process_webhook"
)

const (
	msgMissingOrderID = "Missing order_id"
	msgInvalidBody    = "Invalid notification body"

	maxBodySize = 1 << 20 // 1 MiB, payload провайдера на порядки меньше
)

type Handler struct {
	useCase ProcessWebhookUseCase
	metrics MetricsCollector
	logger  Logger
}

// NewHandler создает новый экземпляр обработчика
// metrics может быть nil, если метрики выключены
func NewHandler(useCase ProcessWebhookUseCase, metrics MetricsCollector, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/midtrans/webhook
// Любой ответ кроме 200 провоцирует редоставку уведомления провайдером,
// поэтому 5xx возвращается только когда повторная попытка имеет смысл
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	// Тело читается целиком: сырой payload сохраняется для аудита
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		h.logger.Warn("POST /payments/midtrans/webhook - Failed to read body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	var req WebhookRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.logger.Warn("POST /payments/midtrans/webhook - Invalid JSON body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseNotification(raw))
	if err != nil {
		switch {
		case errors.Is(err, processWebhook.ErrMissingOrderID):
			h.logger.Warn("POST /payments/midtrans/webhook - Missing order_id")
			handlers.RespondBadRequest(w, msgMissingOrderID)

		case errors.Is(err, processWebhook.ErrSideEffect):
			// Статусы уже закоммичены; редоставка повторит выпуск билета
			h.logger.Error("POST /payments/midtrans/webhook - Side effect failed: order_id=%s, error=%v",
				req.OrderID, err)
			h.observeFailure()
			handlers.RespondInternalError(w)

		default:
			h.logger.Error("POST /payments/midtrans/webhook - Failed to process notification: order_id=%s, error=%v",
				req.OrderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.observeResult(result)

	h.logger.Info("POST /payments/midtrans/webhook - Notification processed: order_id=%s, outcome=%s",
		req.OrderID, result.Outcome)
	handlers.RespondJSON(w, http.StatusOK, WebhookResponse{Success: true})
}

func (h *Handler) observeResult(result *processWebhook.Result) {
	if h.metrics == nil {
		return
	}

	h.metrics.IncWebhook(string(result.Outcome))

	if result.TicketIssued {
		h.metrics.IncTicketIssued()
	}
	if result.EmailSent {
		h.metrics.IncEmail("sent")
	}
}

func (h *Handler) observeFailure() {
	if h.metrics == nil {
		return
	}

	h.metrics.IncWebhook("side_effect_failed")
	h.metrics.IncEmail("failed")
}
