package handlers

import (
	"encoding/json"
	"net/http"
)

const msgInternalError = "внутренняя ошибка сервера"

// errorResponse тело ответа с ошибкой
type errorResponse struct {
	Error string `json:"error"`
}

// RespondJSON сериализует payload и пишет его с указанным статусом
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if payload == nil {
		return
	}

	// Статус уже отправлен, ошибку кодирования остается только проглотить
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError пишет ответ с ошибкой в формате {"error": "..."}
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, errorResponse{Error: message})
}

// RespondBadRequest пишет 400 Bad Request
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

// RespondUnauthorized пишет 401 Unauthorized
func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

// RespondForbidden пишет 403 Forbidden
func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

// RespondNotFound пишет 404 Not Found
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

// RespondInternalError пишет 500 Internal Server Error
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// DecodeJSON декодирует тело запроса в dst
// Неизвестные поля не считаются ошибкой: провайдеры и клиенты
// свободно расширяют свои payload'ы
func DecodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
