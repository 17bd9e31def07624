package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SportBook-BookingService/internal/api/handlers"
)

const userIDHeader = "X-User-ID"

const msgMissingUserID = "отсутствует заголовок X-User-ID"

type ctxKey int

const userIDKey ctxKey = iota

// Auth middleware проверяет наличие идентификатора пользователя в запросе
// Идентификацию выполняет внешний шлюз, сервис доверяет заголовку
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(userIDHeader)
		if raw == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID извлекает ID пользователя из контекста запроса
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
