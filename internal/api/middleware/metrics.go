package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SportBook-BookingService/pkg/metrics"
)

// statusRecorder запоминает статус ответа для метрик
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// MetricsMiddleware собирает HTTP метрики по каждому запросу
// В качестве path используется шаблон маршрута mux, а не сырой URL,
// чтобы не раздувать кардинальность метрик
func MetricsMiddleware(collector *metrics.Metrics, serviceName string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			path := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if template, err := route.GetPathTemplate(); err == nil {
					path = template
				}
			}

			collector.ObserveHTTPRequest(r.Method, path, recorder.status, time.Since(start))
		})
	}
}
