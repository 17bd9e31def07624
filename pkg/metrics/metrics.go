package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics коллектор prometheus-метрик сервиса
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueriesTotal  *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec

	dbConnectionsOpen  *prometheus.GaugeVec
	dbConnectionsInUse *prometheus.GaugeVec
	dbConnectionsIdle  *prometheus.GaugeVec

	webhooksTotal      *prometheus.CounterVec
	ticketsIssuedTotal *prometheus.CounterVec
	emailsTotal        *prometheus.CounterVec
}

// New создает и регистрирует метрики сервиса
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		dbQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		dbConnectionsOpen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections_open",
			Help:        "Number of open database connections",
			ConstLabels: constLabels,
		}, []string{}),

		dbConnectionsInUse: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections_in_use",
			Help:        "Number of database connections currently in use",
			ConstLabels: constLabels,
		}, []string{}),

		dbConnectionsIdle: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections_idle",
			Help:        "Number of idle database connections",
			ConstLabels: constLabels,
		}, []string{}),

		webhooksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "payment_webhooks_total",
			Help:        "Total number of processed payment webhooks by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),

		ticketsIssuedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "tickets_issued_total",
			Help:        "Total number of issued e-tickets",
			ConstLabels: constLabels,
		}, []string{}),

		emailsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "emails_total",
			Help:        "Total number of email dispatch attempts by status",
			ConstLabels: constLabels,
		}, []string{"status"}),
	}
}

// ObserveHTTPRequest записывает метрики HTTP запроса
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery записывает метрики запроса к БД
func (m *Metrics) ObserveDBQuery(operation, status string, duration time.Duration) {
	m.dbQueriesTotal.WithLabelValues(operation, status).Inc()
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetDBPoolStats записывает состояние connection pool
func (m *Metrics) SetDBPoolStats(stats sql.DBStats) {
	m.dbConnectionsOpen.WithLabelValues().Set(float64(stats.OpenConnections))
	m.dbConnectionsInUse.WithLabelValues().Set(float64(stats.InUse))
	m.dbConnectionsIdle.WithLabelValues().Set(float64(stats.Idle))
}

// IncWebhook увеличивает счетчик обработанных webhook'ов
// outcome: paid | cancelled | recorded | unresolved | rejected | failed
func (m *Metrics) IncWebhook(outcome string) {
	m.webhooksTotal.WithLabelValues(outcome).Inc()
}

// IncTicketIssued увеличивает счетчик выпущенных билетов
func (m *Metrics) IncTicketIssued() {
	m.ticketsIssuedTotal.WithLabelValues().Inc()
}

// IncEmail увеличивает счетчик попыток отправки email
// status: sent | failed
func (m *Metrics) IncEmail(status string) {
	m.emailsTotal.WithLabelValues(status).Inc()
}
