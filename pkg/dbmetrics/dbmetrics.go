package dbmetrics

import (
	"context"
	"database/sql"
	"time"

	"github.com/m04kA/SportBook-BookingService/pkg/metrics"
)

// DBExecutor интерфейс для выполнения запросов к БД
// Реализуется *sql.DB, *sql.Tx и обертками с метриками
type DBExecutor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// TxExecutor интерфейс транзакции
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

// ctxKey ключ контекста для активной транзакции
type ctxKey struct{}

// WithTransaction кладет активную транзакцию в контекст
// Репозитории достают её через GetExecutor и выполняют запросы в рамках транзакции
func WithTransaction(ctx context.Context, tx TxExecutor) context.Context {
	return context.WithValue(ctx, ctxKey{}, tx)
}

// GetExecutor возвращает executor из контекста (активную транзакцию),
// либо fallback, если транзакции нет
func GetExecutor(ctx context.Context, fallback DBExecutor) DBExecutor {
	if tx, ok := ctx.Value(ctxKey{}).(TxExecutor); ok {
		return tx
	}
	return fallback
}

// IsInTransaction возвращает true, если в контексте есть активная транзакция
func IsInTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(ctxKey{}).(TxExecutor)
	return ok
}

// DB обертка над *sql.DB с записью метрик по каждому запросу
type DB struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

// Wrap оборачивает *sql.DB коллектором метрик
func Wrap(db *sql.DB, m *metrics.Metrics) *DB {
	return &DB{db: db, metrics: m}
}

// WrapWithDefault оборачивает *sql.DB и запускает периодический сбор
// статистики connection pool до закрытия stopCh
func WrapWithDefault(db *sql.DB, m *metrics.Metrics, serviceName string, stopCh chan struct{}) *DB {
	wrapped := Wrap(db, m)

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.SetDBPoolStats(db.Stats())
			case <-stopCh:
				return
			}
		}
	}()

	return wrapped
}

// QueryContext выполняет запрос с записью метрик
func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.observe("query", start, err)
	return rows, err
}

// QueryRowContext выполняет запрос одной строки с записью метрик
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.observe("query_row", start, nil)
	return row
}

// ExecContext выполняет запрос без результата с записью метрик
func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := d.db.ExecContext(ctx, query, args...)
	d.observe("exec", start, err)
	return result, err
}

// BeginTx начинает транзакцию, запросы которой тоже попадают в метрики
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	start := time.Now()
	tx, err := d.db.BeginTx(ctx, opts)
	d.observe("begin_tx", start, err)
	if err != nil {
		return nil, err
	}
	return &meteredTx{tx: tx, parent: d}, nil
}

func (d *DB) observe(operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	d.metrics.ObserveDBQuery(operation, status, time.Since(start))
}

// meteredTx транзакция с записью метрик
type meteredTx struct {
	tx     *sql.Tx
	parent *DB
}

func (t *meteredTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.parent.observe("tx_query", start, err)
	return rows, err
}

func (t *meteredTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	t.parent.observe("tx_query_row", start, nil)
	return row
}

func (t *meteredTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := t.tx.ExecContext(ctx, query, args...)
	t.parent.observe("tx_exec", start, err)
	return result, err
}

func (t *meteredTx) Commit() error {
	start := time.Now()
	err := t.tx.Commit()
	t.parent.observe("tx_commit", start, err)
	return err
}

func (t *meteredTx) Rollback() error {
	return t.tx.Rollback()
}
