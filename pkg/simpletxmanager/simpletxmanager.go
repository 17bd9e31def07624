package simpletxmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/SportBook-BookingService/pkg/dbmetrics"
)

const serializationFailureCode = "40001"

const maxRetries = 3

// TransactionManager менеджер сериализуемых транзакций поверх *sql.DB
// Используется, когда метрики отключены
type TransactionManager struct {
	db *sql.DB
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db *sql.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// DoSerializable выполняет fn в сериализуемой транзакции
// Семантика идентична txmanager.TransactionManager, но без обертки метрик
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := m.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("simpletxmanager: serialization retries exhausted: %w", lastErr)
}

func (m *TransactionManager) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("simpletxmanager: failed to begin transaction: %w", err)
	}

	txCtx := dbmetrics.WithTransaction(ctx, plainTx{tx})

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("simpletxmanager: failed to commit transaction: %w", err)
	}

	return nil
}

// plainTx адаптер *sql.Tx под dbmetrics.TxExecutor
type plainTx struct {
	*sql.Tx
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == serializationFailureCode
	}
	return false
}
