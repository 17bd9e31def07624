package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/SportBook-BookingService/pkg/dbmetrics"
)

// serializationFailureCode код ошибки PostgreSQL при конфликте сериализации
const serializationFailureCode = "40001"

// maxRetries количество повторов при конфликте сериализации
const maxRetries = 3

// TransactionManager менеджер сериализуемых транзакций поверх dbmetrics.DB
type TransactionManager struct {
	db *dbmetrics.DB
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db *dbmetrics.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// DoSerializable выполняет fn в сериализуемой транзакции
// Транзакция кладется в контекст, репозитории достают её через dbmetrics.GetExecutor.
// При конфликте сериализации (40001) транзакция повторяется до maxRetries раз.
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

	return fmt.Errorf("txmanager: serialization retries exhausted: %w", lastErr)
}

func (m *TransactionManager) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("txmanager: failed to begin transaction: %w", err)
	}

	txCtx := dbmetrics.WithTransaction(ctx, tx)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("txmanager: failed to commit transaction: %w", err)
	}

	return nil
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == serializationFailureCode
	}
	return false
}
