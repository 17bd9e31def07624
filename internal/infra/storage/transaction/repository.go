package transaction

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SportBook-BookingService/internal/domain"
	"github.com/m04kA/SportBook-BookingService/pkg/dbmetrics"
	"github.com/m04kA/SportBook-BookingService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для работы с платежными транзакциями
// Записи никогда не удаляются: история уведомлений - аудиторский след
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория транзакций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert записывает транзакцию по внешнему ключу order_id
// Единственная атомарная запись: первое уведомление создает строку,
// повторные обновляют её на месте. Конкурентные доставки одного order_id
// не создают дубликатов - конфликт разруливает уникальный индекс.
func (r *Repository) Upsert(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("transactions").
		Columns(
			"order_id",
			"status",
			"payment_type",
			"gross_amount",
			"raw",
		).
		Values(
			tx.OrderID,
			tx.Status,
			tx.PaymentType,
			tx.GrossAmount,
			[]byte(tx.Raw),
		).
		Suffix(`ON CONFLICT (order_id) DO UPDATE SET
			status = EXCLUDED.status,
			payment_type = EXCLUDED.payment_type,
			gross_amount = EXCLUDED.gross_amount,
			raw = EXCLUDED.raw,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&tx.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute upsert: %v", ErrExecQuery, err)
	}

	tx.CreatedAt = createdAt.Time
	tx.UpdatedAt = updatedAt.Time

	return tx, nil
}

// Create создает новую транзакцию
// Используется при создании платежной сессии (order_id только что выпущен)
func (r *Repository) Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("transactions").
		Columns(
			"order_id",
			"status",
			"payment_type",
			"gross_amount",
			"raw",
		).
		Values(
			tx.OrderID,
			tx.Status,
			tx.PaymentType,
			tx.GrossAmount,
			[]byte(tx.Raw),
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&tx.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	tx.CreatedAt = createdAt.Time
	tx.UpdatedAt = updatedAt.Time

	return tx, nil
}

// GetByID получает транзакцию по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"order_id",
		"status",
		"payment_type",
		"gross_amount",
		"raw",
		"created_at",
		"updated_at",
	).
		From("transactions").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanTransaction(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

func (r *Repository) scanTransaction(row *sql.Row, op string) (*domain.Transaction, error) {
	var tx domain.Transaction
	var paymentType sql.NullString
	var raw []byte
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&tx.ID,
		&tx.OrderID,
		&tx.Status,
		&paymentType,
		&tx.GrossAmount,
		&raw,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan transaction: %v", ErrScanRow, op, err)
	}

	if paymentType.Valid {
		tx.PaymentType = &paymentType.String
	}
	tx.Raw = raw
	tx.CreatedAt = createdAt.Time
	tx.UpdatedAt = updatedAt.Time

	return &tx, nil
}
