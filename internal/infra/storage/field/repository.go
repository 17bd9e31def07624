package field

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

// Repository репозиторий справочника полей (только чтение)
// Справочник ведется снаружи этого сервиса
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория полей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает поле по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Field, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"owner_id",
		"name",
		"price",
		"created_at",
		"updated_at",
	).
		From("fields").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var field domain.Field
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&field.ID,
		&field.OwnerID,
		&field.Name,
		&field.Price,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrFieldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan field: %v", ErrScanRow, err)
	}

	field.CreatedAt = createdAt.Time
	field.UpdatedAt = updatedAt.Time

	return &field, nil
}
