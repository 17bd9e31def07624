package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SportBook-BookingService/internal/domain"
	"github.com/m04kA/SportBook-BookingService/pkg/dbmetrics"
	"github.com/m04kA/SportBook-BookingService/pkg/psqlbuilder"
)

// uniqueViolationCode код ошибки PostgreSQL при нарушении уникальности
const uniqueViolationCode = "23505"

// bookingColumns полный список колонок таблицы bookings
var bookingColumns = []string{
	"id",
	"field_id",
	"user_id",
	"booking_date",
	"time_start",
	"time_end",
	"status",
	"transaction_id",
	"ticket_issued_at",
	"user_name",
	"user_email",
	"field_name",
	"field_price",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция (через context.Value), использует её.
// Частичный уникальный индекс bookings_slot_key страхует от двух активных
// бронирований на один слот даже вне сериализуемой транзакции.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"field_id",
			"user_id",
			"booking_date",
			"time_start",
			"time_end",
			"status",
			"user_name",
			"user_email",
			"field_name",
			"field_price",
		).
		Values(
			booking.FieldID,
			booking.UserID,
			booking.Date,
			booking.Start,
			booking.End,
			booking.Status,
			booking.UserName,
			booking.UserEmail,
			booking.FieldName,
			booking.FieldPrice,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanBooking(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// GetByTransactionID получает бронирование, связанное с транзакцией оплаты
// Основной путь разрешения бронирования при обработке webhook'а
func (r *Repository) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"transaction_id": transactionID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByTransactionID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanBooking(executor.QueryRowContext(ctx, query, args...), "GetByTransactionID")
}

// GetByFieldAndDate получает бронирования поля на конкретную дату
// Возвращает только активные бронирования (не REJECTED и не CANCELED) -
// именно они занимают слоты. Сортировка по времени начала фиксирует
// детерминированный порядок обхода при вычислении доступности.
// Внутри транзакции добавляет FOR UPDATE (для проверки слота при создании).
func (r *Repository) GetByFieldAndDate(ctx context.Context, fieldID uuid.UUID, date time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	inactiveStatusStrings := make([]string, len(domain.InactiveStatuses))
	for i, s := range domain.InactiveStatuses {
		inactiveStatusStrings[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"field_id": fieldID}).
		Where(squirrel.Eq{"booking_date": date}).
		Where(squirrel.NotEq{"status": inactiveStatusStrings}).
		OrderBy("time_start ASC, created_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFieldAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFieldAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByUserID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("booking_date DESC, time_start DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// UpdateStatusWhere переводит бронирование в status, только если текущий
// статус входит в allowedFrom. Возвращает true, если переход произошел.
// Условие делает переход идемпотентным при конкурентных и повторных
// доставках webhook'а: второй вызов не находит строку и ничего не меняет.
func (r *Repository) UpdateStatusWhere(ctx context.Context, id uuid.UUID, status domain.BookingStatus, allowedFrom []domain.BookingStatus) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	fromStrings := make([]string, len(allowedFrom))
	for i, s := range allowedFrom {
		fromStrings[i] = string(s)
	}

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": fromStrings}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: UpdateStatusWhere - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: UpdateStatusWhere - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: UpdateStatusWhere - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// SetTransactionID записывает связь бронирования с транзакцией оплаты
// Вызывается синхронно при создании платежной сессии, в одной транзакции
// со вставкой записи в transactions
func (r *Repository) SetTransactionID(ctx context.Context, id uuid.UUID, transactionID uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("transaction_id", transactionID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetTransactionID - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetTransactionID - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetTransactionID - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// ClaimTicketIssue атомарно захватывает право на выпуск билета (check-and-set)
// Возвращает true ровно одному вызывающему: повторные доставки уведомления
// об успешной оплате не приводят к повторному выпуску и письму
func (r *Repository) ClaimTicketIssue(ctx context.Context, id uuid.UUID) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("ticket_issued_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where("ticket_issued_at IS NULL").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ClaimTicketIssue - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: ClaimTicketIssue - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: ClaimTicketIssue - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// ReleaseTicketClaim снимает захват выпуска билета
// Вызывается при сбое рендера или отправки письма, чтобы редоставка
// уведомления повторила выпуск
func (r *Repository) ReleaseTicketClaim(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("ticket_issued_at", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReleaseTicketClaim - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReleaseTicketClaim - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// scanBooking сканирует одну строку бронирования
func (r *Repository) scanBooking(row *sql.Row, op string) (*domain.Booking, error) {
	var booking domain.Booking
	var transactionID uuid.NullUUID
	var ticketIssuedAt sql.NullTime
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.FieldID,
		&booking.UserID,
		&booking.Date,
		&booking.Start,
		&booking.End,
		&booking.Status,
		&transactionID,
		&ticketIssuedAt,
		&booking.UserName,
		&booking.UserEmail,
		&booking.FieldName,
		&booking.FieldPrice,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
	}

	if transactionID.Valid {
		booking.TransactionID = &transactionID.UUID
	}
	if ticketIssuedAt.Valid {
		booking.TicketIssuedAt = &ticketIssuedAt.Time
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking
		var transactionID uuid.NullUUID
		var ticketIssuedAt sql.NullTime
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&booking.ID,
			&booking.FieldID,
			&booking.UserID,
			&booking.Date,
			&booking.Start,
			&booking.End,
			&booking.Status,
			&transactionID,
			&ticketIssuedAt,
			&booking.UserName,
			&booking.UserEmail,
			&booking.FieldName,
			&booking.FieldPrice,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		if transactionID.Valid {
			booking.TransactionID = &transactionID.UUID
		}
		if ticketIssuedAt.Valid {
			booking.TicketIssuedAt = &ticketIssuedAt.Time
		}
		booking.CreatedAt = createdAt.Time
		booking.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolationCode
	}
	return false
}
