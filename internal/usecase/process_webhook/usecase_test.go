package process_webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SportBook-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/SportBook-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/SportBook-BookingService/internal/mailer"
	"github.com/m04kA/SportBook-BookingService/internal/ticket"
)

// --- Фейки ---

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeTransactionRepo struct {
	byOrderID   map[string]*domain.Transaction
	upsertCalls int
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{byOrderID: make(map[string]*domain.Transaction)}
}

func (r *fakeTransactionRepo) Upsert(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	r.upsertCalls++

	existing, ok := r.byOrderID[tx.OrderID]
	if ok {
		existing.Status = tx.Status
		existing.PaymentType = tx.PaymentType
		existing.GrossAmount = tx.GrossAmount
		existing.Raw = tx.Raw
		return existing, nil
	}

	stored := *tx
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	r.byOrderID[tx.OrderID] = &stored
	return &stored, nil
}

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*domain.Booking
	linked   map[uuid.UUID]uuid.UUID // transactionID -> bookingID
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[uuid.UUID]*domain.Booking),
		linked:   make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*domain.Booking, error) {
	id, ok := r.linked[transactionID]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *fakeBookingRepo) UpdateStatusWhere(ctx context.Context, id uuid.UUID, status domain.BookingStatus, allowedFrom []domain.BookingStatus) (bool, error) {
	b, ok := r.bookings[id]
	if !ok {
		return false, nil
	}
	for _, from := range allowedFrom {
		if b.Status == from {
			b.Status = status
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) ClaimTicketIssue(ctx context.Context, id uuid.UUID) (bool, error) {
	b, ok := r.bookings[id]
	if !ok || b.TicketIssuedAt != nil {
		return false, nil
	}
	now := time.Now()
	b.TicketIssuedAt = &now
	return true, nil
}

func (r *fakeBookingRepo) ReleaseTicketClaim(ctx context.Context, id uuid.UUID) error {
	if b, ok := r.bookings[id]; ok {
		b.TicketIssuedAt = nil
	}
	return nil
}

type fakeTicketIssuer struct {
	renders int
	fail    bool
}

func (f *fakeTicketIssuer) Render(t *ticket.Ticket) ([]byte, error) {
	f.renders++
	if f.fail {
		return nil, errors.New("render failed")
	}
	return []byte("%PDF-1.4 fake"), nil
}

type fakeNotifier struct {
	sent []string // адресаты в порядке отправки
	fail bool
}

func (f *fakeNotifier) Send(to, subject, htmlBody string, attachments []mailer.Attachment) error {
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, to)
	return nil
}

// --- Сборка окружения ---

type env struct {
	uc          *UseCase
	txRepo      *fakeTransactionRepo
	bookingRepo *fakeBookingRepo
	issuer      *fakeTicketIssuer
	notifier    *fakeNotifier
	booking     *domain.Booking
	orderID     string
}

func newEnv(t *testing.T, status domain.BookingStatus) *env {
	t.Helper()

	txRepo := newFakeTransactionRepo()
	bRepo := newFakeBookingRepo()
	issuer := &fakeTicketIssuer{}
	notifier := &fakeNotifier{}

	booking := &domain.Booking{
		ID:         uuid.New(),
		FieldID:    uuid.New(),
		UserID:     42,
		Status:     status,
		UserName:   "Budi",
		UserEmail:  "budi@example.com",
		FieldName:  "Lapangan Futsal A",
		FieldPrice: 150000,
	}
	bRepo.bookings[booking.ID] = booking

	orderID := domain.BuildOrderID(booking.ID, time.Unix(1756500000, 0))

	// Связь booking↔transaction создается заранее, как при создании
	// платежной сессии
	tx, err := txRepo.Upsert(context.Background(), &domain.Transaction{
		OrderID: orderID,
		Status:  domain.ProviderStatusPending,
		Raw:     json.RawMessage(`{}`),
	})
	require.NoError(t, err)
	txRepo.upsertCalls = 0
	bRepo.linked[tx.ID] = booking.ID

	return &env{
		uc:          NewUseCase(txRepo, bRepo, issuer, notifier, nopLogger{}),
		txRepo:      txRepo,
		bookingRepo: bRepo,
		issuer:      issuer,
		notifier:    notifier,
		booking:     booking,
		orderID:     orderID,
	}
}

func settlement(orderID string) *Notification {
	return &Notification{
		OrderID:        orderID,
		ProviderStatus: domain.ProviderStatusSettlement,
		GrossAmount:    150000,
		Raw:            json.RawMessage(`{"transaction_status":"settlement"}`),
	}
}

// --- Тесты ---

func TestExecute_MissingOrderID(t *testing.T) {
	e := newEnv(t, domain.StatusApproved)

	_, err := e.uc.Execute(context.Background(), &Notification{ProviderStatus: domain.ProviderStatusSettlement})

	require.ErrorIs(t, err, ErrMissingOrderID)
	assert.Zero(t, e.txRepo.upsertCalls, "nothing may be written before validation")
}

func TestExecute_SettlementPaysApprovedBooking(t *testing.T) {
	e := newEnv(t, domain.StatusApproved)

	result, err := e.uc.Execute(context.Background(), settlement(e.orderID))

	require.NoError(t, err)
	assert.Equal(t, OutcomePaid, result.Outcome)
	assert.True(t, result.TicketIssued)
	assert.True(t, result.EmailSent)
	require.NotNil(t, result.BookingID)
	assert.Equal(t, e.booking.ID, *result.BookingID)

	assert.Equal(t, domain.StatusPaid, e.bookingRepo.bookings[e.booking.ID].Status)
	assert.Equal(t, 1, e.issuer.renders)
	assert.Equal(t, []string{"budi@example.com"}, e.notifier.sent)
}

func TestExecute_RepeatedDeliveriesAreIdempotent(t *testing.T) {
	e := newEnv(t, domain.StatusApproved)

	first, err := e.uc.Execute(context.Background(), settlement(e.orderID))
	require.NoError(t, err)
	assert.Equal(t, OutcomePaid, first.Outcome)

	// Провайдер доставляет то же уведомление еще несколько раз
	for i := 0; i < 5; i++ {
		result, err := e.uc.Execute(context.Background(), settlement(e.orderID))
		require.NoError(t, err)
		assert.Equal(t, OutcomeDuplicate, result.Outcome)
		assert.False(t, result.TicketIssued)
	}

	// Ровно один билет и одно письмо, бронирование остается PAID
	assert.Equal(t, 1, e.issuer.renders)
	assert.Len(t, e.notifier.sent, 1)
	assert.Equal(t, domain.StatusPaid, e.bookingRepo.bookings[e.booking.ID].Status)
	assert.Len(t, e.txRepo.byOrderID, 1, "upsert must keep a single transaction row")
}

func TestExecute_TerminalStatusMapping(t *testing.T) {
	tests := []struct {
		providerStatus string
		wantOutcome    Outcome
		wantBooking    domain.BookingStatus
	}{
		{domain.ProviderStatusSettlement, OutcomePaid, domain.StatusPaid},
		{domain.ProviderStatusCapture, OutcomePaid, domain.StatusPaid},
		{domain.ProviderStatusCancel, OutcomeCancelled, domain.StatusCanceled},
		{domain.ProviderStatusExpire, OutcomeCancelled, domain.StatusCanceled},
		{domain.ProviderStatusDeny, OutcomeCancelled, domain.StatusCanceled},
		{domain.ProviderStatusPending, OutcomeRecorded, domain.StatusApproved},
	}

	for _, tt := range tests {
		t.Run(tt.providerStatus, func(t *testing.T) {
			e := newEnv(t, domain.StatusApproved)

			result, err := e.uc.Execute(context.Background(), &Notification{
				OrderID:        e.orderID,
				ProviderStatus: tt.providerStatus,
				Raw:            json.RawMessage(`{}`),
			})

			require.NoError(t, err)
			assert.Equal(t, tt.wantOutcome, result.Outcome)
			assert.Equal(t, tt.wantBooking, e.bookingRepo.bookings[e.booking.ID].Status)
		})
	}
}

func TestExecute_UnknownOrderAcknowledged(t *testing.T) {
	e := newEnv(t, domain.StatusApproved)

	orderID := domain.BuildOrderID(uuid.New(), time.Now())
	result, err := e.uc.Execute(context.Background(), settlement(orderID))

	require.NoError(t, err, "unknown order must be acknowledged, not retried")
	assert.Equal(t, OutcomeUnresolved, result.Outcome)
	assert.Nil(t, result.BookingID)

	// Транзакция записана, бронирования не тронуты
	assert.Contains(t, e.txRepo.byOrderID, orderID)
	assert.Equal(t, domain.StatusApproved, e.bookingRepo.bookings[e.booking.ID].Status)
	assert.Zero(t, e.issuer.renders)
}

func TestExecute_UnparseableOrderAcknowledged(t *testing.T) {
	e := newEnv(t, domain.StatusApproved)

	result, err := e.uc.Execute(context.Background(), settlement("LEGACY-123"))

	require.NoError(t, err)
	assert.Equal(t, OutcomeUnresolved, result.Outcome)
	assert.Contains(t, e.txRepo.byOrderID, "LEGACY-123")
}

func TestExecute_PaymentForPendingBookingIgnored(t *testing.T) {
	e := newEnv(t, domain.StatusPending)

	result, err := e.uc.Execute(context.Background(), settlement(e.orderID))

	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, result.Outcome)
	assert.Equal(t, domain.StatusPending, e.bookingRepo.bookings[e.booking.ID].Status)
	assert.Zero(t, e.issuer.renders)
}

func TestExecute_CancelOnTerminalBookingIsNoOp(t *testing.T) {
	e := newEnv(t, domain.StatusPaid)

	result, err := e.uc.Execute(context.Background(), &Notification{
		OrderID:        e.orderID,
		ProviderStatus: domain.ProviderStatusExpire,
		Raw:            json.RawMessage(`{}`),
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, result.Outcome)
	assert.Equal(t, domain.StatusPaid, e.bookingRepo.bookings[e.booking.ID].Status)
}

func TestExecute_ResolvesBookingViaOrderIDFallback(t *testing.T) {
	e := newEnv(t, domain.StatusApproved)

	// Связь booking↔transaction отсутствует: уведомление обогнало запись
	e.bookingRepo.linked = map[uuid.UUID]uuid.UUID{}

	result, err := e.uc.Execute(context.Background(), settlement(e.orderID))

	require.NoError(t, err)
	assert.Equal(t, OutcomePaid, result.Outcome)
	assert.Equal(t, domain.StatusPaid, e.bookingRepo.bookings[e.booking.ID].Status)
}

func TestExecute_SideEffectFailureAllowsRetry(t *testing.T) {
	e := newEnv(t, domain.StatusApproved)
	e.notifier.fail = true

	_, err := e.uc.Execute(context.Background(), settlement(e.orderID))

	require.ErrorIs(t, err, ErrSideEffect)

	// Статус PAID не откатывается, но guard билета снят
	b := e.bookingRepo.bookings[e.booking.ID]
	assert.Equal(t, domain.StatusPaid, b.Status)
	assert.Nil(t, b.TicketIssuedAt)

	// Редоставка уведомления довыполняет побочные эффекты
	e.notifier.fail = false
	result, err := e.uc.Execute(context.Background(), settlement(e.orderID))

	require.NoError(t, err)
	assert.Equal(t, OutcomePaid, result.Outcome)
	assert.True(t, result.TicketIssued)
	assert.Len(t, e.notifier.sent, 1)
}

func TestExecute_RenderFailureReleasesClaim(t *testing.T) {
	e := newEnv(t, domain.StatusApproved)
	e.issuer.fail = true

	_, err := e.uc.Execute(context.Background(), settlement(e.orderID))

	require.ErrorIs(t, err, ErrSideEffect)
	assert.Nil(t, e.bookingRepo.bookings[e.booking.ID].TicketIssuedAt)
	assert.Empty(t, e.notifier.sent)
}

func TestExecute_DoubleSettlementEndToEnd(t *testing.T) {
	// Сценарий гонки: два идентичных settlement подряд, как при параллельной
	// редоставке. Итог: одна транзакция, одно PAID бронирование, один билет.
	e := newEnv(t, domain.StatusApproved)

	outcomes := make([]Outcome, 0, 2)
	for i := 0; i < 2; i++ {
		result, err := e.uc.Execute(context.Background(), settlement(e.orderID))
		require.NoError(t, err, "delivery %d", i+1)
		outcomes = append(outcomes, result.Outcome)
	}

	assert.Equal(t, []Outcome{OutcomePaid, OutcomeDuplicate}, outcomes)
	assert.Len(t, e.txRepo.byOrderID, 1)
	assert.Equal(t, domain.StatusPaid, e.bookingRepo.bookings[e.booking.ID].Status)
	assert.Equal(t, 1, e.issuer.renders)
	assert.Len(t, e.notifier.sent, 1)
}

func TestExecute_NewOrderIDPerPaymentAttempt(t *testing.T) {
	// Повторная попытка оплаты создает новый order_id для того же бронирования;
	// уведомление по новому order_id находит бронирование через fallback
	e := newEnv(t, domain.StatusApproved)

	retryOrderID := fmt.Sprintf("%s-%s-%d", domain.OrderIDPrefix, e.booking.ID, time.Now().Unix()+60)
	result, err := e.uc.Execute(context.Background(), settlement(retryOrderID))

	require.NoError(t, err)
	assert.Equal(t, OutcomePaid, result.Outcome)
	assert.Len(t, e.txRepo.byOrderID, 2, "each payment attempt keeps its own transaction row")
}
