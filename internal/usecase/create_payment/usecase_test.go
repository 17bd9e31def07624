package create_payment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SportBook-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/SportBook-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/SportBook-BookingService/internal/integrations/midtranspay"
	"github.com/m04kA/SportBook-BookingService/pkg/clock"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type inlineTxManager struct{}

func (inlineTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeBookingRepo struct {
	booking  *domain.Booking
	linkedTx *uuid.UUID
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	if r.booking == nil || r.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *r.booking
	return &copied, nil
}

func (r *fakeBookingRepo) SetTransactionID(ctx context.Context, id uuid.UUID, transactionID uuid.UUID) error {
	r.linkedTx = &transactionID
	return nil
}

type fakeTransactionRepo struct {
	created *domain.Transaction
}

func (r *fakeTransactionRepo) Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	stored := *tx
	stored.ID = uuid.New()
	r.created = &stored
	return &stored, nil
}

type fakeGateway struct {
	req  *midtranspay.SessionRequest
	fail bool
}

func (g *fakeGateway) CreateSession(ctx context.Context, req *midtranspay.SessionRequest) (*midtranspay.Session, error) {
	if g.fail {
		return nil, midtranspay.ErrGatewayRejected
	}
	g.req = req
	return &midtranspay.Session{
		Token:       "snap-token",
		RedirectURL: "https://app.sandbox.midtrans.com/snap/v4/redirection/snap-token",
	}, nil
}

func approvedBooking() *domain.Booking {
	return &domain.Booking{
		ID:         uuid.New(),
		FieldID:    uuid.New(),
		UserID:     42,
		Status:     domain.StatusApproved,
		UserName:   "Budi",
		UserEmail:  "budi@example.com",
		FieldName:  "Lapangan Futsal A",
		FieldPrice: 150000,
	}
}

func newUseCase(bRepo *fakeBookingRepo, txRepo *fakeTransactionRepo, gw *fakeGateway) *UseCase {
	now := &clock.FixedClock{Moment: time.Unix(1756500000, 0)}
	return NewUseCase(bRepo, txRepo, gw, inlineTxManager{}, now, nopLogger{})
}

func TestExecute_CreatesSessionForApprovedBooking(t *testing.T) {
	booking := approvedBooking()
	bRepo := &fakeBookingRepo{booking: booking}
	txRepo := &fakeTransactionRepo{}
	gw := &fakeGateway{}
	uc := newUseCase(bRepo, txRepo, gw)

	resp, err := uc.Execute(context.Background(), &Request{BookingID: booking.ID, UserID: 42})

	require.NoError(t, err)
	assert.Equal(t, "snap-token", resp.Token)
	assert.NotEmpty(t, resp.PaymentURL)

	// Транзакция создана в pending и связана с бронированием до обращения к шлюзу
	require.NotNil(t, txRepo.created)
	assert.Equal(t, domain.ProviderStatusPending, txRepo.created.Status)
	assert.Equal(t, booking.FieldPrice, txRepo.created.GrossAmount)
	require.NotNil(t, bRepo.linkedTx)
	assert.Equal(t, txRepo.created.ID, *bRepo.linkedTx)

	// order_id разбирается обратно в ID бронирования
	parsed, err := domain.ParseOrderID(resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, parsed)

	// Шлюзу уходит та же сумма и тот же order_id
	require.NotNil(t, gw.req)
	assert.Equal(t, resp.OrderID, gw.req.OrderID)
	assert.Equal(t, booking.FieldPrice, gw.req.GrossAmount)
	assert.Equal(t, "budi@example.com", gw.req.CustomerEmail)
}

func TestExecute_BookingNotFound(t *testing.T) {
	uc := newUseCase(&fakeBookingRepo{}, &fakeTransactionRepo{}, &fakeGateway{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: uuid.New(), UserID: 42})

	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_ForeignBookingDenied(t *testing.T) {
	booking := approvedBooking()
	txRepo := &fakeTransactionRepo{}
	uc := newUseCase(&fakeBookingRepo{booking: booking}, txRepo, &fakeGateway{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: booking.ID, UserID: 99})

	require.ErrorIs(t, err, ErrAccessDenied)
	assert.Nil(t, txRepo.created)
}

func TestExecute_OnlyApprovedBookingIsPayable(t *testing.T) {
	for _, status := range []domain.BookingStatus{
		domain.StatusPending,
		domain.StatusRejected,
		domain.StatusCanceled,
		domain.StatusPaid,
	} {
		t.Run(string(status), func(t *testing.T) {
			booking := approvedBooking()
			booking.Status = status
			txRepo := &fakeTransactionRepo{}
			uc := newUseCase(&fakeBookingRepo{booking: booking}, txRepo, &fakeGateway{})

			_, err := uc.Execute(context.Background(), &Request{BookingID: booking.ID, UserID: 42})

			require.ErrorIs(t, err, ErrBookingNotPayable)
			assert.Nil(t, txRepo.created)
		})
	}
}

func TestExecute_GatewayFailure(t *testing.T) {
	booking := approvedBooking()
	uc := newUseCase(&fakeBookingRepo{booking: booking}, &fakeTransactionRepo{}, &fakeGateway{fail: true})

	_, err := uc.Execute(context.Background(), &Request{BookingID: booking.ID, UserID: 42})

	require.ErrorIs(t, err, ErrGatewayUnavailable)
}
