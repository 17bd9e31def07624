package bookings

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SportBook-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/SportBook-BookingService/internal/infra/storage/booking"
	fieldRepo "github.com/m04kA/SportBook-BookingService/internal/infra/storage/field"
	transactionRepo "github.com/m04kA/SportBook-BookingService/internal/infra/storage/transaction"
	"github.com/m04kA/SportBook-BookingService/internal/service/bookings/models"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*domain.Booking
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range r.bookings {
		if b.UserID != userID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		copied := *b
		result = append(result, &copied)
	}
	return result, nil
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

type fakeFieldRepo struct {
	fields map[uuid.UUID]*domain.Field
}

func (r *fakeFieldRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Field, error) {
	f, ok := r.fields[id]
	if !ok {
		return nil, fieldRepo.ErrFieldNotFound
	}
	return f, nil
}

type fakeTransactionRepo struct {
	transactions map[uuid.UUID]*domain.Transaction
}

func (r *fakeTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	tx, ok := r.transactions[id]
	if !ok {
		return nil, transactionRepo.ErrTransactionNotFound
	}
	return tx, nil
}

const (
	customerID = int64(42)
	ownerID    = int64(7)
	strangerID = int64(99)
)

func newService() (*Service, *fakeBookingRepo, *domain.Booking) {
	svc, bRepo, _, booking := newServiceWithTransactions()
	return svc, bRepo, booking
}

func newServiceWithTransactions() (*Service, *fakeBookingRepo, *fakeTransactionRepo, *domain.Booking) {
	field := &domain.Field{ID: uuid.New(), OwnerID: ownerID, Name: "A", Price: 100000}
	booking := &domain.Booking{
		ID:      uuid.New(),
		FieldID: field.ID,
		UserID:  customerID,
		Status:  domain.StatusPending,
	}

	bRepo := &fakeBookingRepo{bookings: map[uuid.UUID]*domain.Booking{booking.ID: booking}}
	fRepo := &fakeFieldRepo{fields: map[uuid.UUID]*domain.Field{field.ID: field}}
	tRepo := &fakeTransactionRepo{transactions: map[uuid.UUID]*domain.Transaction{}}

	return NewService(bRepo, fRepo, tRepo, nopLogger{}), bRepo, tRepo, booking
}

func TestGetByID_AccessRules(t *testing.T) {
	svc, _, booking := newService()
	ctx := context.Background()

	// Автор бронирования видит его
	_, err := svc.GetByID(ctx, booking.ID, customerID)
	require.NoError(t, err)

	// Владелец площадки тоже
	_, err = svc.GetByID(ctx, booking.ID, ownerID)
	require.NoError(t, err)

	// Посторонний - нет
	_, err = svc.GetByID(ctx, booking.ID, strangerID)
	require.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(ctx, uuid.New(), customerID)
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetByID_AttachesPaymentInfo(t *testing.T) {
	svc, bRepo, tRepo, booking := newServiceWithTransactions()
	ctx := context.Background()

	// Без привязанной транзакции платеж не показываем
	resp, err := svc.GetByID(ctx, booking.ID, customerID)
	require.NoError(t, err)
	assert.Nil(t, resp.Payment)

	paymentType := "qris"
	tx := &domain.Transaction{
		ID:          uuid.New(),
		OrderID:     "SPORTBOOK-" + booking.ID.String() + "-1756500000",
		Status:      domain.ProviderStatusSettlement,
		PaymentType: &paymentType,
		GrossAmount: 100000,
	}
	tRepo.transactions[tx.ID] = tx
	bRepo.bookings[booking.ID].TransactionID = &tx.ID

	resp, err = svc.GetByID(ctx, booking.ID, customerID)
	require.NoError(t, err)
	require.NotNil(t, resp.Payment)
	assert.Equal(t, tx.OrderID, resp.Payment.OrderID)
	assert.Equal(t, domain.ProviderStatusSettlement, resp.Payment.Status)
	assert.Equal(t, "qris", *resp.Payment.PaymentType)
	assert.Equal(t, int64(100000), resp.Payment.GrossAmount)

	// Транзакция могла не сохраниться - бронирование все равно отдаем
	ghost := uuid.New()
	bRepo.bookings[booking.ID].TransactionID = &ghost
	resp, err = svc.GetByID(ctx, booking.ID, customerID)
	require.NoError(t, err)
	assert.Nil(t, resp.Payment)
}

func TestUpdateStatus_ApprovalGate(t *testing.T) {
	svc, bRepo, booking := newService()
	ctx := context.Background()

	resp, err := svc.UpdateStatus(ctx, &models.UpdateStatusRequest{
		BookingID: booking.ID,
		UserID:    ownerID,
		Status:    "APPROVED",
	})

	require.NoError(t, err)
	assert.Equal(t, "APPROVED", resp.Status)
	assert.Equal(t, domain.StatusApproved, bRepo.bookings[booking.ID].Status)
}

func TestUpdateStatus_OnlyFieldOwner(t *testing.T) {
	svc, _, booking := newService()

	for _, userID := range []int64{customerID, strangerID} {
		_, err := svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
			BookingID: booking.ID,
			UserID:    userID,
			Status:    "APPROVED",
		})
		require.ErrorIs(t, err, ErrAccessDenied, "user %d", userID)
	}
}

func TestUpdateStatus_OnlyReviewDecisionsAllowed(t *testing.T) {
	svc, _, booking := newService()

	for _, status := range []string{"PAID", "CANCELED", "PENDING", "confirmed", ""} {
		_, err := svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
			BookingID: booking.ID,
			UserID:    ownerID,
			Status:    status,
		})
		require.ErrorIs(t, err, ErrInvalidStatus, "status %q", status)
	}
}

func TestUpdateStatus_ConflictWhenAlreadyReviewed(t *testing.T) {
	svc, bRepo, booking := newService()
	bRepo.bookings[booking.ID].Status = domain.StatusApproved

	_, err := svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
		BookingID: booking.ID,
		UserID:    ownerID,
		Status:    "REJECTED",
	})

	require.ErrorIs(t, err, ErrStatusConflict)
	assert.Equal(t, domain.StatusApproved, bRepo.bookings[booking.ID].Status)
}

func TestGetUserBookings_StatusFilter(t *testing.T) {
	svc, bRepo, booking := newService()

	other := &domain.Booking{ID: uuid.New(), FieldID: booking.FieldID, UserID: customerID, Status: domain.StatusPaid}
	bRepo.bookings[other.ID] = other

	status := "PAID"
	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID: customerID,
		Status: &status,
	})

	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, other.ID, resp.Bookings[0].ID)

	invalid := "confirmed"
	_, err = svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID: customerID,
		Status: &invalid,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}
