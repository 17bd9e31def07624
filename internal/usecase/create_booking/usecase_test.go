package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SportBook-BookingService/internal/domain"
	fieldRepo "github.com/m04kA/SportBook-BookingService/internal/infra/storage/field"
	"github.com/m04kA/SportBook-BookingService/pkg/clock"
	"github.com/m04kA/SportBook-BookingService/pkg/types"
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
	existing []*domain.Booking
	created  *domain.Booking
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	stored := *booking
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	r.created = &stored
	return &stored, nil
}

func (r *fakeBookingRepo) GetByFieldAndDate(ctx context.Context, fieldID uuid.UUID, date time.Time) ([]*domain.Booking, error) {
	return r.existing, nil
}

type fakeFieldRepo struct {
	field *domain.Field
}

func (r *fakeFieldRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Field, error) {
	if r.field == nil || r.field.ID != id {
		return nil, fieldRepo.ErrFieldNotFound
	}
	return r.field, nil
}

func validRequest(fieldID uuid.UUID) *Request {
	return &Request{
		FieldID:   fieldID,
		UserID:    42,
		UserName:  "Budi",
		UserEmail: "budi@example.com",
		Date:      time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		StartTime: types.TimeString("10:00"),
		EndTime:   types.TimeString("11:00"),
	}
}

func newUseCase(bRepo *fakeBookingRepo, fRepo *fakeFieldRepo) *UseCase {
	// За день до бронирования, прошлое время не мешает
	now := &clock.FixedClock{Moment: time.Date(2026, 9, 9, 12, 0, 0, 0, time.UTC)}
	return NewUseCase(bRepo, fRepo, inlineTxManager{}, now, nopLogger{})
}

func TestExecute_CreatesPendingBooking(t *testing.T) {
	field := &domain.Field{ID: uuid.New(), OwnerID: 7, Name: "Lapangan Futsal A", Price: 150000}
	bRepo := &fakeBookingRepo{}
	uc := newUseCase(bRepo, &fakeFieldRepo{field: field})

	resp, err := uc.Execute(context.Background(), validRequest(field.ID))

	require.NoError(t, err)
	b := resp.Booking
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Equal(t, field.Name, b.FieldName)
	assert.Equal(t, field.Price, b.FieldPrice)
	assert.Equal(t, "budi@example.com", b.UserEmail)
}

func TestExecute_FieldNotFound(t *testing.T) {
	uc := newUseCase(&fakeBookingRepo{}, &fakeFieldRepo{})

	_, err := uc.Execute(context.Background(), validRequest(uuid.New()))

	require.ErrorIs(t, err, ErrFieldNotFound)
}

func TestExecute_ValidationRules(t *testing.T) {
	field := &domain.Field{ID: uuid.New(), Name: "A", Price: 100000}

	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{"missing field id", func(req *Request) { req.FieldID = uuid.Nil }},
		{"missing user id", func(req *Request) { req.UserID = 0 }},
		{"missing email", func(req *Request) { req.UserEmail = "" }},
		{"malformed start time", func(req *Request) { req.StartTime = "10am" }},
		{"start after end", func(req *Request) { req.StartTime = "12:00"; req.EndTime = "11:00" }},
		{"not hour aligned", func(req *Request) { req.StartTime = "10:30"; req.EndTime = "11:30" }},
		{"longer than one slot", func(req *Request) { req.EndTime = "12:00" }},
		{"before opening", func(req *Request) { req.StartTime = "07:00"; req.EndTime = "08:00" }},
		{"after closing", func(req *Request) { req.StartTime = "23:00"; req.EndTime = "24:00" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUseCase(&fakeBookingRepo{}, &fakeFieldRepo{field: field})
			req := validRequest(field.ID)
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_RejectsPastSlot(t *testing.T) {
	field := &domain.Field{ID: uuid.New(), Name: "A", Price: 100000}
	bRepo := &fakeBookingRepo{}

	// 10:00 того же дня: слот 10:00 уже начался
	now := &clock.FixedClock{Moment: time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)}
	uc := NewUseCase(bRepo, &fakeFieldRepo{field: field}, inlineTxManager{}, now, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest(field.ID))
	require.ErrorIs(t, err, ErrPastDateTime)

	// Следующий слот того же дня еще доступен
	req := validRequest(field.ID)
	req.StartTime = "11:00"
	req.EndTime = "12:00"

	_, err = uc.Execute(context.Background(), req)
	require.NoError(t, err)
}

func TestExecute_RejectsOverlappingSlot(t *testing.T) {
	field := &domain.Field{ID: uuid.New(), Name: "A", Price: 100000}
	bRepo := &fakeBookingRepo{
		existing: []*domain.Booking{
			{Status: domain.StatusApproved, Start: "10:00", End: "11:00"},
		},
	}
	uc := newUseCase(bRepo, &fakeFieldRepo{field: field})

	_, err := uc.Execute(context.Background(), validRequest(field.ID))

	require.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Nil(t, bRepo.created)
}

func TestExecute_BoundarySlotDoesNotOverlap(t *testing.T) {
	field := &domain.Field{ID: uuid.New(), Name: "A", Price: 100000}
	bRepo := &fakeBookingRepo{
		existing: []*domain.Booking{
			{Status: domain.StatusApproved, Start: "09:00", End: "10:00"},
			{Status: domain.StatusApproved, Start: "11:00", End: "12:00"},
		},
	}
	uc := newUseCase(bRepo, &fakeFieldRepo{field: field})

	// 10:00-11:00 касается соседей границами, но не пересекается
	_, err := uc.Execute(context.Background(), validRequest(field.ID))

	require.NoError(t, err)
}

func TestExecute_InactiveBookingsDoNotBlockSlot(t *testing.T) {
	field := &domain.Field{ID: uuid.New(), Name: "A", Price: 100000}
	bRepo := &fakeBookingRepo{
		existing: []*domain.Booking{
			{Status: domain.StatusCanceled, Start: "10:00", End: "11:00"},
			{Status: domain.StatusRejected, Start: "10:00", End: "11:00"},
		},
	}
	uc := newUseCase(bRepo, &fakeFieldRepo{field: field})

	_, err := uc.Execute(context.Background(), validRequest(field.ID))

	require.NoError(t, err)
}
