package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevaqueue/seva-api/internal/model"
	"github.com/sevaqueue/seva-api/internal/service/otp"
	"github.com/sevaqueue/seva-api/internal/slot"
	apperrors "github.com/sevaqueue/seva-api/pkg/errors"
	"github.com/sevaqueue/seva-api/pkg/logger"
	"github.com/sevaqueue/seva-api/pkg/metrics"
)

// Prometheus collectors register globally, so the package shares one set.
var testMetrics = metrics.NewMetrics("test", "booking")

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*model.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*model.Booking)}
}

func (r *fakeBookingRepo) Create(_ context.Context, b *model.Booking) error {
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) Get(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking not found")
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) List(_ context.Context, filters *model.BookingFilters) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range r.bookings {
		if filters.DepartmentID != "" && b.DepartmentID != filters.DepartmentID {
			continue
		}
		if filters.CitizenEmail != "" && b.CitizenEmail != filters.CitizenEmail {
			continue
		}
		if filters.Status != "" && b.Status != filters.Status {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeBookingRepo) ListActiveForDepartment(_ context.Context, departmentID string) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range r.bookings {
		if b.DepartmentID == departmentID && b.Status != model.BookingStatusCancelled {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.BookingStatus) error {
	b, ok := r.bookings[id]
	if !ok {
		return fmt.Errorf("booking not found")
	}
	b.Status = status
	return nil
}

func (r *fakeBookingRepo) NextTokenNumber(_ context.Context, departmentID string, date time.Time) (int, error) {
	max := 0
	for _, b := range r.bookings {
		if b.DepartmentID == departmentID && b.AppointmentDate.Equal(date) && b.TokenNumber > max {
			max = b.TokenNumber
		}
	}
	return max + 1, nil
}

func (r *fakeBookingRepo) ListDueForReminder(_ context.Context, _, _ time.Time) ([]*model.Booking, error) {
	return nil, nil
}

func (r *fakeBookingRepo) MarkReminderSent(_ context.Context, id uuid.UUID) error {
	b, ok := r.bookings[id]
	if !ok {
		return fmt.Errorf("booking not found")
	}
	b.ReminderSent = true
	return nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (r *fakeOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	r.events = append(r.events, event)
	return nil
}

func (r *fakeOutboxRepo) GetPendingEvents(_ context.Context, _ int) ([]*model.OutboxEvent, error) {
	return r.events, nil
}

func (r *fakeOutboxRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ model.OutboxStatus, _ *string) error {
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeBookingRepo, *fakeOutboxRepo, *otp.Service) {
	t.Helper()

	manager, err := slot.NewManager([]model.DepartmentConfig{{
		ID:   "revenue",
		Name: "Revenue Department",
		WorkingHours: model.WorkingHours{
			Start: "08:00", End: "20:00",
			LunchStart: "13:00", LunchEnd: "14:00",
		},
		ServiceTimeMinutes: 30,
		MaxDailyCapacity:   22,
		SlotsPerBooking:    3,
	}}, time.UTC)
	require.NoError(t, err)

	repo := newFakeBookingRepo()
	outbox := &fakeOutboxRepo{}
	otpSvc := otp.NewService(time.Minute, logger.NewLogger(nil))

	svc := NewService(repo, outbox, manager, otpSvc, logger.NewLogger(nil), testMetrics)
	return svc, repo, outbox, otpSvc
}

func validRequest(t *testing.T, otpSvc *otp.Service) *model.CreateBookingRequest {
	t.Helper()
	code, err := otpSvc.Generate("asha@example.org")
	require.NoError(t, err)

	return &model.CreateBookingRequest{
		DepartmentID:    "revenue",
		CitizenName:     "Asha Verma",
		CitizenEmail:    "asha@example.org",
		CitizenPhone:    "+911234567890",
		AppointmentDate: "2026-03-09",
		TimeSlot:        "08:00",
		OTP:             code,
	}
}

func TestCreateBooking(t *testing.T) {
	svc, _, outbox, otpSvc := newTestService(t)

	booked, err := svc.CreateBooking(context.Background(), validRequest(t, otpSvc))
	require.NoError(t, err)

	assert.Equal(t, model.BookingStatusScheduled, booked.Status)
	assert.Equal(t, 1, booked.TokenNumber)
	assert.Equal(t, "08:00", booked.TimeSlot)
	assert.NotEqual(t, uuid.Nil, booked.ID)

	require.Len(t, outbox.events, 1)
	assert.Equal(t, "booking.created", outbox.events[0].EventType)
}

func TestCreateBooking_SlotTaken(t *testing.T) {
	svc, _, _, otpSvc := newTestService(t)

	_, err := svc.CreateBooking(context.Background(), validRequest(t, otpSvc))
	require.NoError(t, err)

	// Second citizen wants the same slot.
	req := validRequest(t, otpSvc)
	code, err := otpSvc.Generate("ravi@example.org")
	require.NoError(t, err)
	req.CitizenEmail = "ravi@example.org"
	req.OTP = code

	_, err = svc.CreateBooking(context.Background(), req)
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestCreateBooking_InvalidOTP(t *testing.T) {
	svc, _, _, otpSvc := newTestService(t)

	req := validRequest(t, otpSvc)
	wrong := "000000"
	if req.OTP == wrong {
		wrong = "000001"
	}
	req.OTP = wrong

	_, err := svc.CreateBooking(context.Background(), req)
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestCreateBooking_UnknownDepartment(t *testing.T) {
	svc, _, _, otpSvc := newTestService(t)

	req := validRequest(t, otpSvc)
	req.DepartmentID = "no-such-department"

	_, err := svc.CreateBooking(context.Background(), req)
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestCreateBooking_UnknownSlotTime(t *testing.T) {
	svc, _, _, otpSvc := newTestService(t)

	req := validRequest(t, otpSvc)
	req.TimeSlot = "13:00" // lunch, never generated

	_, err := svc.CreateBooking(context.Background(), req)
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestCancelBooking(t *testing.T) {
	svc, repo, outbox, otpSvc := newTestService(t)

	booked, err := svc.CreateBooking(context.Background(), validRequest(t, otpSvc))
	require.NoError(t, err)

	require.NoError(t, svc.CancelBooking(context.Background(), booked.ID))
	assert.Equal(t, model.BookingStatusCancelled, repo.bookings[booked.ID].Status)
	require.Len(t, outbox.events, 2)
	assert.Equal(t, "booking.cancelled", outbox.events[1].EventType)

	// Cancelling twice conflicts.
	err = svc.CancelBooking(context.Background(), booked.ID)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestCancelBooking_FreesSlot(t *testing.T) {
	svc, _, _, otpSvc := newTestService(t)

	booked, err := svc.CreateBooking(context.Background(), validRequest(t, otpSvc))
	require.NoError(t, err)
	require.NoError(t, svc.CancelBooking(context.Background(), booked.ID))

	// The same slot is bookable again.
	req := validRequest(t, otpSvc)
	code, err := otpSvc.Generate("ravi@example.org")
	require.NoError(t, err)
	req.CitizenEmail = "ravi@example.org"
	req.OTP = code

	_, err = svc.CreateBooking(context.Background(), req)
	assert.NoError(t, err)
}

func TestCompleteBooking(t *testing.T) {
	svc, repo, _, otpSvc := newTestService(t)

	booked, err := svc.CreateBooking(context.Background(), validRequest(t, otpSvc))
	require.NoError(t, err)

	require.NoError(t, svc.CompleteBooking(context.Background(), booked.ID))
	assert.Equal(t, model.BookingStatusCompleted, repo.bookings[booked.ID].Status)

	// Completed bookings cannot be cancelled or re-completed.
	assert.Error(t, svc.CancelBooking(context.Background(), booked.ID))
	assert.Error(t, svc.CompleteBooking(context.Background(), booked.ID))
}

func TestGetAvailability(t *testing.T) {
	svc, _, _, otpSvc := newTestService(t)

	booked, err := svc.CreateBooking(context.Background(), validRequest(t, otpSvc))
	require.NoError(t, err)

	date, err := svc.ParseDate("2026-03-09")
	require.NoError(t, err)

	avail, err := svc.GetAvailability(context.Background(), "revenue", date)
	require.NoError(t, err)

	assert.Len(t, avail.Slots, 22)
	assert.Equal(t, 22, avail.CapacityInfo.TotalCapacity)
	assert.Equal(t, 1, avail.CapacityInfo.Booked)
	assert.Equal(t, 21, avail.CapacityInfo.Available)
	assert.Equal(t, 30, avail.WaitTimeMinutes)
	assert.Equal(t, "revenue", avail.DepartmentConfig.ID)

	require.Len(t, avail.SuggestedSlots, 3)
	for _, s := range avail.SuggestedSlots {
		assert.True(t, s.Available)
		assert.NotEqual(t, booked.TimeSlot, s.StartTime)
	}
}

func TestGetAvailability_UnknownDepartment(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	date, err := svc.ParseDate("2026-03-09")
	require.NoError(t, err)

	_, err = svc.GetAvailability(context.Background(), "no-such-department", date)
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestParseDate(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	date, err := svc.ParseDate("2026-03-09")
	require.NoError(t, err)
	assert.Equal(t, 2026, date.Year())
	assert.Equal(t, time.March, date.Month())
	assert.Equal(t, 9, date.Day())

	_, err = svc.ParseDate("09-03-2026")
	assert.Error(t, err)
}
