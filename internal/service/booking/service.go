package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sevaqueue/seva-api/internal/model"
	"github.com/sevaqueue/seva-api/internal/repository"
	"github.com/sevaqueue/seva-api/internal/service/otp"
	"github.com/sevaqueue/seva-api/internal/slot"
	apperrors "github.com/sevaqueue/seva-api/pkg/errors"
	"github.com/sevaqueue/seva-api/pkg/logger"
	"github.com/sevaqueue/seva-api/pkg/messaging"
	"github.com/sevaqueue/seva-api/pkg/metrics"
)

// Availability bundles everything the availability endpoints serialize
// for one department and date.
type Availability struct {
	Slots            []model.TimeSlot       `json:"slots"`
	SuggestedSlots   []model.TimeSlot       `json:"suggestedSlots"`
	CapacityInfo     model.CapacityInfo     `json:"capacityInfo"`
	DepartmentConfig model.DepartmentConfig `json:"departmentConfig"`
	WaitTimeMinutes  int                    `json:"waitTimeMinutes"`
}

type Service struct {
	repo    repository.BookingRepository
	outbox  repository.OutboxRepository
	slots   *slot.Manager
	otpSvc  *otp.Service
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewService(
	repo repository.BookingRepository,
	outbox repository.OutboxRepository,
	slots *slot.Manager,
	otpSvc *otp.Service,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		repo:    repo,
		outbox:  outbox,
		slots:   slots,
		otpSvc:  otpSvc,
		logger:  logger,
		metrics: metrics,
	}
}

// ParseDate interprets a YYYY-MM-DD string in the engine's zone.
func (s *Service) ParseDate(dateStr string) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, s.slots.Location())
	if err != nil {
		return time.Time{}, apperrors.BadRequest("invalid date format, expected YYYY-MM-DD", err)
	}
	return date, nil
}

// GetAvailability resolves the full slot picture for a department and
// date: the grid, the bounded suggestions, capacity metrics and the
// wait-time estimate.
func (s *Service) GetAvailability(ctx context.Context, departmentID string, date time.Time) (*Availability, error) {
	cfg, ok := s.slots.GetDepartmentConfig(departmentID)
	if !ok {
		return nil, apperrors.NotFound("department", nil)
	}

	bookings, err := s.repo.ListActiveForDepartment(ctx, departmentID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	timer := time.Now()
	avail := &Availability{
		Slots:            s.slots.GetAvailableSlots(departmentID, date, bookings),
		SuggestedSlots:   s.slots.GetSuggestedSlots(departmentID, date, bookings),
		CapacityInfo:     s.slots.GetCapacityInfo(departmentID, date, bookings),
		DepartmentConfig: cfg,
		WaitTimeMinutes:  s.slots.CalculateWaitTime(departmentID, date, bookings),
	}
	s.metrics.SlotQueryLatency.Observe(time.Since(timer).Seconds())

	return avail, nil
}

func (s *Service) CreateBooking(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error) {
	if _, ok := s.slots.GetDepartmentConfig(req.DepartmentID); !ok {
		return nil, apperrors.NotFound("department", nil)
	}

	date, err := s.ParseDate(req.AppointmentDate)
	if err != nil {
		return nil, err
	}

	if !s.otpSvc.Verify(req.CitizenEmail, req.OTP) {
		return nil, apperrors.Unauthorized(fmt.Errorf("otp verification failed"))
	}

	existing, err := s.repo.ListActiveForDepartment(ctx, req.DepartmentID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	// Availability is a snapshot; the unique index on
	// (department_id, appointment_date, time_slot) is what actually
	// prevents a double booking at the write path.
	if !s.slots.IsSlotAvailable(req.DepartmentID, date, req.TimeSlot, existing) {
		s.metrics.BookingConflicts.Inc()
		return nil, apperrors.Conflict("time slot is not available", nil)
	}

	token, err := s.repo.NextTokenNumber(ctx, req.DepartmentID, date)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	booking := &model.Booking{
		ID:              uuid.New(),
		DepartmentID:    req.DepartmentID,
		CitizenName:     req.CitizenName,
		CitizenEmail:    req.CitizenEmail,
		CitizenPhone:    req.CitizenPhone,
		AppointmentDate: date,
		TimeSlot:        req.TimeSlot,
		TokenNumber:     token,
		Status:          model.BookingStatusScheduled,
		Notes:           req.Notes,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, apperrors.Internal(err)
	}
	s.metrics.BookingsCreated.Inc()

	s.emitEvent(ctx, messaging.ChannelBookingCreated, booking)

	s.logger.Info("booking created",
		"booking_id", booking.ID.String(),
		"department_id", booking.DepartmentID,
		"time_slot", booking.TimeSlot,
		"token_number", booking.TokenNumber,
	)

	return booking, nil
}

func (s *Service) GetBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("booking", err)
	}
	return booking, nil
}

func (s *Service) ListBookings(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error) {
	bookings, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return bookings, nil
}

func (s *Service) CancelBooking(ctx context.Context, id uuid.UUID) error {
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		return apperrors.NotFound("booking", err)
	}

	if booking.Status == model.BookingStatusCancelled {
		return apperrors.Conflict("booking is already cancelled", nil)
	}
	if booking.Status == model.BookingStatusCompleted {
		return apperrors.Conflict("cannot cancel a completed booking", nil)
	}

	if err := s.repo.UpdateStatus(ctx, id, model.BookingStatusCancelled); err != nil {
		return apperrors.Internal(err)
	}
	s.metrics.BookingsCancelled.Inc()

	booking.Status = model.BookingStatusCancelled
	s.emitEvent(ctx, messaging.ChannelBookingCancelled, booking)

	return nil
}

// CompleteBooking marks a token as served at the counter.
func (s *Service) CompleteBooking(ctx context.Context, id uuid.UUID) error {
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		return apperrors.NotFound("booking", err)
	}

	if booking.Status != model.BookingStatusScheduled {
		return apperrors.Conflict(fmt.Sprintf("cannot complete a %s booking", booking.Status), nil)
	}

	if err := s.repo.UpdateStatus(ctx, id, model.BookingStatusCompleted); err != nil {
		return apperrors.Internal(err)
	}

	booking.Status = model.BookingStatusCompleted
	s.emitEvent(ctx, messaging.ChannelBookingCompleted, booking)

	return nil
}

// emitEvent writes an outbox row; delivery failures never fail the
// booking operation itself.
func (s *Service) emitEvent(ctx context.Context, eventType string, booking *model.Booking) {
	payload, err := json.Marshal(booking)
	if err != nil {
		s.logger.Error(err, "failed to marshal booking event", "booking_id", booking.ID.String())
		return
	}

	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to write outbox event",
			"event_type", eventType,
			"booking_id", booking.ID.String(),
		)
	}
}
