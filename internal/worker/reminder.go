package worker

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/sevaqueue/seva-api/internal/model"
	"github.com/sevaqueue/seva-api/internal/repository"
	"github.com/sevaqueue/seva-api/pkg/logger"
	"github.com/sevaqueue/seva-api/pkg/metrics"
)

// EmailSender abstracts the SMTP dialer so the reminder loop can be
// tested without a mail server.
type EmailSender interface {
	Send(to, subject, body string) error
}

type GomailSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewGomailSender(host string, port int, username, password, from string) *GomailSender {
	return &GomailSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (s *GomailSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

type ReminderConfig struct {
	PollInterval time.Duration
	// Window is how far ahead of the appointment start the reminder
	// goes out.
	Window time.Duration
}

// Reminder polls for scheduled bookings starting within the window and
// emails each citizen once. The reminder_sent flag on the booking row
// is the duplicate guard.
type Reminder struct {
	repo    repository.BookingRepository
	sender  EmailSender
	names   map[string]string
	config  ReminderConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewReminder(
	repo repository.BookingRepository,
	sender EmailSender,
	departments []model.DepartmentConfig,
	config ReminderConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Reminder {
	if config.PollInterval <= 0 {
		config.PollInterval = time.Minute
	}
	if config.Window <= 0 {
		config.Window = 15 * time.Minute
	}

	names := make(map[string]string, len(departments))
	for _, d := range departments {
		names[d.ID] = d.Name
	}

	return &Reminder{
		repo:    repo,
		sender:  sender,
		names:   names,
		config:  config,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// departmentName resolves the display name for the email; bookings for
// a department since removed from the table fall back to the raw ID.
func (r *Reminder) departmentName(id string) string {
	if name, ok := r.names[id]; ok && name != "" {
		return name
	}
	return id
}

func (r *Reminder) Start(ctx context.Context) {
	ticker := time.NewTicker(r.config.PollInterval)
	defer ticker.Stop()

	r.logger.Info("starting reminder worker")

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("shutting down reminder worker")
			return
		case <-ticker.C:
			if err := r.CheckAndSend(ctx); err != nil {
				r.logger.Error(err, "reminder run failed")
			}
		}
	}
}

// CheckAndSend performs one polling pass.
func (r *Reminder) CheckAndSend(ctx context.Context) error {
	now := r.now()
	due, err := r.repo.ListDueForReminder(ctx, now, now.Add(r.config.Window))
	if err != nil {
		return fmt.Errorf("failed to list due bookings: %w", err)
	}

	for _, booking := range due {
		if err := r.remind(ctx, booking); err != nil {
			r.metrics.RemindersFailed.Inc()
			r.logger.Error(err, "failed to send reminder", "booking_id", booking.ID.String())
			continue
		}
		r.metrics.RemindersSent.Inc()
	}

	return nil
}

func (r *Reminder) remind(ctx context.Context, booking *model.Booking) error {
	subject := fmt.Sprintf("Appointment reminder: token %d", booking.TokenNumber)
	body := fmt.Sprintf(
		"Hello %s,\n\nThis is a reminder for your appointment at %s on %s at %s.\nYour token number is %d.\n\nPlease arrive a few minutes early and carry the required documents.\n",
		booking.CitizenName,
		r.departmentName(booking.DepartmentID),
		booking.AppointmentDate.Format("2006-01-02"),
		booking.TimeSlot,
		booking.TokenNumber,
	)

	if err := r.sender.Send(booking.CitizenEmail, subject, body); err != nil {
		return err
	}

	// Mark after a successful send. A crash in between re-sends at most
	// one duplicate on the next pass.
	if err := r.repo.MarkReminderSent(ctx, booking.ID); err != nil {
		return fmt.Errorf("reminder sent but flag update failed: %w", err)
	}
	return nil
}
