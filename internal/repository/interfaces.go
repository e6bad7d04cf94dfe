package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sevaqueue/seva-api/internal/model"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	List(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error)
	// ListActiveForDepartment returns every non-cancelled booking for a
	// department regardless of date; the slot engine filters by date.
	ListActiveForDepartment(ctx context.Context, departmentID string) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error
	NextTokenNumber(ctx context.Context, departmentID string, date time.Time) (int, error)
	ListDueForReminder(ctx context.Context, from, to time.Time) ([]*model.Booking, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMessage *string) error
}

type ClerkRepository interface {
	Create(ctx context.Context, clerk *model.Clerk) error
	GetByEmail(ctx context.Context, email string) (*model.Clerk, error)
}
