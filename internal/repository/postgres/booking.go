package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sevaqueue/seva-api/internal/model"
	"github.com/sevaqueue/seva-api/internal/repository"
)

type bookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepository(db *sqlx.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (
			id, department_id, citizen_name, citizen_email, citizen_phone,
			appointment_date, time_slot, token_number, status, notes,
			reminder_sent, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		booking.ID,
		booking.DepartmentID,
		booking.CitizenName,
		booking.CitizenEmail,
		booking.CitizenPhone,
		booking.AppointmentDate,
		booking.TimeSlot,
		booking.TokenNumber,
		booking.Status,
		booking.Notes,
		booking.ReminderSent,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT id, department_id, citizen_name, citizen_email, citizen_phone,
			   appointment_date, time_slot, token_number, status, notes,
			   reminder_sent, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`
	var booking model.Booking
	err := r.db.GetContext(ctx, &booking, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) List(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error) {
	query := `
		SELECT id, department_id, citizen_name, citizen_email, citizen_phone,
			   appointment_date, time_slot, token_number, status, notes,
			   reminder_sent, created_at, updated_at
		FROM bookings
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters.DepartmentID != "" {
		query += fmt.Sprintf(" AND department_id = $%d", argCount)
		args = append(args, filters.DepartmentID)
		argCount++
	}

	if filters.Date != nil {
		query += fmt.Sprintf(" AND appointment_date::date = $%d::date", argCount)
		args = append(args, *filters.Date)
		argCount++
	}

	if filters.CitizenEmail != "" {
		query += fmt.Sprintf(" AND citizen_email = $%d", argCount)
		args = append(args, filters.CitizenEmail)
		argCount++
	}

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	query += " ORDER BY appointment_date ASC, time_slot ASC"

	var bookings []*model.Booking
	err := r.db.SelectContext(ctx, &bookings, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) ListActiveForDepartment(ctx context.Context, departmentID string) ([]*model.Booking, error) {
	query := `
		SELECT id, department_id, citizen_name, citizen_email, citizen_phone,
			   appointment_date, time_slot, token_number, status, notes,
			   reminder_sent, created_at, updated_at
		FROM bookings
		WHERE department_id = $1
		AND status != 'cancelled'
		ORDER BY appointment_date ASC, time_slot ASC
	`
	var bookings []*model.Booking
	err := r.db.SelectContext(ctx, &bookings, query, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list department bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("booking not found")
	}
	return nil
}

func (r *bookingRepository) NextTokenNumber(ctx context.Context, departmentID string, date time.Time) (int, error) {
	query := `
		SELECT COALESCE(MAX(token_number), 0) + 1
		FROM bookings
		WHERE department_id = $1
		AND appointment_date::date = $2::date
	`
	var token int
	err := r.db.GetContext(ctx, &token, query, departmentID, date)
	if err != nil {
		return 0, fmt.Errorf("failed to compute next token number: %w", err)
	}
	return token, nil
}

func (r *bookingRepository) ListDueForReminder(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
	query := `
		SELECT id, department_id, citizen_name, citizen_email, citizen_phone,
			   appointment_date, time_slot, token_number, status, notes,
			   reminder_sent, created_at, updated_at
		FROM bookings
		WHERE status = 'scheduled'
		AND reminder_sent = FALSE
		AND (appointment_date::date + time_slot::time) BETWEEN $1 AND $2
		ORDER BY appointment_date ASC, time_slot ASC
	`
	var bookings []*model.Booking
	err := r.db.SelectContext(ctx, &bookings, query, from, to)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings due for reminder: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE bookings
		SET reminder_sent = TRUE, updated_at = $1
		WHERE id = $2
	`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	return nil
}
