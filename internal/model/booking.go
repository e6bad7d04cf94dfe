package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusScheduled BookingStatus = "scheduled"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a citizen's appointment at a department. TimeSlot holds the
// slot's start time as an HH:MM string and must match a generated slot's
// StartTime exactly; the engine does no normalization.
type Booking struct {
	ID              uuid.UUID     `db:"id" json:"id"`
	DepartmentID    string        `db:"department_id" json:"departmentId"`
	CitizenName     string        `db:"citizen_name" json:"citizenName"`
	CitizenEmail    string        `db:"citizen_email" json:"citizenEmail"`
	CitizenPhone    string        `db:"citizen_phone" json:"citizenPhone"`
	AppointmentDate time.Time     `db:"appointment_date" json:"appointmentDate"`
	TimeSlot        string        `db:"time_slot" json:"timeSlot"`
	TokenNumber     int           `db:"token_number" json:"tokenNumber"`
	Status          BookingStatus `db:"status" json:"status"`
	Notes           string        `db:"notes" json:"notes,omitempty"`
	ReminderSent    bool          `db:"reminder_sent" json:"reminderSent"`
	CreatedAt       time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updatedAt"`
}

type CreateBookingRequest struct {
	DepartmentID    string `json:"departmentId" binding:"required"`
	CitizenName     string `json:"citizenName" binding:"required,max=100"`
	CitizenEmail    string `json:"citizenEmail" binding:"required,email"`
	CitizenPhone    string `json:"citizenPhone" binding:"required,min=10,max=15"`
	AppointmentDate string `json:"appointmentDate" binding:"required,datetime=2006-01-02"`
	TimeSlot        string `json:"timeSlot" binding:"required,hhmm"`
	Notes           string `json:"notes" binding:"max=500"`
	OTP             string `json:"otp" binding:"required,len=6,numeric"`
}

type BookingFilters struct {
	DepartmentID string
	Date         *time.Time
	CitizenEmail string
	Status       BookingStatus
}
