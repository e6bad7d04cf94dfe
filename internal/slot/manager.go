// Package slot implements the slot-capacity and suggestion engine: it
// derives a department's bookable time slots from configured working
// hours and service duration, resolves per-slot occupancy against a
// caller-supplied booking snapshot, and reports suggestions, wait time
// and aggregate capacity. Every query is a pure recomputation; the
// engine holds no mutable state beyond its immutable configuration.
package slot

import (
	"fmt"
	"math"
	"time"

	"github.com/sevaqueue/seva-api/internal/model"
)

// Each slot admits exactly one booking in the current design.
const slotCapacity = 1

// departmentSchedule is a DepartmentConfig with its working hours
// pre-parsed at construction so query paths never hit a parse error.
type departmentSchedule struct {
	config     model.DepartmentConfig
	start      TimeOfDay
	end        TimeOfDay
	lunchStart TimeOfDay
	lunchEnd   TimeOfDay
	hasLunch   bool
}

// Manager answers slot availability queries for a fixed set of
// departments. All times are wall-clock in the manager's location;
// booking dates are compared by calendar day in that same location.
type Manager struct {
	departments map[string]departmentSchedule
	order       []string
	loc         *time.Location
}

// NewManager builds a manager from an immutable department table.
// Configuration errors (unparsable times, inverted windows, lunch
// outside working hours) are rejected here; queries stay total.
func NewManager(departments []model.DepartmentConfig, loc *time.Location) (*Manager, error) {
	if loc == nil {
		loc = time.UTC
	}

	m := &Manager{
		departments: make(map[string]departmentSchedule, len(departments)),
		order:       make([]string, 0, len(departments)),
		loc:         loc,
	}

	for _, cfg := range departments {
		sched, err := newDepartmentSchedule(cfg)
		if err != nil {
			return nil, fmt.Errorf("department %s: %w", cfg.ID, err)
		}
		if _, exists := m.departments[cfg.ID]; exists {
			return nil, fmt.Errorf("department %s: duplicate id", cfg.ID)
		}
		m.departments[cfg.ID] = sched
		m.order = append(m.order, cfg.ID)
	}

	return m, nil
}

func newDepartmentSchedule(cfg model.DepartmentConfig) (departmentSchedule, error) {
	var sched departmentSchedule

	if cfg.ID == "" {
		return sched, fmt.Errorf("missing id")
	}
	if cfg.ServiceTimeMinutes <= 0 {
		return sched, fmt.Errorf("service time must be positive, got %d", cfg.ServiceTimeMinutes)
	}
	if cfg.SlotsPerBooking <= 0 {
		return sched, fmt.Errorf("slots per booking must be positive, got %d", cfg.SlotsPerBooking)
	}

	start, err := ParseTimeOfDay(cfg.WorkingHours.Start)
	if err != nil {
		return sched, fmt.Errorf("working hours start: %w", err)
	}
	end, err := ParseTimeOfDay(cfg.WorkingHours.End)
	if err != nil {
		return sched, fmt.Errorf("working hours end: %w", err)
	}
	if start >= end {
		return sched, fmt.Errorf("working hours start %s must precede end %s", start, end)
	}

	sched = departmentSchedule{config: cfg, start: start, end: end}

	if cfg.WorkingHours.HasLunchBreak() {
		lunchStart, err := ParseTimeOfDay(cfg.WorkingHours.LunchStart)
		if err != nil {
			return sched, fmt.Errorf("lunch start: %w", err)
		}
		lunchEnd, err := ParseTimeOfDay(cfg.WorkingHours.LunchEnd)
		if err != nil {
			return sched, fmt.Errorf("lunch end: %w", err)
		}
		if lunchStart >= lunchEnd {
			return sched, fmt.Errorf("lunch start %s must precede lunch end %s", lunchStart, lunchEnd)
		}
		if lunchStart < start || lunchEnd > end {
			return sched, fmt.Errorf("lunch window %s-%s outside working hours %s-%s", lunchStart, lunchEnd, start, end)
		}
		sched.lunchStart = lunchStart
		sched.lunchEnd = lunchEnd
		sched.hasLunch = true
	}

	return sched, nil
}

// Location returns the zone all calendar-day comparisons use.
func (m *Manager) Location() *time.Location {
	return m.loc
}

// GetDepartmentConfig returns the configuration for a department.
func (m *Manager) GetDepartmentConfig(departmentID string) (model.DepartmentConfig, bool) {
	sched, ok := m.departments[departmentID]
	if !ok {
		return model.DepartmentConfig{}, false
	}
	return sched.config, true
}

// Departments lists all configured departments in registration order.
func (m *Manager) Departments() []model.DepartmentConfig {
	out := make([]model.DepartmentConfig, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.departments[id].config)
	}
	return out
}

// GenerateTimeSlots derives the full slot grid for a department on the
// given date. The date only feeds the slot IDs; slot times are
// wall-clock. An unknown department yields an empty grid, not an error.
func (m *Manager) GenerateTimeSlots(departmentID string, date time.Time) []model.TimeSlot {
	sched, ok := m.departments[departmentID]
	if !ok {
		return []model.TimeSlot{}
	}

	day := date.In(m.loc).Format("2006-01-02")
	slots := make([]model.TimeSlot, 0)

	cursor := sched.start
	ordinal := 1
	for cursor < sched.end {
		// Lunch consumes the cursor without emitting; the ordinal keeps
		// counting emitted slots only.
		if sched.hasLunch && cursor >= sched.lunchStart && cursor < sched.lunchEnd {
			cursor = sched.lunchEnd
			continue
		}

		slotEnd := cursor.AddMinutes(sched.config.ServiceTimeMinutes)
		if slotEnd > sched.end {
			// A trailing slot that would overrun closing time is
			// dropped, never shrunk.
			break
		}

		slots = append(slots, model.TimeSlot{
			ID:        fmt.Sprintf("%s-%s-%03d", departmentID, day, ordinal),
			StartTime: cursor.String(),
			EndTime:   slotEnd.String(),
			Capacity:  slotCapacity,
			Booked:    0,
			Available: true,
		})

		cursor = slotEnd
		ordinal++
	}

	return slots
}

// GetAvailableSlots resolves the slot grid against existing bookings
// for the date, populating Booked and Available on every slot. Bookings
// are matched by calendar day and by exact string equality between the
// booking's TimeSlot and the slot's StartTime; a booking whose time
// string drifts from the generated format simply does not count.
func (m *Manager) GetAvailableSlots(departmentID string, date time.Time, bookings []*model.Booking) []model.TimeSlot {
	slots := m.GenerateTimeSlots(departmentID, date)
	if len(slots) == 0 {
		return slots
	}

	tally := make(map[string]int)
	for _, b := range bookings {
		if b == nil || b.AppointmentDate.IsZero() {
			continue
		}
		if !sameCalendarDay(b.AppointmentDate, date, m.loc) {
			continue
		}
		tally[b.TimeSlot]++
	}

	for i := range slots {
		booked := tally[slots[i].StartTime]
		slots[i].Booked = booked
		slots[i].Available = booked < slots[i].Capacity
	}

	return slots
}

// GetSuggestedSlots returns the first open slots in chronological
// order, at most the department's SlotsPerBooking.
func (m *Manager) GetSuggestedSlots(departmentID string, date time.Time, bookings []*model.Booking) []model.TimeSlot {
	sched, ok := m.departments[departmentID]
	if !ok {
		return []model.TimeSlot{}
	}

	suggested := make([]model.TimeSlot, 0, sched.config.SlotsPerBooking)
	for _, s := range m.GetAvailableSlots(departmentID, date, bookings) {
		if !s.Available {
			continue
		}
		suggested = append(suggested, s)
		if len(suggested) == sched.config.SlotsPerBooking {
			break
		}
	}

	return suggested
}

// IsSlotAvailable reports whether the slot starting at timeSlot is open
// on the date. Unknown time strings are never available.
func (m *Manager) IsSlotAvailable(departmentID string, date time.Time, timeSlot string, bookings []*model.Booking) bool {
	for _, s := range m.GetAvailableSlots(departmentID, date, bookings) {
		if s.StartTime == timeSlot {
			return s.Available
		}
	}
	return false
}

// CalculateWaitTime estimates the queued work for the date in minutes:
// total booked slots times the service duration. It is a coarse linear
// estimate and ignores slots already elapsed or in progress.
func (m *Manager) CalculateWaitTime(departmentID string, date time.Time, bookings []*model.Booking) int {
	sched, ok := m.departments[departmentID]
	if !ok {
		return 0
	}

	booked := 0
	for _, s := range m.GetAvailableSlots(departmentID, date, bookings) {
		booked += s.Booked
	}
	return booked * sched.config.ServiceTimeMinutes
}

// GetCapacityInfo aggregates the resolved grid into capacity metrics.
func (m *Manager) GetCapacityInfo(departmentID string, date time.Time, bookings []*model.Booking) model.CapacityInfo {
	slots := m.GetAvailableSlots(departmentID, date, bookings)

	info := model.CapacityInfo{TotalCapacity: len(slots)}
	for _, s := range slots {
		info.Booked += s.Booked
	}
	info.Available = info.TotalCapacity - info.Booked

	if info.TotalCapacity > 0 {
		info.Percentage = int(math.Round(float64(info.Booked) / float64(info.TotalCapacity) * 100))
	}

	return info
}
