package model

// WorkingHours describes a department's daily schedule as wall-clock
// HH:MM strings. Lunch fields are empty when the department takes no
// lunch break.
type WorkingHours struct {
	Start      string `json:"start" mapstructure:"start"`
	End        string `json:"end" mapstructure:"end"`
	LunchStart string `json:"lunchStart,omitempty" mapstructure:"lunch_start"`
	LunchEnd   string `json:"lunchEnd,omitempty" mapstructure:"lunch_end"`
}

// HasLunchBreak reports whether a lunch window is configured.
func (w WorkingHours) HasLunchBreak() bool {
	return w.LunchStart != "" && w.LunchEnd != ""
}

// DepartmentConfig is the static per-department configuration the slot
// engine derives its grid from. MaxDailyCapacity is informational only;
// generation never enforces it.
type DepartmentConfig struct {
	ID                 string       `json:"id" mapstructure:"id"`
	Name               string       `json:"name" mapstructure:"name"`
	WorkingHours       WorkingHours `json:"workingHours" mapstructure:"working_hours"`
	ServiceTimeMinutes int          `json:"serviceTimeMinutes" mapstructure:"service_time_minutes"`
	MaxDailyCapacity   int          `json:"maxDailyCapacity" mapstructure:"max_daily_capacity"`
	SlotsPerBooking    int          `json:"slotsPerBooking" mapstructure:"slots_per_booking"`
}
