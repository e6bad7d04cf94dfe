package slot

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
// Slot arithmetic never crosses a day boundary, so plain integer math
// is enough.
type TimeOfDay int

// ParseTimeOfDay parses a strict 24-hour HH:MM string. time.Parse alone
// accepts unpadded hours like "8:00", so the shape is checked first.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time of day %q: want HH:MM", s)
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// String formats the time back to zero-padded HH:MM. Generated slot
// times always come through here, which is what makes exact string
// matching against stored bookings work.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// AddMinutes returns the time m minutes later.
func (t TimeOfDay) AddMinutes(m int) TimeOfDay {
	return t + TimeOfDay(m)
}

// sameCalendarDay compares two instants by calendar day in the given
// zone, ignoring time-of-day.
func sameCalendarDay(a, b time.Time, loc *time.Location) bool {
	y1, m1, d1 := a.In(loc).Date()
	y2, m2, d2 := b.In(loc).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
