package slot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:00", 480, false},
		{"13:45", 825, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"8:00", 0, true},
		{"08:60", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeOfDayString_ZeroPads(t *testing.T) {
	assert.Equal(t, "08:05", TimeOfDay(485).String())
	assert.Equal(t, "00:00", TimeOfDay(0).String())
	assert.Equal(t, "19:30", TimeOfDay(1170).String())
}

func TestTimeOfDayAddMinutes(t *testing.T) {
	tod, err := ParseTimeOfDay("09:45")
	require.NoError(t, err)
	assert.Equal(t, "10:15", tod.AddMinutes(30).String())
}

func TestSameCalendarDay(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	a := time.Date(2026, time.March, 8, 20, 30, 0, 0, time.UTC)
	b := time.Date(2026, time.March, 9, 9, 0, 0, 0, ist)

	// 20:30 UTC on the 8th is already the 9th in IST.
	assert.True(t, sameCalendarDay(a, b, ist))
	assert.False(t, sameCalendarDay(a, b, time.UTC))
}
