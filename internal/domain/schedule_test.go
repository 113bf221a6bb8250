package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/anwarakram/bookly/pkg/types"
)

func TestWorkingSchedule_Contains(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	at := func(hour, minute int) time.Time {
		return time.Date(2026, 9, 1, hour, minute, 0, 0, time.UTC)
	}

	w := &WorkingSchedule{
		Date:      date,
		StartTime: types.TimeString("09:00"),
		EndTime:   types.TimeString("18:00"),
	}

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"fully inside", at(10, 0), at(11, 0), true},
		{"exact boundaries", at(9, 0), at(18, 0), true},
		{"starts before opening", at(8, 30), at(10, 0), false},
		{"ends after closing", at(17, 30), at(18, 30), false},
		{"entirely outside", at(19, 0), at(20, 0), false},
		{"ends exactly at closing", at(17, 0), at(18, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Contains(tt.start, tt.end))
		})
	}
}

func TestWorkingSchedule_OverlapsInterval(t *testing.T) {
	w := &WorkingSchedule{
		StartTime: types.TimeString("09:00"),
		EndTime:   types.TimeString("12:00"),
	}

	assert.True(t, w.OverlapsInterval(types.TimeString("11:00"), types.TimeString("13:00")))
	assert.True(t, w.OverlapsInterval(types.TimeString("08:00"), types.TimeString("09:30")))
	assert.False(t, w.OverlapsInterval(types.TimeString("12:00"), types.TimeString("14:00")))
	assert.False(t, w.OverlapsInterval(types.TimeString("07:00"), types.TimeString("09:00")))
}
