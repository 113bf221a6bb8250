package domain

import (
	"time"

	"github.com/anwarakram/bookly/pkg/types"
)

// WorkingSchedule is one bookable interval of a staff member on a
// calendar date. A staff member may have zero, one or several disjoint
// intervals per date; rows for the same staff and date must not overlap.
type WorkingSchedule struct {
	ID         int64
	BusinessID int64
	StaffID    int64
	Date       time.Time // date component only

	StartTime types.TimeString
	EndTime   types.TimeString
}

// Contains reports whether [start, end) lies entirely inside the
// interval on its date. start and end must be on the schedule's date;
// an appointment may not cross midnight or span two intervals.
func (w *WorkingSchedule) Contains(start, end time.Time) bool {
	intervalStart, err := w.StartTime.At(start)
	if err != nil {
		return false
	}
	intervalEnd, err := w.EndTime.At(start)
	if err != nil {
		return false
	}
	return !start.Before(intervalStart) && !end.After(intervalEnd)
}

// OverlapsInterval reports whether [startTime, endTime) intersects the
// schedule interval (half-open semantics, touching boundaries are fine)
func (w *WorkingSchedule) OverlapsInterval(startTime, endTime types.TimeString) bool {
	return w.StartTime.IsBefore(endTime) && startTime.IsBefore(w.EndTime)
}
