package domain

import "time"

// Slot is a candidate fixed-duration time window evaluated for
// bookability. Candidates are generated every SlotStepMinutes, so
// neighbouring slots of a long service overlap each other; that is the
// booking granularity, not a defect.
type Slot struct {
	StaffID   int64
	StaffName string
	StartTime time.Time
	EndTime   time.Time
}
