package domain

// Scheduling constants
const (
	// SlotStepMinutes is the fixed booking granularity: slot candidates
	// start every 30 minutes regardless of service duration
	SlotStepMinutes = 30

	// Service duration bounds
	MinServiceDurationMinutes = 15
	MaxServiceDurationMinutes = 480 // 8 hours
)

// Input length limits
const (
	MaxClientNameLength         = 100
	MaxClientPhoneLength        = 20
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses statuses that occupy a staff time slot.
// Overlap checks only consider services of appointments in these states.
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
}

// TerminalStatuses absorbing states: no transition leads out of them
var TerminalStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusCancelled,
}
