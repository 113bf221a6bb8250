package domain

import "time"

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "PENDING"
	StatusConfirmed  AppointmentStatus = "CONFIRMED"
	StatusInProgress AppointmentStatus = "IN_PROGRESS"
	StatusCompleted  AppointmentStatus = "COMPLETED"
	StatusCancelled  AppointmentStatus = "CANCELLED"
)

// transitions is the appointment state machine:
// PENDING -> CONFIRMED -> IN_PROGRESS -> COMPLETED, any active state may
// be cancelled, terminal states are absorbing.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// IsValid reports whether the value is a known status
func (s AppointmentStatus) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsActive reports whether the status occupies a staff time slot
func (s AppointmentStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusInProgress
}

// IsTerminal reports whether the status is absorbing
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the state machine permits s -> next
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment represents a client booking session owning one or more
// booked services
type Appointment struct {
	ID          int64
	BusinessID  int64
	ClientName  string
	ClientPhone string
	Status      AppointmentStatus
	Notes       *string

	// CheckInCode unique code handed to the client for on-site check-in
	CheckInCode string

	// TotalPrice derived field: sum of service prices, recomputed after
	// every mutation of the service set, never set directly
	TotalPrice float64

	CancellationReason *string
	CancelledAt        *time.Time

	Services []AppointmentService

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the appointment occupies its staff time slots
func (a *Appointment) IsActive() bool {
	return a.Status.IsActive()
}

// CanBeRescheduled reports whether the appointment may still be moved
func (a *Appointment) CanBeRescheduled() bool {
	return !a.Status.IsTerminal()
}

// CalculateTotalPrice returns the sum of the booked service prices
func (a *Appointment) CalculateTotalPrice() float64 {
	var total float64
	for _, s := range a.Services {
		total += s.Price
	}
	return total
}

// FirstService returns the earliest booked service, or nil for an
// appointment without services
func (a *Appointment) FirstService() *AppointmentService {
	if len(a.Services) == 0 {
		return nil
	}
	first := &a.Services[0]
	for i := range a.Services[1:] {
		if a.Services[i+1].StartTime.Before(first.StartTime) {
			first = &a.Services[i+1]
		}
	}
	return first
}

// AppointmentService is one booked (service, staff, time range) unit.
// Name, price and the [StartTime, EndTime) range are frozen at booking
// time; later catalog edits do not touch existing bookings.
type AppointmentService struct {
	ID            int64
	AppointmentID int64
	ServiceID     int64

	// StaffID is nullable: deleting a staff member detaches historical
	// bookings instead of destroying them
	StaffID *int64

	StartTime time.Time
	EndTime   time.Time

	// Denormalized for history
	ServiceName string
	Price       float64
}

// Duration returns the frozen length of the booked unit
func (s *AppointmentService) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching boundaries do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// AppointmentsFilter filters business-scoped appointment listings
type AppointmentsFilter struct {
	BusinessID      int64
	StaffID         *int64
	StartDate       *time.Time
	EndDate         *time.Time
	Status          *AppointmentStatus
	IncludeInactive bool
}
