package domain

import "time"

// Business is the tenant root owning services, staff, schedules and
// appointments
type Business struct {
	ID      int64
	Name    string
	Address string
	Phone   string

	CreatedAt time.Time
}

// PriceType distinguishes fixed-price services from variable ones
type PriceType string

const (
	PriceTypeFixed    PriceType = "FIXED"
	PriceTypeVariable PriceType = "VARIABLE"
)

// Service is a bookable catalog entry of a business.
// (business, name) is unique. Bookings freeze their own copy of
// duration and price, so catalog edits never rewrite history.
type Service struct {
	ID              int64
	BusinessID      int64
	Name            string
	DurationMinutes int
	Price           float64
	PriceType       PriceType
	Color           string
	Description     *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Duration returns the service length as a time.Duration
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// HasValidDuration checks the 15 minute .. 8 hour bound
func (s *Service) HasValidDuration() bool {
	return s.DurationMinutes >= MinServiceDurationMinutes &&
		s.DurationMinutes <= MaxServiceDurationMinutes
}

// StaffMember is a bookable user with role STAFF belonging to one business
type StaffMember struct {
	ID          int64
	BusinessID  int64
	Email       string
	DisplayName string
	Active      bool

	CreatedAt time.Time
}
