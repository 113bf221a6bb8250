package create_appointment

import (
	"fmt"

	"github.com/anwarakram/bookly/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.ClientName == "" || len(req.ClientName) > domain.MaxClientNameLength {
		return fmt.Errorf("%w: clientName must be 1..%d characters", ErrInvalidInput, domain.MaxClientNameLength)
	}

	if req.ClientPhone == "" || len(req.ClientPhone) > domain.MaxClientPhoneLength {
		return fmt.Errorf("%w: clientPhone must be 1..%d characters", ErrInvalidInput, domain.MaxClientPhoneLength)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if len(req.Services) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	for i, sel := range req.Services {
		if sel.ServiceID <= 0 {
			return fmt.Errorf("%w: services[%d].serviceID must be positive", ErrInvalidInput, i)
		}
		if sel.StaffID <= 0 {
			return fmt.Errorf("%w: services[%d].staffID must be positive", ErrInvalidInput, i)
		}
		if sel.StartTime != nil {
			if err := sel.StartTime.Validate(); err != nil {
				return fmt.Errorf("%w: services[%d] invalid startTime format: %v", ErrInvalidInput, i, err)
			}
		}
	}

	return nil
}

// validateServiceGap проверяет разрыв между концом предыдущей услуги и
// началом следующей. Отрицательный разрыв означает нарушение порядка
// услуг; превышение maxGapMinutes допустимо только при maxGapMinutes=0
// (политика отключена).
func validateServiceGap(gapMinutes int, maxGapMinutes int) error {
	if gapMinutes < 0 {
		return fmt.Errorf("%w: services must not overlap or run out of order", ErrInvalidInput)
	}
	if maxGapMinutes > 0 && gapMinutes > maxGapMinutes {
		return fmt.Errorf("%w: gap is %d minutes, maximum is %d", ErrServiceGapTooLarge, gapMinutes, maxGapMinutes)
	}
	return nil
}
