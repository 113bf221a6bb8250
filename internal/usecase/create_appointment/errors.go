package create_appointment

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("create_appointment: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrStaffNotFound возвращается, когда мастер не найден
	ErrStaffNotFound = errors.New("create_appointment: staff member not found")

	// ErrStaffInactive возвращается, когда мастер деактивирован
	ErrStaffInactive = errors.New("create_appointment: staff member is inactive")

	// ErrPastDate возвращается при попытке записи на прошедшее время
	ErrPastDate = errors.New("create_appointment: appointment time is in the past")

	// ErrInvalidRange возвращается при некорректном временном интервале
	ErrInvalidRange = errors.New("create_appointment: invalid time range")

	// ErrOutsideWorkingHours возвращается, когда интервал выходит за
	// рамки рабочего расписания мастера
	ErrOutsideWorkingHours = errors.New("create_appointment: outside working hours")

	// ErrDoubleBooking возвращается при пересечении с активной записью мастера
	ErrDoubleBooking = errors.New("create_appointment: double booking")

	// ErrServiceGapTooLarge возвращается, когда разрыв между услугами
	// одной записи превышает настроенный максимум
	ErrServiceGapTooLarge = errors.New("create_appointment: gap between services is too large")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
