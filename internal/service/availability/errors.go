package availability

import "errors"

var (
	// ErrPastDate возвращается при попытке записи на прошедшее время
	ErrPastDate = errors.New("appointment time is in the past")

	// ErrInvalidRange возвращается при некорректном временном интервале
	ErrInvalidRange = errors.New("invalid time range")

	// ErrOutsideWorkingHours возвращается, когда интервал выходит за
	// рамки рабочего расписания мастера
	ErrOutsideWorkingHours = errors.New("outside working hours")

	// ErrDoubleBooking возвращается при пересечении с активной записью мастера
	ErrDoubleBooking = errors.New("double booking")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)
