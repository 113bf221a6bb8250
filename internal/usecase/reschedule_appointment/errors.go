package reschedule_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("reschedule_appointment: appointment not found")

	// ErrTerminalState возвращается при попытке перенести завершённую
	// или отменённую запись
	ErrTerminalState = errors.New("reschedule_appointment: appointment is in terminal state")

	// ErrNoServices возвращается для записи без строк услуг
	ErrNoServices = errors.New("reschedule_appointment: appointment has no services")

	// ErrPastDate возвращается при попытке переноса на прошедшее время
	ErrPastDate = errors.New("reschedule_appointment: appointment time is in the past")

	// ErrInvalidRange возвращается при некорректном временном интервале
	ErrInvalidRange = errors.New("reschedule_appointment: invalid time range")

	// ErrOutsideWorkingHours возвращается, когда новый интервал выходит
	// за рамки рабочего расписания мастера
	ErrOutsideWorkingHours = errors.New("reschedule_appointment: outside working hours")

	// ErrDoubleBooking возвращается при пересечении с активной записью мастера
	ErrDoubleBooking = errors.New("reschedule_appointment: double booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_appointment: internal error")
)
