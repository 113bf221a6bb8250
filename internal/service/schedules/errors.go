package schedules

import "errors"

var (
	// ErrStaffNotFound возвращается, когда мастер не найден
	ErrStaffNotFound = errors.New("staff member not found")

	// ErrInvalidInterval возвращается, когда интервал расписания
	// некорректен (начало не раньше конца или неверный формат времени)
	ErrInvalidInterval = errors.New("invalid schedule interval")

	// ErrScheduleOverlap возвращается, когда интервалы одного мастера
	// на одну дату пересекаются
	ErrScheduleOverlap = errors.New("schedule intervals overlap")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
