package admit_appointment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("admit_appointment: invalid input data")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("admit_appointment: service not found")

	// ErrTimeConflict возвращается при пересечении с существующей записью
	// (тот же сотрудник в той же локации либо тот же кабинет)
	ErrTimeConflict = errors.New("admit_appointment: time conflict with existing appointment")

	// ErrStaffUnavailable возвращается, когда интервал попадает в блокировку расписания сотрудника
	ErrStaffUnavailable = errors.New("admit_appointment: staff is unavailable at this time")

	// ErrRoomAtCapacity возвращается, когда кабинет занят до предела вместимости
	ErrRoomAtCapacity = errors.New("admit_appointment: room is at capacity")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("admit_appointment: internal error")
)
