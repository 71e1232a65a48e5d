package update_appointment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_appointment: invalid input data")

	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("update_appointment: appointment not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("update_appointment: service not found")

	// ErrTimeConflict возвращается при пересечении с другой записью
	ErrTimeConflict = errors.New("update_appointment: time conflict with existing appointment")

	// ErrStaffUnavailable возвращается, когда новый интервал попадает в блокировку расписания
	ErrStaffUnavailable = errors.New("update_appointment: staff is unavailable at this time")

	// ErrRoomAtCapacity возвращается, когда кабинет занят до предела вместимости
	ErrRoomAtCapacity = errors.New("update_appointment: room is at capacity")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_appointment: internal error")
)
