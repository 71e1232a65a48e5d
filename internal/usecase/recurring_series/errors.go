package recurring_series

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("recurring_series: invalid input data")

	// ErrGroupNotFound возвращается, когда серия не найдена
	ErrGroupNotFound = errors.New("recurring_series: recurring group not found")

	// ErrAppointmentNotInGroup возвращается, когда запись не принадлежит серии
	ErrAppointmentNotInGroup = errors.New("recurring_series: appointment does not belong to the group")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("recurring_series: internal error")
)
