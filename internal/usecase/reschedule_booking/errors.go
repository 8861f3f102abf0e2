package reschedule_booking

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("reschedule_booking: appointment not found")

	// ErrAccessDenied возвращается, когда запись переносит не её владелец
	ErrAccessDenied = errors.New("reschedule_booking: access denied")

	// ErrInvalidStatus возвращается, когда запись в статусе, из которого перенос невозможен
	ErrInvalidStatus = errors.New("reschedule_booking: appointment cannot be rescheduled in its current status")

	// ErrBusinessNotFound возвращается, когда бизнес записи не найден в каталоге
	ErrBusinessNotFound = errors.New("reschedule_booking: business not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
