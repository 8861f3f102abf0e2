package create_booking

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес услуги не найден в каталоге
	ErrBusinessNotFound = errors.New("create_booking: business not found")

	// ErrAccessDenied возвращается, когда walk-in создаёт не владелец бизнеса
	ErrAccessDenied = errors.New("create_booking: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
