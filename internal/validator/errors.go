package validator

import "errors"

// Виды отказа. Проверяются через errors.Is, сообщение для пользователя берётся из Error().
var (
	ErrPastDate              = errors.New("past date")
	ErrAdvanceWindowExceeded = errors.New("advance window exceeded")
	ErrServiceUnavailable    = errors.New("service unavailable")
	ErrOwnershipConflict     = errors.New("ownership conflict")
	ErrBusinessClosed        = errors.New("business closed")
	ErrStaffUnavailable      = errors.New("staff unavailable")
	ErrBusinessClosedOnDay   = errors.New("business closed on day")
	ErrOutsideBusinessHours  = errors.New("outside business hours")
	ErrStaffDayOff           = errors.New("staff day off")
	ErrOutsideStaffHours     = errors.New("outside staff hours")
	ErrInsufficientNotice    = errors.New("insufficient notice")
	ErrDailyCapExceeded      = errors.New("daily cap exceeded")
	ErrDuplicateService      = errors.New("duplicate service")
	ErrTimeOverlap           = errors.New("time overlap")
	ErrInvalidRedemption     = errors.New("invalid redemption")
)

var codes = map[error]string{
	ErrPastDate:              "past_date",
	ErrAdvanceWindowExceeded: "advance_window_exceeded",
	ErrServiceUnavailable:    "service_unavailable",
	ErrOwnershipConflict:     "ownership_conflict",
	ErrBusinessClosed:        "business_closed",
	ErrStaffUnavailable:      "staff_unavailable",
	ErrBusinessClosedOnDay:   "business_closed_on_day",
	ErrOutsideBusinessHours:  "outside_business_hours",
	ErrStaffDayOff:           "staff_day_off",
	ErrOutsideStaffHours:     "outside_staff_hours",
	ErrInsufficientNotice:    "insufficient_notice",
	ErrDailyCapExceeded:      "daily_cap_exceeded",
	ErrDuplicateService:      "duplicate_service",
	ErrTimeOverlap:           "time_overlap",
	ErrInvalidRedemption:     "invalid_redemption",
}

// Error отказ в бронировании: вид (один из Err*) и сообщение для показа клиенту
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Code машиночитаемый код отказа ("time_overlap")
func (e *Error) Code() string {
	return codes[e.Kind]
}

// IsConflict returns true for rejections caused by the customer's other appointments
func (e *Error) IsConflict() bool {
	return e.Kind == ErrDailyCapExceeded || e.Kind == ErrDuplicateService || e.Kind == ErrTimeOverlap
}

func reject(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// AsError извлекает *Error из цепочки ошибок
func AsError(err error) (*Error, bool) {
	var vErr *Error
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

// NewInvalidRedemption отказ для награды, которую нельзя применить
func NewInvalidRedemption() *Error {
	return reject(ErrInvalidRedemption, "The selected reward is not available for this booking")
}

// NewServiceUnavailable отказ для услуги, которой нет в каталоге
func NewServiceUnavailable() *Error {
	return reject(ErrServiceUnavailable, "This service is not currently available for booking")
}

// NewStaffUnavailable отказ для сотрудника, которого нет в каталоге или он из другого бизнеса
func NewStaffUnavailable() *Error {
	return reject(ErrStaffUnavailable, "The selected staff member is not available for bookings")
}

// NewDuplicateService отказ при срабатывании уникального индекса на (клиент, день, услуга)
func NewDuplicateService(serviceName string) *Error {
	return reject(ErrDuplicateService, "You already have a booking for "+quoted(serviceName, "this service")+" on this day")
}
