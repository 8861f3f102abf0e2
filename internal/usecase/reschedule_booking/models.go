package reschedule_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на перенос записи
type Request struct {
	AppointmentID int64
	CustomerID    int64 // кто переносит, должен совпадать с клиентом записи
	Date          time.Time
	StartTime     types.ClockTime
	EndTime       types.ClockTime
	StaffID       *int64 // nil = оставить текущего сотрудника
}

// Response модель ответа с перенесённой записью
type Response struct {
	ID          int64
	CustomerID  int64
	BusinessID  int64
	ServiceID   int64
	StaffID     *int64
	Date        time.Time
	StartTime   types.ClockTime
	EndTime     types.ClockTime
	Status      string
	ServiceName string
	Notes       *string
	FinalPrice  float64
	QueueNumber int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
