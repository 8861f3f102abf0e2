package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на получение свободного времени
type Request struct {
	CustomerID      int64     // 0 = анонимный запрос, свои записи клиента не учитываются
	BusinessID      int64     // ID бизнеса
	ServiceID       int64     // ID услуги
	StaffID         *int64    // nil = любой сотрудник
	Date            time.Time // день (без времени)
	DurationMinutes int       // длительность записи
}

// Response модель ответа со списком свободных интервалов
type Response struct {
	Date            time.Time
	BusinessID      int64
	ServiceID       int64
	StaffID         *int64
	DurationMinutes int
	StepMinutes     int
	Slots           []Slot
}

// Slot свободный интервал [StartTime, EndTime)
type Slot struct {
	StartTime types.ClockTime
	EndTime   types.ClockTime
}
