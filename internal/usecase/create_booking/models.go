package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	CustomerID   int64           // клиент, на которого создаётся запись
	ServiceID    int64           // ID услуги
	StaffID      *int64          // nil = любой свободный сотрудник
	Date         time.Time       // календарный день
	StartTime    types.ClockTime // начало, "HH:MM"
	EndTime      types.ClockTime // конец, "HH:MM"
	Notes        *string         // заметки клиента (опционально)
	RedemptionID *int64          // награда для скидки (опционально)

	// Walk-in: запись создаёт владелец бизнеса за клиента, статус сразу approved
	WalkIn     bool
	ActorID    int64 // кто создаёт запись (для walk-in владелец)
	BusinessID int64 // бизнес из пути запроса; 0 = берётся из услуги
}

// Response модель ответа с созданной записью
type Response struct {
	ID                int64
	CustomerID        int64
	BusinessID        int64
	ServiceID         int64
	StaffID           *int64
	Date              time.Time
	StartTime         types.ClockTime
	EndTime           types.ClockTime
	Status            string
	ServiceName       string
	Notes             *string
	AppliedRedemption *int64
	BasePrice         float64
	DiscountApplied   float64
	FinalPrice        float64
	QueueNumber       int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
