package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "pending"
	StatusApproved   AppointmentStatus = "approved"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in-progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no-show"
)

// Appointment represents a customer's booking of a business service
type Appointment struct {
	ID         int64
	CustomerID int64
	ServiceID  int64
	BusinessID int64
	StaffID    *int64 // nil = any available staff member

	Date     time.Time // calendar day, time-of-day zeroed
	TimeSlot types.ClockRange
	Status   AppointmentStatus

	// Denormalized for conflict messages and history
	ServiceName string

	Notes              *string
	AppliedRedemption  *int64
	DiscountApplied    float64
	FinalPrice         float64
	QueueNumber        int // sequential per business per day, display only
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status.IsActive()
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status.IsActive()
}

// CanBeRescheduled returns true if the customer may move the appointment
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusPending || a.Status == StatusApproved || a.Status == StatusConfirmed
}

// IsTerminal returns true for completed, cancelled and no-show appointments
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// IsActive returns true for statuses that occupy a slot
func (s AppointmentStatus) IsActive() bool {
	switch s {
	case StatusPending, StatusApproved, StatusConfirmed, StatusInProgress:
		return true
	default:
		return false
	}
}

// IsValid returns true if s is a known status
func (s AppointmentStatus) IsValid() bool {
	return s.IsActive() || s.IsTerminal()
}

// CanTransitionTo проверяет допустимость перехода статуса.
// Отмена возможна из любого нетерминального состояния.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if next == StatusCancelled {
		return s.IsActive()
	}
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:    {StatusApproved, StatusConfirmed},
	StatusApproved:   {StatusConfirmed, StatusInProgress, StatusNoShow},
	StatusConfirmed:  {StatusInProgress, StatusNoShow},
	StatusInProgress: {StatusCompleted},
}

// AppointmentFilter фильтр для выборки записей бизнеса или клиента
type AppointmentFilter struct {
	BusinessID      *int64
	CustomerID      *int64
	StartDate       *time.Time // включительно
	EndDate         *time.Time // включительно
	Status          *AppointmentStatus
	IncludeInactive bool // включать завершённые, отменённые и no-show
}
