package domain

// Default platform limits
const (
	DefaultMaxAdvanceDays   = 30
	DefaultMaxDailyBookings = 3
	DefaultSlotStepMinutes  = 30
)

// Business validation constants
const (
	MinAdvanceDays      = 1
	MaxAdvanceDays      = 365
	MinDailyBookings    = 1
	MaxDailyBookings    = 20
	MinSlotStepMinutes  = 5
	MaxSlotStepMinutes  = 240
	MaxNotesLength      = 500
	MaxCancelReasonSize = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses statuses that no longer occupy a slot
var InactiveStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// ActiveStatuses statuses considered by the conflict check
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusApproved,
	StatusConfirmed,
	StatusInProgress,
}
