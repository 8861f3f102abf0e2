package domain

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// NoticeUnit единица измерения минимального времени до записи
type NoticeUnit string

const (
	NoticeMinutes NoticeUnit = "minutes"
	NoticeHours   NoticeUnit = "hours"
	NoticeDays    NoticeUnit = "days"
)

// AdvanceNotice minimum lead time between booking and appointment start
type AdvanceNotice struct {
	Value int
	Unit  NoticeUnit
}

// IsZero returns true if no notice is required
func (n AdvanceNotice) IsZero() bool {
	return n.Value <= 0
}

// Duration converts the notice to a time.Duration. Unknown units count as minutes.
func (n AdvanceNotice) Duration() time.Duration {
	if n.IsZero() {
		return 0
	}
	switch n.Unit {
	case NoticeDays:
		return time.Duration(n.Value) * 24 * time.Hour
	case NoticeHours:
		return time.Duration(n.Value) * time.Hour
	default:
		return time.Duration(n.Value) * time.Minute
	}
}

// Service a bookable service offered by a business
type Service struct {
	ID                int64
	BusinessID        int64
	Name              string
	IsActive          bool
	Price             float64
	PointsEarned      int
	MinAdvanceBooking AdvanceNotice
}

// StaffDay working window of a staff member on one weekday.
// A nil bound means the staff member did not restrict that side of the day.
type StaffDay struct {
	IsAvailable bool
	Start       *types.ClockTime
	End         *types.ClockTime
}

// Window returns the working window, defaulting missing bounds to 00:00 and 24:00
func (d StaffDay) Window() types.ClockRange {
	window := types.ClockRange{Start: types.Midnight, End: types.EndOfDay}
	if d.Start != nil {
		window.Start = *d.Start
	}
	if d.End != nil {
		window.End = *d.End
	}
	return window
}

// Staff a staff member of a business
type Staff struct {
	ID         int64
	BusinessID int64
	Name       string
	IsActive   bool
	// Availability by weekday. A missing weekday means the whole day is available.
	Availability map[time.Weekday]StaffDay
}

// AvailabilityFor returns the staff entry for a weekday, if any
func (s *Staff) AvailabilityFor(day time.Weekday) (StaffDay, bool) {
	d, ok := s.Availability[day]
	return d, ok
}

// BusinessDay opening hours of a business on one weekday
type BusinessDay struct {
	IsOpen    bool
	OpenTime  types.ClockTime
	CloseTime types.ClockTime
}

// Hours returns the opening window
func (d BusinessDay) Hours() types.ClockRange {
	return types.ClockRange{Start: d.OpenTime, End: d.CloseTime}
}

// TemporaryClosure temporary closure set by the owner
type TemporaryClosure struct {
	IsClosed bool
	Reason   string
	Until    *time.Time // nil = until reopened manually
}

// Business a tenant of the platform
type Business struct {
	ID                int64
	OwnerID           int64
	Name              string
	IsActive          bool
	IsApproved        bool
	AcceptingBookings bool
	Closure           TemporaryClosure
	Hours             map[time.Weekday]BusinessDay
}

// CanAcceptBookings returns true if the business is active, approved by the
// platform and has bookings switched on
func (b *Business) CanAcceptBookings() bool {
	return b.IsActive && b.IsApproved && b.AcceptingBookings
}

// IsTemporarilyClosed returns true while a temporary closure is in effect at now
func (b *Business) IsTemporarilyClosed(now time.Time) bool {
	if !b.Closure.IsClosed {
		return false
	}
	return b.Closure.Until == nil || now.Before(*b.Closure.Until)
}

// HoursForDay returns the opening hours for a weekday, if configured
func (b *Business) HoursForDay(day time.Weekday) (BusinessDay, bool) {
	d, ok := b.Hours[day]
	return d, ok
}

// IsOwnedBy returns true if userID owns the business
func (b *Business) IsOwnedBy(userID int64) bool {
	return b.OwnerID == userID
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday разбирает название дня недели ("monday", "Monday")
func ParseWeekday(name string) (time.Weekday, bool) {
	day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	return day, ok
}

// WeekdayName возвращает название дня недели в нижнем регистре
func WeekdayName(day time.Weekday) string {
	return strings.ToLower(day.String())
}
