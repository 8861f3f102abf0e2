package validator

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ShopHours platform-wide floor applied on top of each business's own hours
type ShopHours struct {
	Hours          types.ClockRange
	ClosedWeekdays []time.Weekday
	Holidays       []time.Time // calendar days, compared by year/month/day
}

func (s *ShopHours) isClosedWeekday(day time.Weekday) bool {
	for _, closed := range s.ClosedWeekdays {
		if closed == day {
			return true
		}
	}
	return false
}

func (s *ShopHours) isHoliday(date time.Time) bool {
	y, m, d := date.Date()
	for _, h := range s.Holidays {
		hy, hm, hd := h.Date()
		if y == hy && m == hm && d == hd {
			return true
		}
	}
	return false
}

// Policy bounds used by the validator. Passed explicitly so tests can override them.
type Policy struct {
	MaxAdvanceDays   int // 0 = unlimited
	MaxDailyBookings int // 0 = unlimited
	Location         *time.Location
	ShopHours        *ShopHours // nil = only per-business hours apply
}

// DefaultPolicy platform defaults: 30 days ahead, 3 bookings per day, UTC, no shop floor
func DefaultPolicy() Policy {
	return Policy{
		MaxAdvanceDays:   domain.DefaultMaxAdvanceDays,
		MaxDailyBookings: domain.DefaultMaxDailyBookings,
		Location:         time.UTC,
	}
}

// WithLimits returns a copy of p with business overrides applied
func (p Policy) WithLimits(limits domain.EffectiveLimits) Policy {
	p.MaxAdvanceDays = limits.MaxAdvanceDays
	p.MaxDailyBookings = limits.MaxDailyBookings
	return p
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// Day приводит дату к календарному дню в локации политики.
// Год, месяц и число берутся из date как есть, без перевода часового пояса.
func (p Policy) Day(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, p.location())
}

// Today календарный день now в локации политики
func (p Policy) Today(now time.Time) time.Time {
	return p.Day(now.In(p.location()))
}
