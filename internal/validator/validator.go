package validator

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request proposed booking checked by the Validator
type Request struct {
	CustomerID int64
	Date       time.Time // calendar day
	Slot       types.ClockRange
	Service    *domain.Service
	Business   *domain.Business
	Staff      *domain.Staff // nil = any available staff member, staff checks are skipped
}

// Validator decides whether a proposed booking may be created.
// All checks are pure: they read their arguments and never mutate them.
type Validator struct {
	policy Policy
}

// New создаёт валидатор с заданной политикой
func New(policy Policy) *Validator {
	return &Validator{policy: policy}
}

// Policy returns the validator's policy
func (v *Validator) Policy() Policy {
	return v.policy
}

// WithPolicy returns a validator for a different policy (e.g. with business overrides)
func (v *Validator) WithPolicy(policy Policy) *Validator {
	return &Validator{policy: policy}
}

// Validate runs all four checks in order and returns the first failure.
// exclude skips one of the existing appointments (the one being rescheduled).
func (v *Validator) Validate(req *Request, existing []*domain.Appointment, exclude *int64, now time.Time) error {
	if err := v.ValidateSchedule(req, now); err != nil {
		return err
	}
	return v.CheckConflicts(req.Service.ID, req.Slot, existing, exclude)
}

// ValidateSchedule runs the temporal, eligibility and schedule checks.
// They need no appointment data, so callers run them before opening a transaction.
func (v *Validator) ValidateSchedule(req *Request, now time.Time) error {
	if err := v.CheckTemporalWindow(req.Date, now); err != nil {
		return err
	}
	if err := v.CheckEligibility(req, now); err != nil {
		return err
	}
	return v.CheckScheduleFit(req, now)
}

// CheckTemporalWindow проверяет, что день не в прошлом и не дальше MaxAdvanceDays.
// Сравниваются календарные дни, время суток не учитывается.
func (v *Validator) CheckTemporalWindow(date, now time.Time) error {
	day := v.policy.Day(date)
	today := v.policy.Today(now)

	if day.Before(today) {
		return reject(ErrPastDate, "Cannot book appointments in the past")
	}

	if v.policy.MaxAdvanceDays > 0 && day.After(today.AddDate(0, 0, v.policy.MaxAdvanceDays)) {
		return reject(ErrAdvanceWindowExceeded, fmt.Sprintf(
			"Appointments can only be booked up to %d days in advance", v.policy.MaxAdvanceDays))
	}

	return nil
}

// CheckEligibility проверяет услугу, владельца бизнеса, статус бизнеса и сотрудника
func (v *Validator) CheckEligibility(req *Request, now time.Time) error {
	if req.Service == nil {
		return NewServiceUnavailable()
	}
	if !req.Service.IsActive {
		return reject(ErrServiceUnavailable, fmt.Sprintf(
			"%s is not currently available for booking", quoted(req.Service.Name, "This service")))
	}

	business := req.Business
	if business == nil {
		return reject(ErrBusinessClosed, "This business is not accepting bookings at this time")
	}
	if business.IsOwnedBy(req.CustomerID) {
		return reject(ErrOwnershipConflict, "You cannot book services at your own business")
	}

	if business.IsTemporarilyClosed(now) {
		msg := fmt.Sprintf("%s is temporarily closed", quoted(business.Name, "This business"))
		if reason := strings.TrimSpace(business.Closure.Reason); reason != "" {
			msg += ": " + reason
		}
		return reject(ErrBusinessClosed, msg)
	}
	if !business.CanAcceptBookings() {
		return reject(ErrBusinessClosed, fmt.Sprintf(
			"%s is not accepting bookings at this time", quoted(business.Name, "This business")))
	}

	if staff := req.Staff; staff != nil {
		if !staff.IsActive || staff.BusinessID != business.ID {
			return reject(ErrStaffUnavailable, fmt.Sprintf(
				"%s is not available for bookings", quoted(staff.Name, "The selected staff member")))
		}
	}

	return nil
}

// CheckScheduleFit проверяет часы работы бизнеса, расписание сотрудника,
// минимальное время до записи и (если включено) общие часы платформы
func (v *Validator) CheckScheduleFit(req *Request, now time.Time) error {
	day := v.policy.Day(req.Date)
	weekday := day.Weekday()
	dayName := weekday.String()

	// 1. Business hours for the weekday
	hours, ok := req.Business.HoursForDay(weekday)
	if !ok || !hours.IsOpen {
		return reject(ErrBusinessClosedOnDay, fmt.Sprintf(
			"%s is closed on %s", quoted(req.Business.Name, "This business"), dayName))
	}

	// 2. requestedStart < open || requestedEnd > close
	if !req.Slot.Within(hours.Hours()) {
		return reject(ErrOutsideBusinessHours, fmt.Sprintf(
			"Booking time must be within business hours (%s)", hours.Hours().Format12h()))
	}

	// 3. Staff availability, only when a specific staff member was requested
	if req.Staff != nil {
		if staffDay, ok := req.Staff.AvailabilityFor(weekday); ok {
			staffName := quoted(req.Staff.Name, "The selected staff member")
			if !staffDay.IsAvailable {
				return reject(ErrStaffDayOff, fmt.Sprintf("%s is not working on %s", staffName, dayName))
			}
			if window := staffDay.Window(); !req.Slot.Within(window) {
				return reject(ErrOutsideStaffHours, fmt.Sprintf(
					"%s is only available %s on %s", staffName, window.Format12h(), dayName))
			}
		}
	}

	// 4. Minimum advance notice
	if err := v.checkNotice(req, day, now); err != nil {
		return err
	}

	// 5. Platform-wide shop hours floor
	if shop := v.policy.ShopHours; shop != nil {
		if shop.isClosedWeekday(weekday) {
			return reject(ErrBusinessClosedOnDay, fmt.Sprintf("Bookings are not available on %ss", dayName))
		}
		if shop.isHoliday(day) {
			return reject(ErrBusinessClosedOnDay, "Bookings are not available on public holidays")
		}
		if !req.Slot.Within(shop.Hours) {
			return reject(ErrOutsideBusinessHours, fmt.Sprintf(
				"Bookings are only available %s", shop.Hours.Format12h()))
		}
	}

	return nil
}

func (v *Validator) checkNotice(req *Request, day, now time.Time) error {
	notice := req.Service.MinAdvanceBooking
	if notice.IsZero() {
		return nil
	}

	lead := req.Slot.Start.On(day).Sub(now)
	if lead < notice.Duration() {
		return reject(ErrInsufficientNotice, fmt.Sprintf(
			"This service must be booked at least %s in advance", describeNotice(notice)))
	}
	return nil
}

// CheckConflicts проверяет записи клиента на тот же день:
// дневной лимит, повтор услуги, пересечение по времени. Возвращает первый отказ.
func (v *Validator) CheckConflicts(serviceID int64, slot types.ClockRange, existing []*domain.Appointment, exclude *int64) error {
	active := make([]*domain.Appointment, 0, len(existing))
	for _, appt := range existing {
		if appt == nil || !appt.IsActive() {
			continue
		}
		if exclude != nil && appt.ID == *exclude {
			continue
		}
		active = append(active, appt)
	}

	if v.policy.MaxDailyBookings > 0 && len(active) >= v.policy.MaxDailyBookings {
		return reject(ErrDailyCapExceeded, fmt.Sprintf(
			"You can only book up to %d appointments per day", v.policy.MaxDailyBookings))
	}

	for _, appt := range active {
		if appt.ServiceID == serviceID {
			return reject(ErrDuplicateService, fmt.Sprintf(
				"You already have a booking for %s on this day at %s",
				quoted(appt.ServiceName, "this service"), appt.TimeSlot.Format12h()))
		}
	}

	for _, appt := range active {
		if Overlaps(slot, appt.TimeSlot) {
			return reject(ErrTimeOverlap, fmt.Sprintf(
				"This time conflicts with your %s appointment at %s",
				quoted(appt.ServiceName, "existing"), appt.TimeSlot.Format12h()))
		}
	}

	return nil
}

// Overlaps reports whether two half-open ranges intersect: a.Start < b.End && a.End > b.Start.
// Touching ranges do not overlap.
func Overlaps(a, b types.ClockRange) bool {
	return a.Overlaps(b)
}

func describeNotice(n domain.AdvanceNotice) string {
	unit := string(n.Unit)
	switch n.Unit {
	case domain.NoticeMinutes, domain.NoticeHours, domain.NoticeDays:
	default:
		unit = string(domain.NoticeMinutes)
	}
	if n.Value == 1 {
		unit = strings.TrimSuffix(unit, "s")
	}
	return fmt.Sprintf("%d %s", n.Value, unit)
}

func quoted(name, fallback string) string {
	if strings.TrimSpace(name) == "" {
		return fallback
	}
	return name
}
