package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// dayWindow возвращает интервал, в котором можно записаться на день:
// часы работы бизнеса, суженные до рабочих часов сотрудника (если они заданы)
func dayWindow(business *domain.Business, staff *domain.Staff, weekday time.Weekday) (types.ClockRange, bool) {
	hours, ok := business.HoursForDay(weekday)
	if !ok || !hours.IsOpen {
		return types.ClockRange{}, false
	}
	window := hours.Hours()

	if staff != nil {
		if staffDay, ok := staff.AvailabilityFor(weekday); ok {
			if !staffDay.IsAvailable {
				return types.ClockRange{}, false
			}
			staffWindow := staffDay.Window()
			if staffWindow.Start > window.Start {
				window.Start = staffWindow.Start
			}
			if staffWindow.End < window.End {
				window.End = staffWindow.End
			}
		}
	}

	if !window.Start.IsBefore(window.End) {
		return types.ClockRange{}, false
	}
	return window, true
}

// generateCandidates генерирует интервалы длиной duration с шагом step от начала окна.
// Интервал, выходящий за конец окна, не включается.
func generateCandidates(window types.ClockRange, duration, step int) []types.ClockRange {
	candidates := make([]types.ClockRange, 0)
	if duration <= 0 || step <= 0 {
		return candidates
	}

	for start := window.Start; start.IsBefore(window.End); {
		end, err := start.AddMinutes(duration)
		if err != nil || end.IsAfter(window.End) {
			break
		}
		candidates = append(candidates, types.ClockRange{Start: start, End: end})

		start, err = start.AddMinutes(step)
		if err != nil {
			break
		}
	}

	return candidates
}

// overlapsAny проверяет пересечение интервала с любой активной записью.
// Граничащие интервалы (10:00-11:00 и 11:00-12:00) не пересекаются.
func overlapsAny(slot types.ClockRange, appointments []*domain.Appointment) bool {
	for _, appt := range appointments {
		if appt.IsActive() && slot.Overlaps(appt.TimeSlot) {
			return true
		}
	}
	return false
}
