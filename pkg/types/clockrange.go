package types

import "fmt"

// ClockRange полуоткрытый интервал времени суток [Start, End)
type ClockRange struct {
	Start ClockTime
	End   ClockTime
}

// NewClockRange создаёт интервал, проверяя что Start < End
func NewClockRange(start, end ClockTime) (ClockRange, error) {
	if !start.IsValid() || !end.IsValid() || !start.IsBefore(end) {
		return ClockRange{}, fmt.Errorf("%w: range %s-%s", ErrInvalidClockTime, start, end)
	}
	return ClockRange{Start: start, End: end}, nil
}

// Overlaps проверяет пересечение полуоткрытых интервалов.
// Касание концами (a.End == b.Start) пересечением не считается.
func (r ClockRange) Overlaps(other ClockRange) bool {
	return r.Start < other.End && r.End > other.Start
}

// Within returns true if r lies entirely inside outer
func (r ClockRange) Within(outer ClockRange) bool {
	return r.Start >= outer.Start && r.End <= outer.End
}

// DurationMinutes длительность интервала в минутах
func (r ClockRange) DurationMinutes() int {
	return int(r.End - r.Start)
}

// String "HH:MM-HH:MM"
func (r ClockRange) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// Format12h "10:00 AM - 11:00 AM"
func (r ClockRange) Format12h() string {
	return r.Start.Format12h() + " - " + r.End.Format12h()
}
