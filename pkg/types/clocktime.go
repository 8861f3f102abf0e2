package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidClockTime возвращается при некорректной строке времени
var ErrInvalidClockTime = errors.New("invalid time string format")

// ClockTime время суток в минутах от полуночи.
// Допустимый диапазон [0, 1440], где 1440 означает 24:00 (конец дня).
type ClockTime int

const (
	Midnight ClockTime = 0
	EndOfDay ClockTime = 24 * 60
)

// ParseClockTime разбирает строку вида "HH:MM" (или "HH:MM:SS", как её отдаёт Postgres)
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}

	hour, err := parseDigits(parts[0], 1, 2)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	minute, err := parseDigits(parts[1], 2, 2)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	second := 0
	if len(parts) == 3 {
		second, err = parseDigits(parts[2], 2, 2)
		if err != nil || second > 59 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
		}
	}

	if hour > 24 || minute > 59 || (hour == 24 && (minute != 0 || second != 0)) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}

	return ClockTime(hour*60 + minute), nil
}

// MustParseClockTime как ParseClockTime, но паникует при ошибке. Для констант и тестов.
func MustParseClockTime(s string) ClockTime {
	c, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return c
}

// FromTime возвращает время суток для t (секунды отбрасываются)
func FromTime(t time.Time) ClockTime {
	return ClockTime(t.Hour()*60 + t.Minute())
}

func parseDigits(s string, minLen, maxLen int) (int, error) {
	if len(s) < minLen || len(s) > maxLen {
		return 0, ErrInvalidClockTime
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrInvalidClockTime
		}
	}
	return strconv.Atoi(s)
}

// Minutes возвращает количество минут от полуночи
func (c ClockTime) Minutes() int {
	return int(c)
}

// IsValid проверяет, что значение в диапазоне [00:00, 24:00]
func (c ClockTime) IsValid() bool {
	return c >= Midnight && c <= EndOfDay
}

// IsBefore returns true if c is strictly earlier than other
func (c ClockTime) IsBefore(other ClockTime) bool {
	return c < other
}

// IsAfter returns true if c is strictly later than other
func (c ClockTime) IsAfter(other ClockTime) bool {
	return c > other
}

// AddMinutes сдвигает время, не выходя за пределы суток
func (c ClockTime) AddMinutes(minutes int) (ClockTime, error) {
	result := c + ClockTime(minutes)
	if !result.IsValid() {
		return 0, fmt.Errorf("%w: %s %+d minutes is outside the day", ErrInvalidClockTime, c, minutes)
	}
	return result, nil
}

// On возвращает момент времени c в календарный день date (в локации date)
func (c ClockTime) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, int(c)/60, int(c)%60, 0, 0, date.Location())
}

// String форматирует как "HH:MM" (24 часа)
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Format12h форматирует как "10:30 AM" для показа пользователю
func (c ClockTime) Format12h() string {
	hour := (int(c) / 60) % 24
	minute := int(c) % 60

	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	hour12 := hour % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour12, minute, suffix)
}

// MarshalJSON сериализует как строку "HH:MM"
func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON разбирает строку "HH:MM"
func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidClockTime, err)
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value реализует driver.Valuer, в БД храним строку "HH:MM"
func (c ClockTime) Value() (driver.Value, error) {
	return c.String(), nil
}

// Scan реализует sql.Scanner
func (c *ClockTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseClockTime(v)
		if err != nil {
			return err
		}
		*c = parsed
	case []byte:
		parsed, err := ParseClockTime(string(v))
		if err != nil {
			return err
		}
		*c = parsed
	case int64:
		*c = ClockTime(v)
	case time.Time:
		*c = FromTime(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidClockTime, src)
	}
	return nil
}
