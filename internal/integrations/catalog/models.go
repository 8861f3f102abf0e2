package catalog

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Business модель бизнеса из каталога
type Business struct {
	ID                int64                  `json:"id"`
	OwnerID           int64                  `json:"owner_id"`
	Name              string                 `json:"name"`
	IsActive          bool                   `json:"is_active"`
	IsApproved        bool                   `json:"is_approved"`
	AcceptingBookings bool                   `json:"accepting_bookings"`
	TemporaryClosure  *TemporaryClosure      `json:"temporary_closure,omitempty"`
	BusinessHours     map[string]BusinessDay `json:"business_hours"` // ключ: "monday", ...
}

// TemporaryClosure временное закрытие бизнеса
type TemporaryClosure struct {
	IsClosed bool       `json:"is_closed"`
	Reason   string     `json:"reason"`
	Until    *time.Time `json:"until,omitempty"`
}

// BusinessDay часы работы в один день недели ("HH:MM")
type BusinessDay struct {
	IsOpen    bool   `json:"is_open"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

// Service модель услуги из каталога
type Service struct {
	ID                int64         `json:"id"`
	BusinessID        int64         `json:"business_id"`
	Name              string        `json:"name"`
	IsActive          bool          `json:"is_active"`
	Price             float64       `json:"price"`
	PointsEarned      int           `json:"points_earned"`
	MinAdvanceBooking AdvanceNotice `json:"min_advance_booking"`
}

// AdvanceNotice минимальное время до записи
type AdvanceNotice struct {
	Value int    `json:"value"`
	Unit  string `json:"unit"` // minutes, hours, days
}

// Staff модель сотрудника из каталога
type Staff struct {
	ID           int64               `json:"id"`
	BusinessID   int64               `json:"business_id"`
	Name         string              `json:"name"`
	IsActive     bool                `json:"is_active"`
	Availability map[string]StaffDay `json:"availability"`
}

// StaffDay рабочее время сотрудника в один день недели
type StaffDay struct {
	IsAvailable bool    `json:"is_available"`
	Start       *string `json:"start,omitempty"`
	End         *string `json:"end,omitempty"`
}

// ErrorResponse модель ошибки от каталога
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ToDomain конвертирует бизнес в доменную модель
func (b *Business) ToDomain() (*domain.Business, error) {
	result := &domain.Business{
		ID:                b.ID,
		OwnerID:           b.OwnerID,
		Name:              b.Name,
		IsActive:          b.IsActive,
		IsApproved:        b.IsApproved,
		AcceptingBookings: b.AcceptingBookings,
		Hours:             make(map[time.Weekday]domain.BusinessDay, len(b.BusinessHours)),
	}

	if c := b.TemporaryClosure; c != nil {
		result.Closure = domain.TemporaryClosure{IsClosed: c.IsClosed, Reason: c.Reason, Until: c.Until}
	}

	for name, day := range b.BusinessHours {
		weekday, ok := domain.ParseWeekday(name)
		if !ok {
			return nil, fmt.Errorf("%w: business %d: unknown weekday %q", ErrInvalidResponse, b.ID, name)
		}

		hours := domain.BusinessDay{IsOpen: day.IsOpen}
		if day.IsOpen {
			open, err := types.ParseClockTime(day.OpenTime)
			if err != nil {
				return nil, fmt.Errorf("%w: business %d %s open_time: %v", ErrInvalidResponse, b.ID, name, err)
			}
			closeAt, err := types.ParseClockTime(day.CloseTime)
			if err != nil {
				return nil, fmt.Errorf("%w: business %d %s close_time: %v", ErrInvalidResponse, b.ID, name, err)
			}
			hours.OpenTime, hours.CloseTime = open, closeAt
		}
		result.Hours[weekday] = hours
	}

	return result, nil
}

// ToDomain конвертирует услугу в доменную модель
func (s *Service) ToDomain() *domain.Service {
	return &domain.Service{
		ID:           s.ID,
		BusinessID:   s.BusinessID,
		Name:         s.Name,
		IsActive:     s.IsActive,
		Price:        s.Price,
		PointsEarned: s.PointsEarned,
		MinAdvanceBooking: domain.AdvanceNotice{
			Value: s.MinAdvanceBooking.Value,
			Unit:  domain.NoticeUnit(s.MinAdvanceBooking.Unit),
		},
	}
}

// ToDomain конвертирует сотрудника в доменную модель
func (s *Staff) ToDomain() (*domain.Staff, error) {
	result := &domain.Staff{
		ID:           s.ID,
		BusinessID:   s.BusinessID,
		Name:         s.Name,
		IsActive:     s.IsActive,
		Availability: make(map[time.Weekday]domain.StaffDay, len(s.Availability)),
	}

	for name, day := range s.Availability {
		weekday, ok := domain.ParseWeekday(name)
		if !ok {
			return nil, fmt.Errorf("%w: staff %d: unknown weekday %q", ErrInvalidResponse, s.ID, name)
		}

		entry := domain.StaffDay{IsAvailable: day.IsAvailable}
		var err error
		if entry.Start, err = parseOptionalClock(day.Start); err != nil {
			return nil, fmt.Errorf("%w: staff %d %s start: %v", ErrInvalidResponse, s.ID, name, err)
		}
		if entry.End, err = parseOptionalClock(day.End); err != nil {
			return nil, fmt.Errorf("%w: staff %d %s end: %v", ErrInvalidResponse, s.ID, name, err)
		}
		result.Availability[weekday] = entry
	}

	return result, nil
}

func parseOptionalClock(s *string) (*types.ClockTime, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	c, err := types.ParseClockTime(*s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
