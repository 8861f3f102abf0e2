package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// ListActiveByCustomerAndDay активные записи клиента на день
	ListActiveByCustomerAndDay(ctx context.Context, customerID int64, date time.Time, exclude *int64) ([]*domain.Appointment, error)
	// ListActiveByStaffAndDay активные записи к сотруднику на день
	ListActiveByStaffAndDay(ctx context.Context, staffID int64, date time.Time) ([]*domain.Appointment, error)
}

// CatalogClient интерфейс клиента каталога
type CatalogClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*domain.Business, error)
	GetService(ctx context.Context, serviceID int64) (*domain.Service, error)
	GetStaff(ctx context.Context, staffID int64) (*domain.Staff, error)
}

// PolicyProvider возвращает лимиты бизнеса с учётом переопределений
type PolicyProvider interface {
	Effective(ctx context.Context, businessID int64, serviceID *int64) (domain.EffectiveLimits, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
