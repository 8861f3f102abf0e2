package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	ListActiveByCustomerAndDay(ctx context.Context, customerID int64, date time.Time, exclude *int64) ([]*domain.Appointment, error)
	CountByBusinessAndDay(ctx context.Context, businessID int64, date time.Time) (int, error)
}

// RedemptionRepository интерфейс репозитория наград
type RedemptionRepository interface {
	FindActiveOwned(ctx context.Context, id, customerID int64) (*domain.Redemption, error)
	MarkPending(ctx context.Context, id, appointmentID int64) error
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

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// OutcomeRecorder счётчик исходов бронирования
type OutcomeRecorder interface {
	ObserveBooking(operation, outcome string)
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
