package policy

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// PolicyRepository интерфейс репозитория переопределений политики
type PolicyRepository interface {
	Create(ctx context.Context, p *domain.BookingPolicy) (*domain.BookingPolicy, error)
	Get(ctx context.Context, businessID int64, serviceID *int64) (*domain.BookingPolicy, error)
	GetHierarchy(ctx context.Context, businessID int64, serviceID *int64) ([]*domain.BookingPolicy, error)
	ListByBusiness(ctx context.Context, businessID int64) ([]*domain.BookingPolicy, error)
	Update(ctx context.Context, p *domain.BookingPolicy) (*domain.BookingPolicy, error)
	Delete(ctx context.Context, id int64) error
}

// CatalogClient интерфейс клиента каталога
type CatalogClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*domain.Business, error)
	GetService(ctx context.Context, serviceID int64) (*domain.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
