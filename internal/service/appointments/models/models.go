package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrInvalidPeriod возвращается, когда начало периода позже конца
	ErrInvalidPeriod = errors.New("invalid period")
)

// Request модели

// CancelRequest запрос на отмену записи
type CancelRequest struct {
	UserID int64
	Reason *string
}

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	UserID int64
	Status string
}

// GetCustomerAppointmentsRequest запрос на историю записей клиента
type GetCustomerAppointmentsRequest struct {
	UserID     int64   // кто запрашивает
	CustomerID int64   // чьи записи
	Status     *string // фильтр по статусу (опционально)
}

// GetBusinessAppointmentsRequest запрос на записи бизнеса
type GetBusinessAppointmentsRequest struct {
	UserID          int64
	BusinessID      int64
	Date            *time.Time // один день, имеет приоритет над периодом
	StartDate       *time.Time // начало периода (опционально)
	EndDate         *time.Time // конец периода (опционально)
	Status          *string
	IncludeInactive bool
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBusinessAppointmentsRequest) ToDomainFilter() (domain.AppointmentFilter, error) {
	businessID := r.BusinessID
	filter := domain.AppointmentFilter{
		BusinessID:      &businessID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Date != nil {
		filter.StartDate = r.Date
		filter.EndDate = r.Date
	}

	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return filter, ErrInvalidPeriod
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
		// явный фильтр по терминальному статусу подразумевает неактивные записи
		if status.IsTerminal() {
			filter.IncludeInactive = true
		}
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID                 int64     `json:"id"`
	CustomerID         int64     `json:"customerId"`
	BusinessID         int64     `json:"businessId"`
	ServiceID          int64     `json:"serviceId"`
	StaffID            *int64    `json:"staffId,omitempty"`
	Date               string    `json:"date"`      // "2026-05-05"
	StartTime          string    `json:"startTime"` // "10:00"
	EndTime            string    `json:"endTime"`   // "11:00"
	Status             string    `json:"status"`
	ServiceName        string    `json:"serviceName"`
	Notes              *string   `json:"notes,omitempty"`
	AppliedRedemption  *int64    `json:"appliedRedemption,omitempty"`
	DiscountApplied    float64   `json:"discountApplied"`
	FinalPrice         float64   `json:"finalPrice"`
	QueueNumber        int       `json:"queueNumber"`
	CancellationReason *string   `json:"cancellationReason,omitempty"`
	CancelledAt        *string   `json:"cancelledAt,omitempty"` // RFC 3339
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		CustomerID:         a.CustomerID,
		BusinessID:         a.BusinessID,
		ServiceID:          a.ServiceID,
		StaffID:            a.StaffID,
		Date:               a.Date.Format(domain.DateFormat),
		StartTime:          a.TimeSlot.Start.String(),
		EndTime:            a.TimeSlot.End.String(),
		Status:             string(a.Status),
		ServiceName:        a.ServiceName,
		Notes:              a.Notes,
		AppliedRedemption:  a.AppliedRedemption,
		DiscountApplied:    a.DiscountApplied,
		FinalPrice:         a.FinalPrice,
		QueueNumber:        a.QueueNumber,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		cancelled := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelled
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, appt := range appointments {
		if item := FromDomainAppointment(appt); item != nil {
			resp.Appointments = append(resp.Appointments, *item)
		}
	}

	return resp
}

// ToDomainStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
