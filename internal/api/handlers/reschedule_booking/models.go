package reschedule_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	rescheduleBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_booking"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	StaffID   *int64 `json:"staffId,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID          int64   `json:"id"`
	CustomerID  int64   `json:"customerId"`
	BusinessID  int64   `json:"businessId"`
	ServiceID   int64   `json:"serviceId"`
	StaffID     *int64  `json:"staffId,omitempty"`
	Date        string  `json:"date"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	Status      string  `json:"status"`
	ServiceName string  `json:"serviceName"`
	Notes       *string `json:"notes,omitempty"`
	FinalPrice  float64 `json:"finalPrice"`
	QueueNumber int     `json:"queueNumber"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func (r *RescheduleRequest) ToUseCaseRequest(appointmentID, customerID int64) (*rescheduleBooking.Request, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	start, err := handlers.ParseClock(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}
	end, err := handlers.ParseClock(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("endTime: %w", err)
	}

	return &rescheduleBooking.Request{
		AppointmentID: appointmentID,
		CustomerID:    customerID,
		Date:          date,
		StartTime:     start,
		EndTime:       end,
		StaffID:       r.StaffID,
	}, nil
}

func FromUseCaseResponse(resp *rescheduleBooking.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:          resp.ID,
		CustomerID:  resp.CustomerID,
		BusinessID:  resp.BusinessID,
		ServiceID:   resp.ServiceID,
		StaffID:     resp.StaffID,
		Date:        resp.Date.Format(domain.DateFormat),
		StartTime:   resp.StartTime.String(),
		EndTime:     resp.EndTime.String(),
		Status:      resp.Status,
		ServiceName: resp.ServiceName,
		Notes:       resp.Notes,
		FinalPrice:  resp.FinalPrice,
		QueueNumber: resp.QueueNumber,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
