package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID    int64   `json:"serviceId"`
	StaffID      *int64  `json:"staffId,omitempty"`
	Date         string  `json:"date"`      // "2026-05-05"
	StartTime    string  `json:"startTime"` // "10:00"
	EndTime      string  `json:"endTime"`   // "11:00"
	Notes        *string `json:"notes,omitempty"`
	RedemptionID *int64  `json:"redemptionId,omitempty"`

	// только для walk-in
	CustomerID int64 `json:"customerId,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID                int64   `json:"id"`
	CustomerID        int64   `json:"customerId"`
	BusinessID        int64   `json:"businessId"`
	ServiceID         int64   `json:"serviceId"`
	StaffID           *int64  `json:"staffId,omitempty"`
	Date              string  `json:"date"`
	StartTime         string  `json:"startTime"`
	EndTime           string  `json:"endTime"`
	Status            string  `json:"status"`
	ServiceName       string  `json:"serviceName"`
	Notes             *string `json:"notes,omitempty"`
	AppliedRedemption *int64  `json:"appliedRedemption,omitempty"`
	BasePrice         float64 `json:"basePrice"`
	DiscountApplied   float64 `json:"discountApplied"`
	FinalPrice        float64 `json:"finalPrice"`
	QueueNumber       int     `json:"queueNumber"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(customerID int64) (*createBooking.Request, error) {
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

	return &createBooking.Request{
		CustomerID:   customerID,
		ServiceID:    r.ServiceID,
		StaffID:      r.StaffID,
		Date:         date,
		StartTime:    start,
		EndTime:      end,
		Notes:        r.Notes,
		RedemptionID: r.RedemptionID,
		ActorID:      customerID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                resp.ID,
		CustomerID:        resp.CustomerID,
		BusinessID:        resp.BusinessID,
		ServiceID:         resp.ServiceID,
		StaffID:           resp.StaffID,
		Date:              resp.Date.Format(domain.DateFormat),
		StartTime:         resp.StartTime.String(),
		EndTime:           resp.EndTime.String(),
		Status:            resp.Status,
		ServiceName:       resp.ServiceName,
		Notes:             resp.Notes,
		AppliedRedemption: resp.AppliedRedemption,
		BasePrice:         resp.BasePrice,
		DiscountApplied:   resp.DiscountApplied,
		FinalPrice:        resp.FinalPrice,
		QueueNumber:       resp.QueueNumber,
		CreatedAt:         resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         resp.UpdatedAt.Format(time.RFC3339),
	}
}
