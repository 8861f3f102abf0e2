package get_available_slots

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// defaultDurationMinutes длительность, если durationMinutes не передан
const defaultDurationMinutes = 60

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	BusinessID      int64           `json:"businessId"`
	ServiceID       int64           `json:"serviceId"`
	StaffID         *int64          `json:"staffId,omitempty"`
	DurationMinutes int             `json:"durationMinutes"`
	StepMinutes     int             `json:"stepMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot свободный интервал
type AvailableSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Label     string `json:"label"` // "9:00 AM - 10:00 AM"
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime: slot.StartTime.String(),
			EndTime:   slot.EndTime.String(),
			Label:     slot.StartTime.Format12h() + " - " + slot.EndTime.Format12h(),
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		BusinessID:      resp.BusinessID,
		ServiceID:       resp.ServiceID,
		StaffID:         resp.StaffID,
		DurationMinutes: resp.DurationMinutes,
		StepMinutes:     resp.StepMinutes,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из пути и query параметров.
// customerID 0 для анонимного запроса.
func ToUseCaseRequest(r *http.Request, customerID int64) (*getAvailableSlots.Request, error) {
	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		return nil, err
	}
	serviceID, err := handlers.PathInt64(r, "serviceId")
	if err != nil {
		return nil, err
	}

	query := r.URL.Query()
	if query.Get("date") == "" {
		return nil, fmt.Errorf("date is required")
	}
	date, err := handlers.ParseDate(query.Get("date"))
	if err != nil {
		return nil, fmt.Errorf("invalid date, expected YYYY-MM-DD")
	}

	duration := defaultDurationMinutes
	if raw := query.Get("durationMinutes"); raw != "" {
		duration, err = strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid durationMinutes %q", raw)
		}
	}

	staffID, err := handlers.QueryInt64(r, "staffId")
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		CustomerID:      customerID,
		BusinessID:      businessID,
		ServiceID:       serviceID,
		StaffID:         staffID,
		Date:            date,
		DurationMinutes: duration,
	}, nil
}
