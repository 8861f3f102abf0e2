package get_business_bookings

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// date, from, to (YYYY-MM-DD), status, includeInactive
func ToServiceRequest(r *http.Request, businessID, userID int64) (*models.GetBusinessAppointmentsRequest, error) {
	query := r.URL.Query()
	req := &models.GetBusinessAppointmentsRequest{
		UserID:     userID,
		BusinessID: businessID,
		Status:     handlers.QueryString(r, "status"),
	}

	var err error
	if req.Date, err = handlers.ParseOptionalDate(query.Get("date")); err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}
	if req.StartDate, err = handlers.ParseOptionalDate(query.Get("from")); err != nil {
		return nil, fmt.Errorf("invalid from: %w", err)
	}
	if req.EndDate, err = handlers.ParseOptionalDate(query.Get("to")); err != nil {
		return nil, fmt.Errorf("invalid to: %w", err)
	}

	if raw := query.Get("includeInactive"); raw != "" {
		includeInactive, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
