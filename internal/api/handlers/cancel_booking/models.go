package cancel_booking

import (
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// CancelBookingRequest HTTP request model, тело необязательно
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(userID int64) *models.CancelRequest {
	var reason *string
	if r.Reason != nil {
		if trimmed := strings.TrimSpace(*r.Reason); trimmed != "" {
			reason = &trimmed
		}
	}

	return &models.CancelRequest{
		UserID: userID,
		Reason: reason,
	}
}
