package update_booking_policy

import (
	"github.com/m04kA/SMC-AppointmentService/internal/service/policy/models"
)

// UpdateBookingPolicyRequest HTTP request model.
// Передаются только изменяемые поля, serviceId выбирает уровень услуги.
type UpdateBookingPolicyRequest struct {
	ServiceID        *int64 `json:"serviceId,omitempty"`
	MaxAdvanceDays   *int   `json:"maxAdvanceDays,omitempty"`
	MaxDailyBookings *int   `json:"maxDailyBookings,omitempty"`
	SlotStepMinutes  *int   `json:"slotStepMinutes,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateBookingPolicyRequest) ToServiceRequest(businessID, userID int64) *models.UpdatePolicyRequest {
	return &models.UpdatePolicyRequest{
		UserID:           userID,
		BusinessID:       businessID,
		ServiceID:        r.ServiceID,
		MaxAdvanceDays:   r.MaxAdvanceDays,
		MaxDailyBookings: r.MaxDailyBookings,
		SlotStepMinutes:  r.SlotStepMinutes,
	}
}
