package update_booking_policy

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/policy"
	"github.com/m04kA/SMC-AppointmentService/internal/service/policy/models"
)

const (
	msgInvalidBusinessID  = "invalid business id"
	msgInvalidServiceID   = "invalid service id"
	msgInvalidRequestBody = "invalid request body"
	msgMissingUserID      = "user is not authenticated"
	msgNotFound           = "booking policy override not found"
	msgBusinessNotFound   = "business not found"
	msgServiceNotFound    = "service not found in this business"
	msgForbidden          = "only the business owner can change the booking policy"
)

type Handler struct {
	service PolicyService
	logger  Logger
}

func NewHandler(service PolicyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/businesses/{businessId}/booking-policy
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/booking-policy - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateBookingPolicyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/booking-policy - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Сервис сам проверит права владельца и границы значений
	result, err := h.service.Update(r.Context(), req.ToServiceRequest(businessID, userID))
	if err != nil {
		h.respondError(w, "PUT /businesses/{id}/booking-policy", businessID, userID, err)
		return
	}

	h.logger.Info("PUT /businesses/{id}/booking-policy - Policy updated: business_id=%d, service_id=%v",
		businessID, req.ServiceID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleDelete DELETE /api/v1/businesses/{businessId}/booking-policy?serviceId=
// После удаления действуют значения уровнем выше
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	serviceID, err := handlers.QueryInt64(r, "serviceId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	err = h.service.Delete(r.Context(), &models.GetPolicyRequest{UserID: userID, BusinessID: businessID, ServiceID: serviceID})
	if err != nil {
		h.respondError(w, "DELETE /businesses/{id}/booking-policy", businessID, userID, err)
		return
	}

	h.logger.Info("DELETE /businesses/{id}/booking-policy - Override removed: business_id=%d, service_id=%v", businessID, serviceID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, businessID, userID int64, err error) {
	switch {
	case errors.Is(err, policy.ErrPolicyNotFound):
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, policy.ErrBusinessNotFound):
		handlers.RespondNotFound(w, msgBusinessNotFound)

	case errors.Is(err, policy.ErrServiceNotFound):
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, policy.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: business_id=%d, user_id=%d", route, businessID, userID)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, policy.ErrInvalidInput):
		h.logger.Warn("%s - Invalid data: business_id=%d, error=%v", route, businessID, err)
		handlers.RespondBadRequest(w, err.Error())

	default:
		h.logger.Error("%s - Failed: business_id=%d, error=%v", route, businessID, err)
		handlers.RespondInternalError(w)
	}
}
