package get_booking_policy

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/policy"
	"github.com/m04kA/SMC-AppointmentService/internal/service/policy/models"
)

const (
	msgInvalidBusinessID = "invalid business id"
	msgInvalidServiceID  = "invalid service id"
	msgMissingUserID     = "user is not authenticated"
	msgBusinessNotFound  = "business not found"
	msgServiceNotFound   = "service not found in this business"
	msgForbidden         = "only the business owner can read the booking policy"
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

// Handle GET /api/v1/businesses/{businessId}/booking-policy
// Query params: serviceId (опционально, политика конкретной услуги)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, userID, ok := h.parse(w, r, "GET /businesses/{id}/booking-policy")
	if !ok {
		return
	}

	serviceID, err := handlers.QueryInt64(r, "serviceId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	result, err := h.service.Get(r.Context(), &models.GetPolicyRequest{
		UserID:     userID,
		BusinessID: businessID,
		ServiceID:  serviceID,
	})
	if err != nil {
		h.respondError(w, "GET /businesses/{id}/booking-policy", businessID, userID, err)
		return
	}

	h.logger.Info("GET /businesses/{id}/booking-policy - Policy retrieved: business_id=%d, service_id=%v", businessID, serviceID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleList GET /api/v1/businesses/{businessId}/booking-policies
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	businessID, userID, ok := h.parse(w, r, "GET /businesses/{id}/booking-policies")
	if !ok {
		return
	}

	result, err := h.service.List(r.Context(), businessID, userID)
	if err != nil {
		h.respondError(w, "GET /businesses/{id}/booking-policies", businessID, userID, err)
		return
	}

	h.logger.Info("GET /businesses/{id}/booking-policies - business_id=%d, count=%d", businessID, len(result))
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) parse(w http.ResponseWriter, r *http.Request, route string) (businessID, userID int64, ok bool) {
	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		h.logger.Warn("%s - Invalid business ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return 0, 0, false
	}

	userID, ok = middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return 0, 0, false
	}
	return businessID, userID, true
}

func (h *Handler) respondError(w http.ResponseWriter, route string, businessID, userID int64, err error) {
	switch {
	case errors.Is(err, policy.ErrBusinessNotFound):
		handlers.RespondNotFound(w, msgBusinessNotFound)

	case errors.Is(err, policy.ErrServiceNotFound):
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, policy.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: business_id=%d, user_id=%d", route, businessID, userID)
		handlers.RespondForbidden(w, msgForbidden)

	default:
		h.logger.Error("%s - Failed: business_id=%d, error=%v", route, businessID, err)
		handlers.RespondInternalError(w)
	}
}
