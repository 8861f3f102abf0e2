package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgBusinessNotFound = "business not found"
	msgServiceNotFound  = "service not found"
	msgStaffNotFound    = "staff member not found"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/services/{serviceId}/available-slots
// Query params: date (required, YYYY-MM-DD), durationMinutes, staffId (опционально).
// Авторизация необязательна: для клиента убираются интервалы, пересекающиеся с его записями.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	useCaseReq, err := ToUseCaseRequest(r, userID)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/services/{id}/available-slots - Invalid request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.RespondBookingRejection(w, err) {
			h.logger.Warn("GET /businesses/{id}/services/{id}/available-slots - Rejected: business_id=%d, service_id=%d: %v",
				useCaseReq.BusinessID, useCaseReq.ServiceID, err)
			return
		}

		switch {
		case errors.Is(err, getAvailableSlots.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrStaffNotFound):
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /businesses/{id}/services/{id}/available-slots - Failed to get slots: business_id=%d, service_id=%d, error=%v",
				useCaseReq.BusinessID, useCaseReq.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/services/{id}/available-slots - business_id=%d, service_id=%d, date=%s, slots_count=%d",
		useCaseReq.BusinessID, useCaseReq.ServiceID, r.URL.Query().Get("date"), len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
