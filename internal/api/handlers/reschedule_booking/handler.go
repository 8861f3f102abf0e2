package reschedule_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	rescheduleBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_booking"
)

const (
	msgUnauthorized       = "user is not authenticated"
	msgInvalidBookingID   = "invalid booking id"
	msgInvalidRequestBody = "invalid request body"
	msgBookingNotFound    = "booking not found"
	msgBusinessNotFound   = "business not found"
	msgAccessDenied       = "only the customer can reschedule this booking"
	msgInvalidStatus      = "this booking can no longer be rescheduled"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{id}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/%d/reschedule - Invalid request body: %v", id, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(id, userID)
	if err != nil {
		h.logger.Warn("PATCH /bookings/%d/reschedule - Failed to parse request: %v", id, err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.RespondBookingRejection(w, err) {
			h.logger.Warn("PATCH /bookings/%d/reschedule - Rejected: %v", id, err)
			return
		}

		switch {
		case errors.Is(err, rescheduleBooking.ErrAppointmentNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)
		case errors.Is(err, rescheduleBooking.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)
		case errors.Is(err, rescheduleBooking.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/%d/reschedule - Access denied: user_id=%d", id, userID)
			handlers.RespondForbidden(w, msgAccessDenied)
		case errors.Is(err, rescheduleBooking.ErrInvalidStatus):
			handlers.RespondConflict(w, msgInvalidStatus)
		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("PATCH /bookings/%d/reschedule - Failed to reschedule: user_id=%d, error=%v", id, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/%d/reschedule - Rescheduled to %s %s-%s",
		id, req.Date, req.StartTime, req.EndTime)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
