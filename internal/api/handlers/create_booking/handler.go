package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

const (
	msgUnauthorized       = "user is not authenticated"
	msgInvalidRequestBody = "invalid request body"
	msgInvalidBusinessID  = "invalid business id"
	msgInvalidCustomerID  = "customerId is required for a walk-in"
	msgBusinessNotFound   = "business not found"
	msgAccessDenied       = "only the business owner can register walk-ins"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	h.execute(w, r, "POST /bookings", useCaseReq)
}

// HandleWalkIn POST /api/v1/businesses/{businessId}/walk-ins
// Владелец бизнеса записывает клиента, который пришёл без записи
func (h *Handler) HandleWalkIn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		h.logger.Warn("POST /businesses/{id}/walk-ins - %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses/{id}/walk-ins - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.CustomerID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidCustomerID)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(req.CustomerID)
	if err != nil {
		h.logger.Warn("POST /businesses/{id}/walk-ins - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}
	useCaseReq.WalkIn = true
	useCaseReq.ActorID = userID
	useCaseReq.BusinessID = businessID

	h.execute(w, r, "POST /businesses/{id}/walk-ins", useCaseReq)
}

func (h *Handler) execute(w http.ResponseWriter, r *http.Request, route string, req *createBooking.Request) {
	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		if handlers.RespondBookingRejection(w, err) {
			h.logger.Warn("%s - Booking rejected: customer_id=%d, service_id=%d: %v", route, req.CustomerID, req.ServiceID, err)
			return
		}

		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("%s - Invalid input: %v", route, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createBooking.ErrBusinessNotFound):
			h.logger.Warn("%s - Business not found: service_id=%d", route, req.ServiceID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, createBooking.ErrAccessDenied):
			h.logger.Warn("%s - Access denied: user_id=%d", route, req.ActorID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("%s - Failed to create booking: customer_id=%d, service_id=%d, error=%v",
				route, req.CustomerID, req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Booking created successfully: booking_id=%d, customer_id=%d, business_id=%d",
		route, result.ID, result.CustomerID, result.BusinessID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
