package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-AppointmentService/internal/validator"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type stubUseCase struct {
	got *createBooking.Request
	err error
}

func (s *stubUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &createBooking.Response{
		ID:          1,
		CustomerID:  req.CustomerID,
		BusinessID:  1,
		ServiceID:   req.ServiceID,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      "pending",
		ServiceName: "Haircut",
		BasePrice:   50,
		FinalPrice:  50,
		QueueNumber: 1,
		CreatedAt:   time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC),
	}, nil
}

func newRouter(uc *stubUseCase) *mux.Router {
	h := NewHandler(uc, logger.NewNop())
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/api/v1/bookings", h.Handle).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/businesses/{businessId}/walk-ins", h.HandleWalkIn).Methods(http.MethodPost)
	return r
}

func do(r http.Handler, path, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

const validBody = `{"serviceId":10,"date":"2026-05-05","startTime":"10:00","endTime":"11:00"}`

func TestHandle_Created(t *testing.T) {
	uc := &stubUseCase{}
	rec := do(newRouter(uc), "/api/v1/bookings", "42", validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.CustomerID)
	assert.Equal(t, "2026-05-05", resp.Date)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, "11:00", resp.EndTime)
	assert.Equal(t, "2026-05-04T09:00:00Z", resp.CreatedAt)

	require.NotNil(t, uc.got)
	assert.Equal(t, types.MustParseClockTime("10:00"), uc.got.StartTime)
	assert.False(t, uc.got.WalkIn)
}

func TestHandle_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		body   string
		want   int
	}{
		{"no user", "", validBody, http.StatusUnauthorized},
		{"broken json", "42", `{"serviceId":`, http.StatusBadRequest},
		{"unknown field", "42", `{"serviceId":10,"carId":1}`, http.StatusBadRequest},
		{"bad date", "42", `{"serviceId":10,"date":"05.05.2026","startTime":"10:00","endTime":"11:00"}`, http.StatusBadRequest},
		{"bad time", "42", `{"serviceId":10,"date":"2026-05-05","startTime":"25:00","endTime":"11:00"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{}
			rec := do(newRouter(uc), "/api/v1/bookings", tt.userID, tt.body)
			assert.Equal(t, tt.want, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		want     int
		wantCode string
	}{
		{"overlap", &validator.Error{Kind: validator.ErrTimeOverlap, Message: "overlaps"}, http.StatusConflict, "time_overlap"},
		{"duplicate", validator.NewDuplicateService("Haircut"), http.StatusConflict, "duplicate_service"},
		{"past date", &validator.Error{Kind: validator.ErrPastDate, Message: "past"}, http.StatusUnprocessableEntity, "past_date"},
		{"service unavailable", validator.NewServiceUnavailable(), http.StatusUnprocessableEntity, "service_unavailable"},
		{"invalid input", createBooking.ErrInvalidInput, http.StatusBadRequest, ""},
		{"business not found", createBooking.ErrBusinessNotFound, http.StatusNotFound, ""},
		{"access denied", createBooking.ErrAccessDenied, http.StatusForbidden, ""},
		{"internal", errors.New("boom"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(newRouter(&stubUseCase{err: tt.err}), "/api/v1/bookings", "42", validBody)
			assert.Equal(t, tt.want, rec.Code)

			var resp handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestHandleWalkIn(t *testing.T) {
	uc := &stubUseCase{}
	body := `{"customerId":7,"serviceId":10,"date":"2026-05-05","startTime":"10:00","endTime":"11:00"}`
	rec := do(newRouter(uc), "/api/v1/businesses/1/walk-ins", "500", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.True(t, uc.got.WalkIn)
	assert.Equal(t, int64(7), uc.got.CustomerID)
	assert.Equal(t, int64(500), uc.got.ActorID)
	assert.Equal(t, int64(1), uc.got.BusinessID)

	rec = do(newRouter(&stubUseCase{}), "/api/v1/businesses/1/walk-ins", "500", validBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "customerId required")

	rec = do(newRouter(&stubUseCase{}), "/api/v1/businesses/abc/walk-ins", "500", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
