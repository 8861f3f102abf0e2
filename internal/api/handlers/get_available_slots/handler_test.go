package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/internal/validator"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type stubUseCase struct {
	got *getAvailableSlots.Request
	err error
}

func (s *stubUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &getAvailableSlots.Response{
		Date:            req.Date,
		BusinessID:      req.BusinessID,
		ServiceID:       req.ServiceID,
		DurationMinutes: req.DurationMinutes,
		StepMinutes:     30,
		Slots: []getAvailableSlots.Slot{
			{StartTime: types.MustParseClockTime("09:00"), EndTime: types.MustParseClockTime("10:00")},
			{StartTime: types.MustParseClockTime("12:30"), EndTime: types.MustParseClockTime("13:30")},
		},
	}, nil
}

func serve(uc *stubUseCase, target, userID string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Handle("/api/v1/businesses/{businessId}/services/{serviceId}/available-slots",
		middleware.OptionalAuth(http.HandlerFunc(NewHandler(uc, logger.NewNop()).Handle)))

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Anonymous(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(uc, "/api/v1/businesses/1/services/10/available-slots?date=2026-05-05", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2026-05-05", resp.Date)
	assert.Equal(t, 60, resp.DurationMinutes)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, "09:00", resp.Slots[0].StartTime)
	assert.Equal(t, "12:30 PM - 1:30 PM", resp.Slots[1].Label)

	assert.Equal(t, int64(0), uc.got.CustomerID)
	assert.Equal(t, time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC), uc.got.Date)
	assert.Nil(t, uc.got.StaffID)
}

func TestHandle_Customer(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(uc, "/api/v1/businesses/1/services/10/available-slots?date=2026-05-05&durationMinutes=45&staffId=3", "42")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), uc.got.CustomerID)
	assert.Equal(t, 45, uc.got.DurationMinutes)
	require.NotNil(t, uc.got.StaffID)
	assert.Equal(t, int64(3), *uc.got.StaffID)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		userID string
		err    error
		want   int
	}{
		{"missing date", "/api/v1/businesses/1/services/10/available-slots", "", nil, http.StatusBadRequest},
		{"bad duration", "/api/v1/businesses/1/services/10/available-slots?date=2026-05-05&durationMinutes=long", "", nil, http.StatusBadRequest},
		{"bad staff", "/api/v1/businesses/1/services/10/available-slots?date=2026-05-05&staffId=-1", "", nil, http.StatusBadRequest},
		{"bad user header", "/api/v1/businesses/1/services/10/available-slots?date=2026-05-05", "abc", nil, http.StatusUnauthorized},
		{"past date", "/api/v1/businesses/1/services/10/available-slots?date=2026-05-05", "", &validator.Error{Kind: validator.ErrPastDate, Message: "x"}, http.StatusUnprocessableEntity},
		{"service missing", "/api/v1/businesses/1/services/10/available-slots?date=2026-05-05", "", getAvailableSlots.ErrServiceNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubUseCase{err: tt.err}, tt.target, tt.userID)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
