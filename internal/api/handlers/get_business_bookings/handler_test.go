package get_business_bookings

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
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type stubService struct {
	got *models.GetBusinessAppointmentsRequest
	err error
}

func (s *stubService) GetBusinessAppointments(_ context.Context, req *models.GetBusinessAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.AppointmentListResponse{Appointments: []models.AppointmentResponse{{ID: 1, Status: "pending"}}}, nil
}

func serve(svc *stubService, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/api/v1/businesses/{businessId}/bookings", NewHandler(svc, logger.NewNop()).Handle)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set(middleware.UserIDHeader, "500")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_QueryParsing(t *testing.T) {
	svc := &stubService{}
	rec := serve(svc, "/api/v1/businesses/1/bookings?from=2026-05-04&to=2026-05-10&status=completed&includeInactive=true")

	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	require.NotNil(t, svc.got)
	assert.Equal(t, int64(1), svc.got.BusinessID)
	assert.Equal(t, int64(500), svc.got.UserID)
	assert.Nil(t, svc.got.Date)
	assert.Equal(t, time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), *svc.got.StartDate)
	assert.Equal(t, time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC), *svc.got.EndDate)
	assert.Equal(t, "completed", *svc.got.Status)
	assert.True(t, svc.got.IncludeInactive)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		want   int
	}{
		{"bad business id", "/api/v1/businesses/0/bookings", nil, http.StatusBadRequest},
		{"bad date", "/api/v1/businesses/1/bookings?date=tomorrow", nil, http.StatusBadRequest},
		{"bad flag", "/api/v1/businesses/1/bookings?includeInactive=maybe", nil, http.StatusBadRequest},
		{"not owner", "/api/v1/businesses/1/bookings", appointments.ErrAccessDenied, http.StatusForbidden},
		{"unknown business", "/api/v1/businesses/1/bookings", appointments.ErrBusinessNotFound, http.StatusNotFound},
		{"bad period", "/api/v1/businesses/1/bookings", appointments.ErrInvalidInput, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubService{err: tt.err}, tt.target)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
