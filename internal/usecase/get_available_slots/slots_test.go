package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func rng(start, end string) types.ClockRange {
	return types.ClockRange{Start: types.MustParseClockTime(start), End: types.MustParseClockTime(end)}
}

func TestGenerateCandidates(t *testing.T) {
	tests := []struct {
		name     string
		window   types.ClockRange
		duration int
		step     int
		want     []types.ClockRange
	}{
		{
			name:     "step equals duration",
			window:   rng("09:00", "11:00"),
			duration: 60,
			step:     60,
			want:     []types.ClockRange{rng("09:00", "10:00"), rng("10:00", "11:00")},
		},
		{
			name:     "step shorter than duration",
			window:   rng("09:00", "10:30"),
			duration: 60,
			step:     30,
			want:     []types.ClockRange{rng("09:00", "10:00"), rng("09:30", "10:30")},
		},
		{
			name:     "duration longer than window",
			window:   rng("09:00", "09:30"),
			duration: 60,
			step:     30,
			want:     []types.ClockRange{},
		},
		{
			name:     "until end of day",
			window:   rng("23:00", "24:00"),
			duration: 30,
			step:     30,
			want:     []types.ClockRange{rng("23:00", "23:30"), rng("23:30", "24:00")},
		},
		{
			name:     "zero step",
			window:   rng("09:00", "10:00"),
			duration: 30,
			step:     0,
			want:     []types.ClockRange{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, generateCandidates(tt.window, tt.duration, tt.step))
		})
	}
}

func TestDayWindow(t *testing.T) {
	business := &domain.Business{Hours: map[time.Weekday]domain.BusinessDay{
		time.Monday: {IsOpen: true, OpenTime: types.MustParseClockTime("08:00"), CloseTime: types.MustParseClockTime("18:00")},
		time.Sunday: {IsOpen: false},
	}}
	staff := &domain.Staff{Availability: map[time.Weekday]domain.StaffDay{
		time.Monday:  {IsAvailable: true, Start: ptr.Ptr(types.MustParseClockTime("10:00"))},
		time.Tuesday: {IsAvailable: false},
	}}

	w, ok := dayWindow(business, nil, time.Monday)
	assert.True(t, ok)
	assert.Equal(t, rng("08:00", "18:00"), w)

	w, ok = dayWindow(business, staff, time.Monday)
	assert.True(t, ok)
	assert.Equal(t, rng("10:00", "18:00"), w)

	_, ok = dayWindow(business, nil, time.Sunday)
	assert.False(t, ok)

	_, ok = dayWindow(business, nil, time.Wednesday)
	assert.False(t, ok, "no hours configured")
}

func TestOverlapsAny(t *testing.T) {
	appts := []*domain.Appointment{
		{TimeSlot: rng("10:00", "11:00"), Status: domain.StatusApproved},
		{TimeSlot: rng("12:00", "13:00"), Status: domain.StatusCancelled},
	}

	assert.True(t, overlapsAny(rng("10:30", "11:30"), appts))
	assert.False(t, overlapsAny(rng("11:00", "12:00"), appts), "touching")
	assert.False(t, overlapsAny(rng("12:00", "13:00"), appts), "cancelled ignored")
}
