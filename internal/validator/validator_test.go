package validator

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Monday 2026-05-04 09:00 UTC
var testNow = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return time.Date(2026, 5, 4+offset, 0, 0, 0, 0, time.UTC)
}

func slot(start, end string) types.ClockRange {
	return types.ClockRange{Start: types.MustParseClockTime(start), End: types.MustParseClockTime(end)}
}

func testBusiness() *domain.Business {
	hours := make(map[time.Weekday]domain.BusinessDay, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		hours[d] = domain.BusinessDay{
			IsOpen:    true,
			OpenTime:  types.MustParseClockTime("08:00"),
			CloseTime: types.MustParseClockTime("20:00"),
		}
	}
	return &domain.Business{
		ID:                1,
		OwnerID:           500,
		Name:              "Glow Studio",
		IsActive:          true,
		IsApproved:        true,
		AcceptingBookings: true,
		Hours:             hours,
	}
}

func testService() *domain.Service {
	return &domain.Service{ID: 10, BusinessID: 1, Name: "Haircut", IsActive: true, Price: 50}
}

func testStaff() *domain.Staff {
	start := types.MustParseClockTime("09:00")
	end := types.MustParseClockTime("17:00")
	return &domain.Staff{
		ID:         3,
		BusinessID: 1,
		Name:       "Anna",
		IsActive:   true,
		Availability: map[time.Weekday]domain.StaffDay{
			time.Monday: {IsAvailable: true, Start: &start, End: &end},
			time.Sunday: {IsAvailable: false},
		},
	}
}

func testRequest(date time.Time, r types.ClockRange) *Request {
	return &Request{
		CustomerID: 42,
		Date:       date,
		Slot:       r,
		Service:    testService(),
		Business:   testBusiness(),
	}
}

func appointment(id, serviceID int64, name string, r types.ClockRange, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:          id,
		CustomerID:  42,
		ServiceID:   serviceID,
		BusinessID:  1,
		Date:        day(0),
		TimeSlot:    r,
		Status:      status,
		ServiceName: name,
	}
}

func assertKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, kind), "expected %v, got %v", kind, err)
	vErr, ok := AsError(err)
	require.True(t, ok)
	assert.NotEmpty(t, vErr.Message)
	assert.NotEmpty(t, vErr.Code())
}

func TestCheckTemporalWindow(t *testing.T) {
	v := New(DefaultPolicy())

	tests := []struct {
		name    string
		date    time.Time
		wantErr error
	}{
		{"today", day(0), nil},
		{"yesterday", day(-1), ErrPastDate},
		{"30 days ahead", day(30), nil},
		{"31 days ahead", day(31), ErrAdvanceWindowExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.CheckTemporalWindow(tt.date, testNow)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assertKind(t, err, tt.wantErr)
		})
	}
}

func TestCheckTemporalWindow_PastMessage(t *testing.T) {
	err := New(DefaultPolicy()).CheckTemporalWindow(day(-1), testNow)
	require.Error(t, err)
	assert.Equal(t, "Cannot book appointments in the past", err.Error())
}

func TestCheckTemporalWindow_Unlimited(t *testing.T) {
	policy := DefaultPolicy()
	policy.MaxAdvanceDays = 0

	assert.NoError(t, New(policy).CheckTemporalWindow(day(400), testNow))
}

func TestCheckEligibility(t *testing.T) {
	v := New(DefaultPolicy())

	t.Run("inactive service", func(t *testing.T) {
		req := testRequest(day(1), slot("10:00", "11:00"))
		req.Service.IsActive = false
		assertKind(t, v.CheckEligibility(req, testNow), ErrServiceUnavailable)
	})

	t.Run("missing service", func(t *testing.T) {
		req := testRequest(day(1), slot("10:00", "11:00"))
		req.Service = nil
		assertKind(t, v.CheckEligibility(req, testNow), ErrServiceUnavailable)
	})

	t.Run("owner books own business", func(t *testing.T) {
		req := testRequest(day(1), slot("10:00", "11:00"))
		req.CustomerID = req.Business.OwnerID
		assertKind(t, v.CheckEligibility(req, testNow), ErrOwnershipConflict)
	})

	t.Run("not accepting bookings", func(t *testing.T) {
		req := testRequest(day(1), slot("10:00", "11:00"))
		req.Business.AcceptingBookings = false
		assertKind(t, v.CheckEligibility(req, testNow), ErrBusinessClosed)
	})

	t.Run("temporary closure includes reason", func(t *testing.T) {
		req := testRequest(day(1), slot("10:00", "11:00"))
		req.Business.Closure = domain.TemporaryClosure{IsClosed: true, Reason: "renovation"}
		err := v.CheckEligibility(req, testNow)
		assertKind(t, err, ErrBusinessClosed)
		assert.Contains(t, err.Error(), "renovation")
	})

	t.Run("staff from another business", func(t *testing.T) {
		req := testRequest(day(1), slot("10:00", "11:00"))
		req.Staff = testStaff()
		req.Staff.BusinessID = 2
		assertKind(t, v.CheckEligibility(req, testNow), ErrStaffUnavailable)
	})

	t.Run("inactive staff", func(t *testing.T) {
		req := testRequest(day(1), slot("10:00", "11:00"))
		req.Staff = testStaff()
		req.Staff.IsActive = false
		assertKind(t, v.CheckEligibility(req, testNow), ErrStaffUnavailable)
	})
}

func TestCheckScheduleFit(t *testing.T) {
	v := New(DefaultPolicy())

	t.Run("closed on weekday", func(t *testing.T) {
		req := testRequest(day(1), slot("10:00", "11:00"))
		req.Business.Hours[time.Tuesday] = domain.BusinessDay{IsOpen: false}
		err := v.CheckScheduleFit(req, testNow)
		assertKind(t, err, ErrBusinessClosedOnDay)
		assert.Contains(t, err.Error(), "Tuesday")
	})

	t.Run("weekday missing from hours", func(t *testing.T) {
		req := testRequest(day(1), slot("10:00", "11:00"))
		delete(req.Business.Hours, time.Tuesday)
		assertKind(t, v.CheckScheduleFit(req, testNow), ErrBusinessClosedOnDay)
	})

	t.Run("ends after closing", func(t *testing.T) {
		req := testRequest(day(1), slot("19:30", "20:30"))
		err := v.CheckScheduleFit(req, testNow)
		assertKind(t, err, ErrOutsideBusinessHours)
		assert.Contains(t, err.Error(), "8:00 AM - 8:00 PM")
	})

	t.Run("ends exactly at closing", func(t *testing.T) {
		req := testRequest(day(1), slot("19:00", "20:00"))
		assert.NoError(t, v.CheckScheduleFit(req, testNow))
	})

	t.Run("staff day off on sunday", func(t *testing.T) {
		req := testRequest(day(6), slot("10:00", "11:00"))
		req.Staff = testStaff()
		err := v.CheckScheduleFit(req, testNow)
		assertKind(t, err, ErrStaffDayOff)
		assert.Contains(t, err.Error(), "Anna")
	})

	t.Run("outside staff hours", func(t *testing.T) {
		req := testRequest(day(7), slot("16:30", "17:30"))
		req.Staff = testStaff()
		assertKind(t, v.CheckScheduleFit(req, testNow), ErrOutsideStaffHours)
	})

	t.Run("staff without entry for weekday", func(t *testing.T) {
		req := testRequest(day(1), slot("18:00", "19:00"))
		req.Staff = testStaff()
		assert.NoError(t, v.CheckScheduleFit(req, testNow))
	})

	t.Run("zero notice skips the lead time check", func(t *testing.T) {
		req := testRequest(day(0), slot("08:30", "09:30"))
		req.Service.MinAdvanceBooking = domain.AdvanceNotice{}
		assert.NoError(t, v.CheckScheduleFit(req, testNow))
	})

	t.Run("start already passed with notice set", func(t *testing.T) {
		req := testRequest(day(0), slot("08:30", "09:30"))
		req.Service.MinAdvanceBooking = domain.AdvanceNotice{Value: 30, Unit: domain.NoticeMinutes}
		assertKind(t, v.CheckScheduleFit(req, testNow), ErrInsufficientNotice)
	})
}

func TestCheckScheduleFit_Notice(t *testing.T) {
	v := New(DefaultPolicy())

	tests := []struct {
		name    string
		r       types.ClockRange
		wantErr bool
	}{
		{"one hour ahead", slot("10:00", "10:30"), true},
		{"exactly two hours ahead", slot("11:00", "11:30"), false},
		{"two hours and a minute", slot("11:01", "11:31"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testRequest(day(0), tt.r)
			req.Service.MinAdvanceBooking = domain.AdvanceNotice{Value: 2, Unit: domain.NoticeHours}

			err := v.CheckScheduleFit(req, testNow)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assertKind(t, err, ErrInsufficientNotice)
			assert.Contains(t, err.Error(), "2 hours")
		})
	}
}

func TestCheckScheduleFit_ShopHours(t *testing.T) {
	policy := DefaultPolicy()
	policy.ShopHours = &ShopHours{
		Hours:          slot("09:00", "18:00"),
		ClosedWeekdays: []time.Weekday{time.Sunday},
		Holidays:       []time.Time{day(2)},
	}
	v := New(policy)

	assert.NoError(t, v.CheckScheduleFit(testRequest(day(1), slot("10:00", "11:00")), testNow))
	assertKind(t, v.CheckScheduleFit(testRequest(day(1), slot("18:00", "19:00")), testNow), ErrOutsideBusinessHours)
	assertKind(t, v.CheckScheduleFit(testRequest(day(6), slot("10:00", "11:00")), testNow), ErrBusinessClosedOnDay)
	assertKind(t, v.CheckScheduleFit(testRequest(day(2), slot("10:00", "11:00")), testNow), ErrBusinessClosedOnDay)
}

func TestCheckConflicts(t *testing.T) {
	v := New(DefaultPolicy())
	existing := []*domain.Appointment{
		appointment(1, 20, "Manicure", slot("10:00", "11:00"), domain.StatusConfirmed),
	}

	t.Run("overlap", func(t *testing.T) {
		err := v.CheckConflicts(10, slot("10:30", "11:30"), existing, nil)
		assertKind(t, err, ErrTimeOverlap)
		assert.Contains(t, err.Error(), "Manicure")
		assert.Contains(t, err.Error(), "10:00 AM - 11:00 AM")
		vErr, _ := AsError(err)
		assert.True(t, vErr.IsConflict())
	})

	t.Run("touching ranges do not overlap", func(t *testing.T) {
		assert.NoError(t, v.CheckConflicts(10, slot("11:00", "12:00"), existing, nil))
		assert.NoError(t, v.CheckConflicts(10, slot("09:00", "10:00"), existing, nil))
	})

	t.Run("duplicate service", func(t *testing.T) {
		err := v.CheckConflicts(20, slot("15:00", "16:00"), existing, nil)
		assertKind(t, err, ErrDuplicateService)
	})

	t.Run("cancelled appointments are ignored", func(t *testing.T) {
		cancelled := []*domain.Appointment{
			appointment(1, 20, "Manicure", slot("10:00", "11:00"), domain.StatusCancelled),
		}
		assert.NoError(t, v.CheckConflicts(20, slot("10:00", "11:00"), cancelled, nil))
	})

	t.Run("excluded appointment is ignored", func(t *testing.T) {
		assert.NoError(t, v.CheckConflicts(20, slot("10:30", "11:30"), existing, ptr.Ptr(int64(1))))
	})
}

func TestCheckConflicts_DailyCap(t *testing.T) {
	v := New(DefaultPolicy())

	two := []*domain.Appointment{
		appointment(1, 20, "Manicure", slot("09:00", "10:00"), domain.StatusPending),
		appointment(2, 21, "Pedicure", slot("11:00", "12:00"), domain.StatusApproved),
	}
	assert.NoError(t, v.CheckConflicts(10, slot("14:00", "15:00"), two, nil))

	three := append(two, appointment(3, 22, "Massage", slot("12:00", "13:00"), domain.StatusInProgress))
	err := v.CheckConflicts(10, slot("14:00", "15:00"), three, nil)
	assertKind(t, err, ErrDailyCapExceeded)
	assert.Contains(t, err.Error(), "3")

	// cap is checked before overlap
	err = v.CheckConflicts(10, slot("09:30", "10:30"), three, nil)
	assertKind(t, err, ErrDailyCapExceeded)
}

func TestValidate_ValidBooking(t *testing.T) {
	v := New(DefaultPolicy())
	req := testRequest(day(7), slot("10:00", "11:00"))
	req.Staff = testStaff()

	existing := []*domain.Appointment{
		appointment(1, 20, "Manicure", slot("12:00", "13:00"), domain.StatusConfirmed),
	}

	assert.NoError(t, v.Validate(req, existing, nil, testNow))
}

func TestValidate_FirstFailureWins(t *testing.T) {
	v := New(DefaultPolicy())
	req := testRequest(day(-1), slot("19:30", "20:30"))
	req.Service.IsActive = false

	assertKind(t, v.Validate(req, nil, nil, testNow), ErrPastDate)
}

func TestValidate_Idempotent(t *testing.T) {
	v := New(DefaultPolicy())
	req := testRequest(day(1), slot("10:30", "11:30"))
	existing := []*domain.Appointment{
		appointment(1, 20, "Manicure", slot("10:00", "11:00"), domain.StatusConfirmed),
	}
	before := *existing[0]

	first := v.Validate(req, existing, nil, testNow)
	second := v.Validate(req, existing, nil, testNow)

	require.Error(t, first)
	assert.Equal(t, first.Error(), second.Error())
	assert.Equal(t, before, *existing[0])
	assert.Len(t, existing, 1)
}

func TestOverlaps_Symmetric(t *testing.T) {
	pairs := [][2]types.ClockRange{
		{slot("10:00", "11:00"), slot("10:30", "11:30")},
		{slot("10:00", "11:00"), slot("11:00", "12:00")},
		{slot("09:00", "12:00"), slot("10:00", "11:00")},
	}
	for _, p := range pairs {
		assert.Equal(t, Overlaps(p[0], p[1]), Overlaps(p[1], p[0]))
	}
}

func TestApplyRedemption(t *testing.T) {
	pct := func(v float64) *domain.Redemption {
		return &domain.Redemption{Reward: &domain.Reward{DiscountType: domain.DiscountPercentage, DiscountValue: v}}
	}
	fixed := func(v float64) *domain.Redemption {
		return &domain.Redemption{Reward: &domain.Reward{DiscountType: domain.DiscountFixed, DiscountValue: v}}
	}

	tests := []struct {
		name         string
		price        float64
		redemption   *domain.Redemption
		wantDiscount float64
		wantFinal    float64
	}{
		{"no redemption", 50, nil, 0, 50},
		{"20 percent", 50, pct(20), 10, 40},
		{"percent above 100 is clamped", 50, pct(150), 50, 0},
		{"fixed", 50, fixed(15.5), 15.5, 34.5},
		{"fixed above price", 30, fixed(45), 30, 0},
		{"rounding", 19.99, pct(15), 3, 16.99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyRedemption(tt.price, tt.redemption)
			assert.InDelta(t, tt.wantDiscount, got.Discount, 0.001)
			assert.InDelta(t, tt.wantFinal, got.Final, 0.001)
		})
	}
}
