package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	redemptionRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/redemption"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/validator"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Monday 2026-05-04 09:00 UTC
var testNow = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

var tomorrow = time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC)

const (
	ownerID    = int64(500)
	customerID = int64(42)
	businessID = int64(1)
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type fakeCatalog struct {
	businesses map[int64]*domain.Business
	services   map[int64]*domain.Service
	staff      map[int64]*domain.Staff
}

func (c *fakeCatalog) GetBusiness(_ context.Context, id int64) (*domain.Business, error) {
	if b, ok := c.businesses[id]; ok {
		return b, nil
	}
	return nil, catalog.ErrBusinessNotFound
}

func (c *fakeCatalog) GetService(_ context.Context, id int64) (*domain.Service, error) {
	if s, ok := c.services[id]; ok {
		return s, nil
	}
	return nil, catalog.ErrServiceNotFound
}

func (c *fakeCatalog) GetStaff(_ context.Context, id int64) (*domain.Staff, error) {
	if s, ok := c.staff[id]; ok {
		return s, nil
	}
	return nil, catalog.ErrStaffNotFound
}

type fakePolicies struct {
	limits domain.EffectiveLimits
}

func (p *fakePolicies) Effective(context.Context, int64, *int64) (domain.EffectiveLimits, error) {
	return p.limits, nil
}

// memStore in-memory appointments and redemptions
type memStore struct {
	mu           sync.Mutex
	nextID       int64
	appointments []domain.Appointment
	redemptions  map[int64]domain.Redemption
	createErr    error
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, redemptions: make(map[int64]domain.Redemption)}
}

func (s *memStore) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	appt.ID = s.nextID
	appt.CreatedAt = testNow
	appt.UpdatedAt = testNow
	s.nextID++
	s.appointments = append(s.appointments, *appt)
	return appt, nil
}

func (s *memStore) ListActiveByCustomerAndDay(_ context.Context, customer int64, date time.Time, exclude *int64) ([]*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*domain.Appointment
	for i := range s.appointments {
		a := s.appointments[i]
		if a.CustomerID != customer || !a.Date.Equal(date) || !a.IsActive() {
			continue
		}
		if exclude != nil && a.ID == *exclude {
			continue
		}
		result = append(result, &a)
	}
	return result, nil
}

func (s *memStore) CountByBusinessAndDay(_ context.Context, business int64, date time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, a := range s.appointments {
		if a.BusinessID == business && a.Date.Equal(date) {
			count++
		}
	}
	return count, nil
}

func (s *memStore) FindActiveOwned(_ context.Context, id, customer int64) (*domain.Redemption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.redemptions[id]
	if !ok || r.CustomerID != customer || r.Status != domain.RedemptionActive {
		return nil, redemptionRepo.ErrRedemptionNotFound
	}
	return &r, nil
}

func (s *memStore) MarkPending(_ context.Context, id, appointmentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.redemptions[id]
	if !ok || r.Status != domain.RedemptionActive {
		return redemptionRepo.ErrNotActive
	}
	r.Status = domain.RedemptionPending
	r.AppointmentID = &appointmentID
	s.redemptions[id] = r
	return nil
}

func (s *memStore) snapshot() ([]domain.Appointment, map[int64]domain.Redemption, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	appts := append([]domain.Appointment(nil), s.appointments...)
	reds := make(map[int64]domain.Redemption, len(s.redemptions))
	for k, v := range s.redemptions {
		reds[k] = v
	}
	return appts, reds, s.nextID
}

func (s *memStore) restore(appts []domain.Appointment, reds map[int64]domain.Redemption, nextID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments, s.redemptions, s.nextID = appts, reds, nextID
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.appointments)
}

// serialTx выполняет транзакции по одной и откатывает store при ошибке
type serialTx struct {
	mu    sync.Mutex
	store *memStore
	calls int
}

func (m *serialTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	appts, reds, nextID := m.store.snapshot()
	if err := fn(ctx); err != nil {
		m.store.restore(appts, reds, nextID)
		return err
	}
	return nil
}

type recordedOutcomes struct {
	mu       sync.Mutex
	outcomes []string
}

func (r *recordedOutcomes) ObserveBooking(operation, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, operation+":"+outcome)
}

type fixture struct {
	uc       *UseCase
	store    *memStore
	tx       *serialTx
	catalog  *fakeCatalog
	policies *fakePolicies
	outcomes *recordedOutcomes
}

func openAllWeek() map[time.Weekday]domain.BusinessDay {
	hours := make(map[time.Weekday]domain.BusinessDay, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		hours[d] = domain.BusinessDay{
			IsOpen:    true,
			OpenTime:  types.MustParseClockTime("08:00"),
			CloseTime: types.MustParseClockTime("20:00"),
		}
	}
	return hours
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cat := &fakeCatalog{
		businesses: map[int64]*domain.Business{
			businessID: {
				ID: businessID, OwnerID: ownerID, Name: "Glow Studio",
				IsActive: true, IsApproved: true, AcceptingBookings: true,
				Hours: openAllWeek(),
			},
		},
		services: map[int64]*domain.Service{},
		staff: map[int64]*domain.Staff{
			3: {ID: 3, BusinessID: businessID, Name: "Anna", IsActive: true},
		},
	}
	for id := int64(10); id < 40; id++ {
		cat.services[id] = &domain.Service{ID: id, BusinessID: businessID, Name: "Service", IsActive: true, Price: 50}
	}
	cat.services[10].Name = "Haircut"

	store := newMemStore()
	tx := &serialTx{store: store}
	policies := &fakePolicies{limits: domain.EffectiveLimits{MaxAdvanceDays: 30, MaxDailyBookings: 3, SlotStepMinutes: 30}}
	outcomes := &recordedOutcomes{}

	uc := NewUseCase(store, store, cat, policies, validator.DefaultPolicy(), tx, outcomes, logger.NewNop()).
		WithTimeProvider(fixedTime{testNow})

	return &fixture{uc: uc, store: store, tx: tx, catalog: cat, policies: policies, outcomes: outcomes}
}

func request(serviceID int64, start, end string) *Request {
	return &Request{
		CustomerID: customerID,
		ServiceID:  serviceID,
		Date:       tomorrow,
		StartTime:  types.MustParseClockTime(start),
		EndTime:    types.MustParseClockTime(end),
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), request(10, "10:00", "11:00"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, "Haircut", resp.ServiceName)
	assert.Equal(t, 1, resp.QueueNumber)
	assert.Equal(t, 50.0, resp.FinalPrice)
	assert.Equal(t, tomorrow, resp.Date)
	assert.Equal(t, []string{"create:created"}, f.outcomes.outcomes)

	// второй клиент получает следующий номер в очереди
	other := request(10, "10:00", "11:00")
	other.CustomerID = 43
	resp, err = f.uc.Execute(context.Background(), other)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.QueueNumber)
}

func TestExecute_WalkIn(t *testing.T) {
	f := newFixture(t)

	req := request(10, "10:00", "11:00")
	req.WalkIn = true
	req.ActorID = ownerID
	req.BusinessID = businessID

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusApproved), resp.Status)

	req = request(11, "12:00", "13:00")
	req.WalkIn = true
	req.ActorID = 77
	req.BusinessID = businessID

	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_WalkIn_OwnerCannotBookForThemselves(t *testing.T) {
	f := newFixture(t)

	req := request(10, "10:00", "11:00")
	req.CustomerID = ownerID
	req.WalkIn = true
	req.ActorID = ownerID
	req.BusinessID = businessID

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, validator.ErrOwnershipConflict)
}

func TestExecute_CatalogLookups(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), request(999, "10:00", "11:00"))
	assert.ErrorIs(t, err, validator.ErrServiceUnavailable)

	req := request(10, "10:00", "11:00")
	req.StaffID = ptr.Ptr(int64(99))
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, validator.ErrStaffUnavailable)

	f.catalog.services[10].BusinessID = 2
	_, err = f.uc.Execute(context.Background(), request(10, "10:00", "11:00"))
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), request(10, "11:00", "10:00"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	req := request(10, "10:00", "11:00")
	req.CustomerID = 0
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_ScheduleRejectedBeforeTransaction(t *testing.T) {
	f := newFixture(t)

	req := request(10, "10:00", "11:00")
	req.Date = testNow.AddDate(0, 0, -1)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, validator.ErrPastDate)
	assert.Equal(t, 0, f.tx.calls)
	assert.Equal(t, []string{"create:past_date"}, f.outcomes.outcomes)
}

func TestExecute_Conflicts(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), request(10, "10:00", "11:00"))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), request(11, "10:30", "11:30"))
	assert.ErrorIs(t, err, validator.ErrTimeOverlap)
	assert.Contains(t, err.Error(), "Haircut")

	_, err = f.uc.Execute(context.Background(), request(10, "15:00", "16:00"))
	assert.ErrorIs(t, err, validator.ErrDuplicateService)

	// touching ranges are fine
	_, err = f.uc.Execute(context.Background(), request(11, "11:00", "12:00"))
	assert.NoError(t, err)

	assert.Equal(t, 2, f.store.count())
}

func TestExecute_DailyCapFromBusinessPolicy(t *testing.T) {
	f := newFixture(t)
	f.policies.limits.MaxDailyBookings = 1

	_, err := f.uc.Execute(context.Background(), request(10, "10:00", "11:00"))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), request(11, "14:00", "15:00"))
	assert.ErrorIs(t, err, validator.ErrDailyCapExceeded)
	assert.Contains(t, err.Error(), "1 appointments per day")
}

func TestExecute_UniqueIndexViolation(t *testing.T) {
	f := newFixture(t)
	f.store.createErr = appointmentRepo.ErrDuplicate

	_, err := f.uc.Execute(context.Background(), request(10, "10:00", "11:00"))
	assert.ErrorIs(t, err, validator.ErrDuplicateService)
}

func TestExecute_Redemption(t *testing.T) {
	f := newFixture(t)
	f.store.redemptions[7] = domain.Redemption{
		ID: 7, CustomerID: customerID, Status: domain.RedemptionActive,
		Reward: &domain.Reward{ID: 1, DiscountType: domain.DiscountPercentage, DiscountValue: 20},
	}

	req := request(10, "10:00", "11:00")
	req.RedemptionID = ptr.Ptr(int64(7))

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 50.0, resp.BasePrice)
	assert.Equal(t, 10.0, resp.DiscountApplied)
	assert.Equal(t, 40.0, resp.FinalPrice)
	require.NotNil(t, resp.AppliedRedemption)
	assert.Equal(t, int64(7), *resp.AppliedRedemption)

	r := f.store.redemptions[7]
	assert.Equal(t, domain.RedemptionPending, r.Status)
	require.NotNil(t, r.AppointmentID)
	assert.Equal(t, resp.ID, *r.AppointmentID)

	// награда уже привязана
	req = request(11, "14:00", "15:00")
	req.RedemptionID = ptr.Ptr(int64(7))
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, validator.ErrInvalidRedemption)
	assert.Equal(t, 1, f.store.count())
}

func TestExecute_RedemptionOfAnotherCustomer(t *testing.T) {
	f := newFixture(t)
	f.store.redemptions[8] = domain.Redemption{
		ID: 8, CustomerID: 99, Status: domain.RedemptionActive,
		Reward: &domain.Reward{ID: 1, DiscountType: domain.DiscountFixed, DiscountValue: 5},
	}

	req := request(10, "10:00", "11:00")
	req.RedemptionID = ptr.Ptr(int64(8))

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, validator.ErrInvalidRedemption)
	assert.Equal(t, 0, f.store.count())
}

func TestExecute_ConcurrentOverlappingBookings(t *testing.T) {
	f := newFixture(t)
	const n = 20

	var (
		wg        sync.WaitGroup
		start     = make(chan struct{})
		errs      = make([]error, n)
		succeeded int
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			// разные услуги, пересекающееся время
			_, errs[i] = f.uc.Execute(context.Background(), request(10+int64(i), "10:00", "11:00"))
		}(i)
	}

	close(start)
	wg.Wait()

	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, validator.ErrTimeOverlap), "unexpected error: %v", err)
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, f.store.count())
}
