package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	policyRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/policy"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/service/policy/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

const ownerID = int64(500)

var defaults = domain.EffectiveLimits{MaxAdvanceDays: 30, MaxDailyBookings: 3, SlotStepMinutes: 30}

// memRepo хранит переопределения по ключу (business, service)
type memRepo struct {
	nextID   int64
	policies []*domain.BookingPolicy
	err      error
}

func sameService(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *memRepo) Create(_ context.Context, p *domain.BookingPolicy) (*domain.BookingPolicy, error) {
	r.nextID++
	p.ID = r.nextID
	r.policies = append(r.policies, p)
	return p, nil
}

func (r *memRepo) Get(_ context.Context, businessID int64, serviceID *int64) (*domain.BookingPolicy, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, p := range r.policies {
		if p.BusinessID == businessID && sameService(p.ServiceID, serviceID) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, policyRepo.ErrPolicyNotFound
}

func (r *memRepo) GetHierarchy(ctx context.Context, businessID int64, serviceID *int64) ([]*domain.BookingPolicy, error) {
	if r.err != nil {
		return nil, r.err
	}
	var result []*domain.BookingPolicy
	if serviceID != nil {
		if p, err := r.Get(ctx, businessID, serviceID); err == nil {
			result = append(result, p)
		}
	}
	if p, err := r.Get(ctx, businessID, nil); err == nil {
		result = append(result, p)
	}
	return result, nil
}

func (r *memRepo) ListByBusiness(_ context.Context, businessID int64) ([]*domain.BookingPolicy, error) {
	var result []*domain.BookingPolicy
	for _, p := range r.policies {
		if p.BusinessID == businessID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *memRepo) Update(_ context.Context, p *domain.BookingPolicy) (*domain.BookingPolicy, error) {
	for i, existing := range r.policies {
		if existing.ID == p.ID {
			cp := *p
			r.policies[i] = &cp
			return &cp, nil
		}
	}
	return nil, policyRepo.ErrPolicyNotFound
}

func (r *memRepo) Delete(_ context.Context, id int64) error {
	for i, p := range r.policies {
		if p.ID == id {
			r.policies = append(r.policies[:i], r.policies[i+1:]...)
			return nil
		}
	}
	return policyRepo.ErrPolicyNotFound
}

type stubCatalog struct{}

func (stubCatalog) GetBusiness(_ context.Context, id int64) (*domain.Business, error) {
	if id != 1 {
		return nil, catalog.ErrBusinessNotFound
	}
	return &domain.Business{ID: 1, OwnerID: ownerID}, nil
}

func (stubCatalog) GetService(_ context.Context, id int64) (*domain.Service, error) {
	switch id {
	case 10:
		return &domain.Service{ID: 10, BusinessID: 1}, nil
	case 20:
		return &domain.Service{ID: 20, BusinessID: 2}, nil
	default:
		return nil, catalog.ErrServiceNotFound
	}
}

func newService() (*Service, *memRepo) {
	repo := &memRepo{}
	return NewService(repo, stubCatalog{}, defaults, logger.NewNop()), repo
}

func TestEffective_Hierarchy(t *testing.T) {
	svc, repo := newService()
	repo.policies = []*domain.BookingPolicy{
		{ID: 1, BusinessID: 1, MaxAdvanceDays: ptr.Ptr(60), MaxDailyBookings: ptr.Ptr(5)},
		{ID: 2, BusinessID: 1, ServiceID: ptr.Ptr(int64(10)), MaxDailyBookings: ptr.Ptr(1)},
	}

	limits, err := svc.Effective(context.Background(), 1, ptr.Ptr(int64(10)))
	require.NoError(t, err)
	assert.Equal(t, domain.EffectiveLimits{MaxAdvanceDays: 60, MaxDailyBookings: 1, SlotStepMinutes: 30}, limits)

	limits, err = svc.Effective(context.Background(), 1, ptr.Ptr(int64(11)))
	require.NoError(t, err)
	assert.Equal(t, domain.EffectiveLimits{MaxAdvanceDays: 60, MaxDailyBookings: 5, SlotStepMinutes: 30}, limits)

	limits, err = svc.Effective(context.Background(), 2, nil)
	require.NoError(t, err)
	assert.Equal(t, defaults, limits)
}

func TestEffective_RepositoryError(t *testing.T) {
	svc, repo := newService()
	repo.err = errors.New("connection refused")

	_, err := svc.Effective(context.Background(), 1, nil)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestUpdate_CreatesThenPatches(t *testing.T) {
	svc, repo := newService()

	resp, err := svc.Update(context.Background(), &models.UpdatePolicyRequest{
		UserID: ownerID, BusinessID: 1, MaxDailyBookings: ptr.Ptr(5),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Override)
	assert.Equal(t, 5, resp.Effective.MaxDailyBookings)
	assert.Equal(t, 30, resp.Effective.MaxAdvanceDays)
	require.Len(t, repo.policies, 1)

	resp, err = svc.Update(context.Background(), &models.UpdatePolicyRequest{
		UserID: ownerID, BusinessID: 1, SlotStepMinutes: ptr.Ptr(15),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Effective.MaxDailyBookings, "earlier override kept")
	assert.Equal(t, 15, resp.Effective.SlotStepMinutes)
	assert.Len(t, repo.policies, 1)
}

func TestUpdate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     models.UpdatePolicyRequest
		wantErr error
	}{
		{"empty", models.UpdatePolicyRequest{UserID: ownerID, BusinessID: 1}, ErrInvalidInput},
		{"advance too large", models.UpdatePolicyRequest{UserID: ownerID, BusinessID: 1, MaxAdvanceDays: ptr.Ptr(400)}, ErrInvalidInput},
		{"daily zero", models.UpdatePolicyRequest{UserID: ownerID, BusinessID: 1, MaxDailyBookings: ptr.Ptr(0)}, ErrInvalidInput},
		{"step too small", models.UpdatePolicyRequest{UserID: ownerID, BusinessID: 1, SlotStepMinutes: ptr.Ptr(1)}, ErrInvalidInput},
		{"not owner", models.UpdatePolicyRequest{UserID: 7, BusinessID: 1, MaxDailyBookings: ptr.Ptr(2)}, ErrAccessDenied},
		{"unknown business", models.UpdatePolicyRequest{UserID: ownerID, BusinessID: 9, MaxDailyBookings: ptr.Ptr(2)}, ErrBusinessNotFound},
		{"foreign service", models.UpdatePolicyRequest{UserID: ownerID, BusinessID: 1, ServiceID: ptr.Ptr(int64(20)), MaxDailyBookings: ptr.Ptr(2)}, ErrServiceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService()
			req := tt.req
			_, err := svc.Update(context.Background(), &req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.policies)
		})
	}
}

func TestGet_WithoutOverride(t *testing.T) {
	svc, _ := newService()

	resp, err := svc.Get(context.Background(), &models.GetPolicyRequest{UserID: ownerID, BusinessID: 1, ServiceID: ptr.Ptr(int64(10))})
	require.NoError(t, err)
	assert.Nil(t, resp.Override)
	assert.Equal(t, models.FromDomainLimits(defaults), resp.Effective)
}

func TestListAndDelete(t *testing.T) {
	svc, repo := newService()
	repo.policies = []*domain.BookingPolicy{
		{ID: 1, BusinessID: 1, MaxAdvanceDays: ptr.Ptr(60)},
		{ID: 2, BusinessID: 1, ServiceID: ptr.Ptr(int64(10)), MaxDailyBookings: ptr.Ptr(1)},
	}
	repo.nextID = 2

	list, err := svc.List(context.Background(), 1, ownerID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	err = svc.Delete(context.Background(), &models.GetPolicyRequest{UserID: ownerID, BusinessID: 1, ServiceID: ptr.Ptr(int64(10))})
	require.NoError(t, err)
	assert.Len(t, repo.policies, 1)

	err = svc.Delete(context.Background(), &models.GetPolicyRequest{UserID: ownerID, BusinessID: 1, ServiceID: ptr.Ptr(int64(10))})
	assert.ErrorIs(t, err, ErrPolicyNotFound)
}
