package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/validator"
)

// UseCase use case для получения свободного времени на услугу
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalog         CatalogClient
	policies        PolicyProvider
	basePolicy      validator.Policy
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalog CatalogClient,
	policies PolicyProvider,
	basePolicy validator.Policy,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalog:         catalog,
		policies:        policies,
		basePolicy:      basePolicy,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения свободного времени.
// Каждый кандидат проходит те же проверки расписания, что и бронирование,
// затем отбрасываются интервалы, занятые записями клиента или сотрудника.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: customer=%d, business=%d, service=%d, staff=%v, date=%s, duration=%d",
		req.CustomerID, req.BusinessID, req.ServiceID, req.StaffID, req.Date.Format(domain.DateFormat), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Услуга, бизнес, сотрудник
	service, business, staff, err := uc.loadEntities(ctx, req)
	if err != nil {
		return nil, err
	}

	// Владелец смотрит расписание для walk-in, свои записи у него не учитываются
	customerID := req.CustomerID
	if business.IsOwnedBy(customerID) {
		customerID = 0
	}

	// 4. Политика бизнеса
	limits, err := uc.policies.Effective(ctx, business.ID, &service.ID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve policy for business=%d: %v", business.ID, err)
		return nil, fmt.Errorf("%w: failed to resolve policy: %v", ErrInternal, err)
	}
	policy := uc.basePolicy.WithLimits(limits)
	v := validator.New(policy)
	day := policy.Day(req.Date)

	resp := &Response{
		Date:            day,
		BusinessID:      business.ID,
		ServiceID:       service.ID,
		StaffID:         req.StaffID,
		DurationMinutes: req.DurationMinutes,
		StepMinutes:     limits.SlotStepMinutes,
		Slots:           []Slot{},
	}

	vreq := &validator.Request{
		CustomerID: customerID,
		Date:       day,
		Service:    service,
		Business:   business,
		Staff:      staff,
	}

	// 5. День и доступность бизнеса одинаковы для всех кандидатов
	if err := v.CheckTemporalWindow(day, now); err != nil {
		uc.logger.Warn("GetAvailableSlots: date rejected: %v", err)
		return nil, err
	}
	if err := v.CheckEligibility(vreq, now); err != nil {
		uc.logger.Warn("GetAvailableSlots: business=%d not bookable: %v", business.ID, err)
		return nil, err
	}

	// 6. Кандидаты внутри часов работы
	window, open := dayWindow(business, staff, day.Weekday())
	if !open {
		return resp, nil
	}
	candidates := generateCandidates(window, req.DurationMinutes, limits.SlotStepMinutes)

	// 7. Занятость клиента и сотрудника
	var customerAppointments, staffAppointments []*domain.Appointment
	if customerID > 0 {
		customerAppointments, err = uc.appointmentRepo.ListActiveByCustomerAndDay(ctx, customerID, day, nil)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to list customer appointments: %v", err)
			return nil, fmt.Errorf("%w: failed to list customer appointments: %v", ErrInternal, err)
		}
	}
	if staff != nil {
		staffAppointments, err = uc.appointmentRepo.ListActiveByStaffAndDay(ctx, staff.ID, day)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to list staff appointments: %v", err)
			return nil, fmt.Errorf("%w: failed to list staff appointments: %v", ErrInternal, err)
		}
	}

	// 8. Фильтрация
	for _, slot := range candidates {
		vreq.Slot = slot
		if err := v.CheckScheduleFit(vreq, now); err != nil {
			continue
		}
		if customerID > 0 && v.CheckConflicts(service.ID, slot, customerAppointments, nil) != nil {
			continue
		}
		if overlapsAny(slot, staffAppointments) {
			continue
		}
		resp.Slots = append(resp.Slots, Slot{StartTime: slot.Start, EndTime: slot.End})
	}

	uc.logger.Info("GetAvailableSlots: %d of %d candidates available for business=%d, service=%d on %s",
		len(resp.Slots), len(candidates), business.ID, service.ID, day.Format(domain.DateFormat))

	return resp, nil
}

func (uc *UseCase) loadEntities(ctx context.Context, req *Request) (*domain.Service, *domain.Business, *domain.Staff, error) {
	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, nil, nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, nil, nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if service.BusinessID != req.BusinessID {
		uc.logger.Warn("GetAvailableSlots: service id=%d does not belong to business id=%d", service.ID, req.BusinessID)
		return nil, nil, nil, ErrServiceNotFound
	}

	business, err := uc.catalog.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, catalog.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableSlots: business id=%d not found", req.BusinessID)
			return nil, nil, nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, nil, nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	if req.StaffID == nil {
		return service, business, nil, nil
	}

	staff, err := uc.catalog.GetStaff(ctx, *req.StaffID)
	if err != nil {
		if errors.Is(err, catalog.ErrStaffNotFound) {
			uc.logger.Warn("GetAvailableSlots: staff id=%d not found", *req.StaffID)
			return nil, nil, nil, ErrStaffNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get staff id=%d: %v", *req.StaffID, err)
		return nil, nil, nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	return service, business, staff, nil
}
