package reschedule_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/validator"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const (
	operationReschedule = "reschedule"
	outcomeRescheduled  = "rescheduled"
	outcomeError        = "error"
)

// UseCase use case для переноса записи клиентом
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalog         CatalogClient
	policies        PolicyProvider
	basePolicy      validator.Policy
	txManager       TransactionManager
	outcomes        OutcomeRecorder
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalog CatalogClient,
	policies PolicyProvider,
	basePolicy validator.Policy,
	txManager TransactionManager,
	outcomes OutcomeRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalog:         catalog,
		policies:        policies,
		basePolicy:      basePolicy,
		txManager:       txManager,
		outcomes:        outcomes,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute переносит запись на новое время.
// Запись проверяется теми же правилами, что и новая, но не конфликтует сама с собой.
// После переноса статус сбрасывается в pending.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	defer func() { uc.observe(err) }()

	uc.logger.Info("RescheduleBooking: appointment=%d, customer=%d, date=%s, time=%s-%s, staff=%v",
		req.AppointmentID, req.CustomerID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime, req.StaffID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Текущая запись: владелец и статус
	current, err := uc.loadAppointment(ctx, req)
	if err != nil {
		return nil, err
	}

	staffID := current.StaffID
	if req.StaffID != nil {
		staffID = req.StaffID
	}

	// 3. Услуга, бизнес и сотрудник
	service, business, staff, err := uc.loadEntities(ctx, current.ServiceID, staffID)
	if err != nil {
		return nil, err
	}

	// 4. Политика бизнеса и проверки расписания
	limits, err := uc.policies.Effective(ctx, business.ID, &service.ID)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to resolve policy for business=%d: %v", business.ID, err)
		return nil, fmt.Errorf("%w: failed to resolve policy: %v", ErrInternal, err)
	}
	policy := uc.basePolicy.WithLimits(limits)
	v := validator.New(policy)
	day := policy.Day(req.Date)

	vreq := &validator.Request{
		CustomerID: current.CustomerID,
		Date:       day,
		Slot:       types.ClockRange{Start: req.StartTime, End: req.EndTime},
		Service:    service,
		Business:   business,
		Staff:      staff,
	}

	if err := v.ValidateSchedule(vreq, now); err != nil {
		uc.logger.Warn("RescheduleBooking: rejected for appointment=%d: %v", req.AppointmentID, err)
		return nil, err
	}

	var result *domain.Appointment

	// 5. Конфликты и обновление в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Перечитываем запись под блокировкой
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
		}
		if !appt.CanBeRescheduled() {
			uc.logger.Warn("RescheduleBooking: appointment=%d changed status to %s", appt.ID, appt.Status)
			return ErrInvalidStatus
		}

		// 5.2. Записи клиента на новый день, кроме переносимой
		existing, err := uc.appointmentRepo.ListActiveByCustomerAndDay(txCtx, appt.CustomerID, day, &appt.ID)
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to list customer appointments: %v", err)
			return fmt.Errorf("%w: failed to list appointments: %w", ErrInternal, err)
		}

		if err := v.CheckConflicts(service.ID, vreq.Slot, existing, &appt.ID); err != nil {
			uc.logger.Warn("RescheduleBooking: conflict for appointment=%d: %v", appt.ID, err)
			return err
		}

		// 5.3. Номер в очереди пересчитывается только при смене дня
		if !policy.Day(appt.Date).Equal(day) {
			count, err := uc.appointmentRepo.CountByBusinessAndDay(txCtx, appt.BusinessID, day)
			if err != nil {
				uc.logger.Error("RescheduleBooking: failed to count business appointments: %v", err)
				return fmt.Errorf("%w: failed to count appointments: %w", ErrInternal, err)
			}
			appt.QueueNumber = count + 1
		}

		appt.Date = day
		appt.TimeSlot = vreq.Slot
		appt.StaffID = staffID
		appt.Status = domain.StatusPending

		if err := uc.appointmentRepo.UpdateSchedule(txCtx, appt); err != nil {
			if errors.Is(err, appointmentRepo.ErrDuplicate) {
				return validator.NewDuplicateService(service.Name)
			}
			uc.logger.Error("RescheduleBooking: failed to update appointment=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to update appointment: %w", ErrInternal, err)
		}

		result = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleBooking: appointment id=%d moved to %s %s", result.ID,
		result.Date.Format(domain.DateFormat), result.TimeSlot)

	return toResponse(result), nil
}

func (uc *UseCase) loadAppointment(ctx context.Context, req *Request) (*domain.Appointment, error) {
	appt, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("RescheduleBooking: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	if appt.CustomerID != req.CustomerID {
		uc.logger.Warn("RescheduleBooking: user=%d does not own appointment=%d", req.CustomerID, appt.ID)
		return nil, ErrAccessDenied
	}

	if !appt.CanBeRescheduled() {
		uc.logger.Warn("RescheduleBooking: appointment=%d has status %s", appt.ID, appt.Status)
		return nil, ErrInvalidStatus
	}

	return appt, nil
}

func (uc *UseCase) loadEntities(ctx context.Context, serviceID int64, staffID *int64) (*domain.Service, *domain.Business, *domain.Staff, error) {
	service, err := uc.catalog.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			return nil, nil, nil, validator.NewServiceUnavailable()
		}
		uc.logger.Error("RescheduleBooking: failed to get service id=%d: %v", serviceID, err)
		return nil, nil, nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	business, err := uc.catalog.GetBusiness(ctx, service.BusinessID)
	if err != nil {
		if errors.Is(err, catalog.ErrBusinessNotFound) {
			return nil, nil, nil, ErrBusinessNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get business id=%d: %v", service.BusinessID, err)
		return nil, nil, nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	if staffID == nil {
		return service, business, nil, nil
	}

	staff, err := uc.catalog.GetStaff(ctx, *staffID)
	if err != nil {
		if errors.Is(err, catalog.ErrStaffNotFound) {
			return nil, nil, nil, validator.NewStaffUnavailable()
		}
		uc.logger.Error("RescheduleBooking: failed to get staff id=%d: %v", *staffID, err)
		return nil, nil, nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	return service, business, staff, nil
}

func (uc *UseCase) observe(err error) {
	if uc.outcomes == nil {
		return
	}
	switch vErr, ok := validator.AsError(err); {
	case err == nil:
		uc.outcomes.ObserveBooking(operationReschedule, outcomeRescheduled)
	case ok:
		uc.outcomes.ObserveBooking(operationReschedule, vErr.Code())
	default:
		uc.outcomes.ObserveBooking(operationReschedule, outcomeError)
	}
}

func toResponse(a *domain.Appointment) *Response {
	return &Response{
		ID:          a.ID,
		CustomerID:  a.CustomerID,
		BusinessID:  a.BusinessID,
		ServiceID:   a.ServiceID,
		StaffID:     a.StaffID,
		Date:        a.Date,
		StartTime:   a.TimeSlot.Start,
		EndTime:     a.TimeSlot.End,
		Status:      string(a.Status),
		ServiceName: a.ServiceName,
		Notes:       a.Notes,
		FinalPrice:  a.FinalPrice,
		QueueNumber: a.QueueNumber,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
