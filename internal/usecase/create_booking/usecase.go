package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	redemptionRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/redemption"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/validator"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const (
	operationCreate = "create"
	operationWalkIn = "walk_in"
	outcomeCreated  = "created"
	outcomeError    = "error"
)

// UseCase use case для создания записи (клиентом или walk-in владельцем бизнеса)
type UseCase struct {
	appointmentRepo AppointmentRepository
	redemptionRepo  RedemptionRepository
	catalog         CatalogClient
	policies        PolicyProvider
	basePolicy      validator.Policy
	txManager       TransactionManager
	outcomes        OutcomeRecorder
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// basePolicy платформенная политика, к ней применяются переопределения бизнеса.
func NewUseCase(
	appointmentRepo AppointmentRepository,
	redemptionRepo RedemptionRepository,
	catalog CatalogClient,
	policies PolicyProvider,
	basePolicy validator.Policy,
	txManager TransactionManager,
	outcomes OutcomeRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		redemptionRepo:  redemptionRepo,
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

// Execute проверяет и создаёт запись.
// Проверки 4.1-4.3 выполняются до транзакции, конфликты, награда и вставка
// выполняются в одной сериализуемой транзакции.
// Отказы возвращаются как *validator.Error.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	operation := operationCreate
	if req.WalkIn {
		operation = operationWalkIn
	}
	defer func() { uc.observe(operation, err) }()

	uc.logger.Info("CreateBooking: customer=%d, service=%d, staff=%v, date=%s, time=%s-%s, walkIn=%t",
		req.CustomerID, req.ServiceID, req.StaffID, req.Date.Format(domain.DateFormat),
		req.StartTime, req.EndTime, req.WalkIn)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Загружаем услугу, бизнес и сотрудника
	service, business, staff, err := uc.loadEntities(ctx, req)
	if err != nil {
		return nil, err
	}

	// 4. Walk-in может создать только владелец бизнеса
	if req.WalkIn && !business.IsOwnedBy(req.ActorID) {
		uc.logger.Warn("CreateBooking: user=%d is not the owner of business=%d", req.ActorID, business.ID)
		return nil, ErrAccessDenied
	}

	// 5. Политика бизнеса
	limits, err := uc.policies.Effective(ctx, business.ID, &service.ID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to resolve policy for business=%d: %v", business.ID, err)
		return nil, fmt.Errorf("%w: failed to resolve policy: %v", ErrInternal, err)
	}
	policy := uc.basePolicy.WithLimits(limits)
	v := validator.New(policy)
	day := policy.Day(req.Date)

	vreq := &validator.Request{
		CustomerID: req.CustomerID,
		Date:       day,
		Slot:       types.ClockRange{Start: req.StartTime, End: req.EndTime},
		Service:    service,
		Business:   business,
		Staff:      staff,
	}

	// 6. Временное окно, доступность, расписание
	if err := v.ValidateSchedule(vreq, now); err != nil {
		uc.logger.Warn("CreateBooking: rejected for customer=%d: %v", req.CustomerID, err)
		return nil, err
	}

	status := domain.StatusPending
	if req.WalkIn {
		status = domain.StatusApproved
	}

	var (
		result *domain.Appointment
		price  validator.Price
	)

	// 7. Конфликты, награда и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Записи клиента на день с блокировкой (FOR UPDATE)
		existing, err := uc.appointmentRepo.ListActiveByCustomerAndDay(txCtx, req.CustomerID, day, nil)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to list customer appointments: %v", err)
			return fmt.Errorf("%w: failed to list appointments: %w", ErrInternal, err)
		}

		// 7.2. Дневной лимит, повтор услуги, пересечение
		if err := v.CheckConflicts(service.ID, vreq.Slot, existing, nil); err != nil {
			uc.logger.Warn("CreateBooking: conflict for customer=%d: %v", req.CustomerID, err)
			return err
		}

		// 7.3. Награда
		var redemption *domain.Redemption
		if req.RedemptionID != nil {
			redemption, err = uc.redemptionRepo.FindActiveOwned(txCtx, *req.RedemptionID, req.CustomerID)
			if errors.Is(err, redemptionRepo.ErrRedemptionNotFound) || (err == nil && !redemption.IsUsable()) {
				uc.logger.Warn("CreateBooking: redemption=%d is not usable by customer=%d", *req.RedemptionID, req.CustomerID)
				return validator.NewInvalidRedemption()
			}
			if err != nil {
				uc.logger.Error("CreateBooking: failed to load redemption=%d: %v", *req.RedemptionID, err)
				return fmt.Errorf("%w: failed to load redemption: %w", ErrInternal, err)
			}
		}
		price = validator.ApplyRedemption(service.Price, redemption)

		// 7.4. Номер в очереди на день
		count, err := uc.appointmentRepo.CountByBusinessAndDay(txCtx, business.ID, day)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to count business appointments: %v", err)
			return fmt.Errorf("%w: failed to count appointments: %w", ErrInternal, err)
		}

		appt := &domain.Appointment{
			CustomerID:      req.CustomerID,
			ServiceID:       service.ID,
			BusinessID:      business.ID,
			StaffID:         req.StaffID,
			Date:            day,
			TimeSlot:        vreq.Slot,
			Status:          status,
			ServiceName:     service.Name,
			Notes:           req.Notes,
			DiscountApplied: price.Discount,
			FinalPrice:      price.Final,
			QueueNumber:     count + 1,
		}
		if redemption != nil {
			appt.AppliedRedemption = &redemption.ID
		}

		// 7.5. Сохраняем запись
		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrDuplicate) {
				uc.logger.Warn("CreateBooking: unique index rejected duplicate service for customer=%d", req.CustomerID)
				return validator.NewDuplicateService(service.Name)
			}
			uc.logger.Error("CreateBooking: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		// 7.6. Привязываем награду к записи
		if redemption != nil {
			if err := uc.redemptionRepo.MarkPending(txCtx, redemption.ID, created.ID); err != nil {
				if errors.Is(err, redemptionRepo.ErrNotActive) {
					return validator.NewInvalidRedemption()
				}
				uc.logger.Error("CreateBooking: failed to lock redemption=%d: %v", redemption.ID, err)
				return fmt.Errorf("%w: failed to mark redemption pending: %w", ErrInternal, err)
			}
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: created appointment id=%d, queue=%d, final price=%.2f",
		result.ID, result.QueueNumber, result.FinalPrice)

	return toResponse(result, price.Base), nil
}

func (uc *UseCase) loadEntities(ctx context.Context, req *Request) (*domain.Service, *domain.Business, *domain.Staff, error) {
	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, nil, nil, validator.NewServiceUnavailable()
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, nil, nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if req.BusinessID != 0 && service.BusinessID != req.BusinessID {
		uc.logger.Warn("CreateBooking: service id=%d does not belong to business id=%d", service.ID, req.BusinessID)
		return nil, nil, nil, validator.NewServiceUnavailable()
	}

	business, err := uc.catalog.GetBusiness(ctx, service.BusinessID)
	if err != nil {
		if errors.Is(err, catalog.ErrBusinessNotFound) {
			uc.logger.Warn("CreateBooking: business id=%d not found", service.BusinessID)
			return nil, nil, nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateBooking: failed to get business id=%d: %v", service.BusinessID, err)
		return nil, nil, nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	if req.StaffID == nil {
		return service, business, nil, nil
	}

	staff, err := uc.catalog.GetStaff(ctx, *req.StaffID)
	if err != nil {
		if errors.Is(err, catalog.ErrStaffNotFound) {
			uc.logger.Warn("CreateBooking: staff id=%d not found", *req.StaffID)
			return nil, nil, nil, validator.NewStaffUnavailable()
		}
		uc.logger.Error("CreateBooking: failed to get staff id=%d: %v", *req.StaffID, err)
		return nil, nil, nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	return service, business, staff, nil
}

func (uc *UseCase) observe(operation string, err error) {
	if uc.outcomes == nil {
		return
	}
	switch vErr, ok := validator.AsError(err); {
	case err == nil:
		uc.outcomes.ObserveBooking(operation, outcomeCreated)
	case ok:
		uc.outcomes.ObserveBooking(operation, vErr.Code())
	default:
		uc.outcomes.ObserveBooking(operation, outcomeError)
	}
}

func toResponse(a *domain.Appointment, basePrice float64) *Response {
	return &Response{
		ID:                a.ID,
		CustomerID:        a.CustomerID,
		BusinessID:        a.BusinessID,
		ServiceID:         a.ServiceID,
		StaffID:           a.StaffID,
		Date:              a.Date,
		StartTime:         a.TimeSlot.Start,
		EndTime:           a.TimeSlot.End,
		Status:            string(a.Status),
		ServiceName:       a.ServiceName,
		Notes:             a.Notes,
		AppliedRedemption: a.AppliedRedemption,
		BasePrice:         basePrice,
		DiscountApplied:   a.DiscountApplied,
		FinalPrice:        a.FinalPrice,
		QueueNumber:       a.QueueNumber,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}
