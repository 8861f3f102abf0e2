package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	policyRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/policy"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/service/policy/models"
)

// Service сервис переопределений политики бронирования бизнеса
type Service struct {
	policyRepo PolicyRepository
	catalog    CatalogClient
	defaults   domain.EffectiveLimits
	logger     Logger
}

// NewService создает новый экземпляр сервиса политик.
// defaults платформенные лимиты из конфигурации.
func NewService(
	policyRepo PolicyRepository,
	catalog CatalogClient,
	defaults domain.EffectiveLimits,
	logger Logger,
) *Service {
	return &Service{
		policyRepo: policyRepo,
		catalog:    catalog,
		defaults:   defaults,
		logger:     logger,
	}
}

// Effective итоговые лимиты для бизнеса и услуги.
// Приоритет: услуга в бизнесе > весь бизнес > платформа.
func (s *Service) Effective(ctx context.Context, businessID int64, serviceID *int64) (domain.EffectiveLimits, error) {
	policies, err := s.policyRepo.GetHierarchy(ctx, businessID, serviceID)
	if err != nil {
		s.logger.Error("Effective: repository error for business=%d: %v", businessID, err)
		return domain.EffectiveLimits{}, fmt.Errorf("%w: Effective - repository error: %v", ErrInternal, err)
	}
	return s.defaults.Merge(policies...), nil
}

// Get возвращает переопределение уровня и итоговые лимиты.
// Доступно только владельцу бизнеса.
func (s *Service) Get(ctx context.Context, req *models.GetPolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Get: policy for business=%d, service=%v by user=%d", req.BusinessID, req.ServiceID, req.UserID)

	if err := s.checkOwner(ctx, req.BusinessID, req.ServiceID, req.UserID); err != nil {
		return nil, err
	}

	override, err := s.policyRepo.Get(ctx, req.BusinessID, req.ServiceID)
	if err != nil && !errors.Is(err, policyRepo.ErrPolicyNotFound) {
		s.logger.Error("Get: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	effective, err := s.Effective(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		return nil, err
	}

	return &models.PolicyResponse{
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		Override:   models.FromDomainPolicy(override),
		Effective:  models.FromDomainLimits(effective),
	}, nil
}

// Update создаёт или изменяет переопределение уровня.
// Доступно только владельцу бизнеса. Поддерживает частичное обновление.
func (s *Service) Update(ctx context.Context, req *models.UpdatePolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Update: policy for business=%d, service=%v by user=%d", req.BusinessID, req.ServiceID, req.UserID)

	// 1. Валидируем входные данные
	if err := validateUpdate(req); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	// 2. Права доступа
	if err := s.checkOwner(ctx, req.BusinessID, req.ServiceID, req.UserID); err != nil {
		return nil, err
	}

	// 3. Существующее переопределение или новое
	existing, err := s.policyRepo.Get(ctx, req.BusinessID, req.ServiceID)
	switch {
	case errors.Is(err, policyRepo.ErrPolicyNotFound):
		p := &domain.BookingPolicy{BusinessID: req.BusinessID, ServiceID: req.ServiceID}
		req.ApplyTo(p)
		if _, err := s.policyRepo.Create(ctx, p); err != nil {
			s.logger.Error("Update: failed to create policy for business=%d: %v", req.BusinessID, err)
			return nil, fmt.Errorf("%w: Update - create: %v", ErrInternal, err)
		}
	case err != nil:
		s.logger.Error("Update: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	default:
		req.ApplyTo(existing)
		if _, err := s.policyRepo.Update(ctx, existing); err != nil {
			if errors.Is(err, policyRepo.ErrPolicyNotFound) {
				return nil, ErrPolicyNotFound
			}
			s.logger.Error("Update: failed to update policy id=%d: %v", existing.ID, err)
			return nil, fmt.Errorf("%w: Update - update: %v", ErrInternal, err)
		}
	}

	s.logger.Info("Update: policy for business=%d, service=%v saved", req.BusinessID, req.ServiceID)

	return s.Get(ctx, &models.GetPolicyRequest{UserID: req.UserID, BusinessID: req.BusinessID, ServiceID: req.ServiceID})
}

// List все переопределения бизнеса. Доступно только владельцу.
func (s *Service) List(ctx context.Context, businessID, userID int64) ([]*models.OverrideResponse, error) {
	s.logger.Info("List: policies for business=%d by user=%d", businessID, userID)

	if err := s.checkOwner(ctx, businessID, nil, userID); err != nil {
		return nil, err
	}

	policies, err := s.policyRepo.ListByBusiness(ctx, businessID)
	if err != nil {
		s.logger.Error("List: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	result := make([]*models.OverrideResponse, 0, len(policies))
	for _, p := range policies {
		result = append(result, models.FromDomainPolicy(p))
	}
	return result, nil
}

// Delete удаляет переопределение уровня, после чего действуют значения уровнем выше
func (s *Service) Delete(ctx context.Context, req *models.GetPolicyRequest) error {
	s.logger.Info("Delete: policy for business=%d, service=%v by user=%d", req.BusinessID, req.ServiceID, req.UserID)

	if err := s.checkOwner(ctx, req.BusinessID, req.ServiceID, req.UserID); err != nil {
		return err
	}

	existing, err := s.policyRepo.Get(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			return ErrPolicyNotFound
		}
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	if err := s.policyRepo.Delete(ctx, existing.ID); err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			return ErrPolicyNotFound
		}
		s.logger.Error("Delete: failed to delete policy id=%d: %v", existing.ID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	return nil
}

// Вспомогательные методы

// checkOwner проверяет владельца бизнеса и, если указана, принадлежность услуги бизнесу
func (s *Service) checkOwner(ctx context.Context, businessID int64, serviceID *int64, userID int64) error {
	business, err := s.catalog.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, catalog.ErrBusinessNotFound) {
			s.logger.Warn("checkOwner: business id=%d not found", businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("checkOwner: failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	if !business.IsOwnedBy(userID) {
		s.logger.Warn("checkOwner: user=%d is not the owner of business=%d", userID, businessID)
		return ErrAccessDenied
	}

	if serviceID == nil {
		return nil
	}

	service, err := s.catalog.GetService(ctx, *serviceID)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			return ErrServiceNotFound
		}
		s.logger.Error("checkOwner: failed to get service id=%d: %v", *serviceID, err)
		return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if service.BusinessID != businessID {
		s.logger.Warn("checkOwner: service id=%d does not belong to business=%d", *serviceID, businessID)
		return ErrServiceNotFound
	}

	return nil
}

// validateUpdate проверяет границы значений
func validateUpdate(req *models.UpdatePolicyRequest) error {
	if req.IsEmpty() {
		return fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	if v := req.MaxAdvanceDays; v != nil && (*v < domain.MinAdvanceDays || *v > domain.MaxAdvanceDays) {
		return fmt.Errorf("%w: maxAdvanceDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceDays, domain.MaxAdvanceDays)
	}

	if v := req.MaxDailyBookings; v != nil && (*v < domain.MinDailyBookings || *v > domain.MaxDailyBookings) {
		return fmt.Errorf("%w: maxDailyBookings must be between %d and %d",
			ErrInvalidInput, domain.MinDailyBookings, domain.MaxDailyBookings)
	}

	if v := req.SlotStepMinutes; v != nil && (*v < domain.MinSlotStepMinutes || *v > domain.MaxSlotStepMinutes) {
		return fmt.Errorf("%w: slotStepMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotStepMinutes, domain.MaxSlotStepMinutes)
	}

	return nil
}
