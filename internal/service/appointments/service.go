package appointments

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service сервис для работы с записями: просмотр, отмена, смена статуса
type Service struct {
	appointmentRepo AppointmentRepository
	redemptionRepo  RedemptionRepository
	catalog         CatalogClient
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	redemptionRepo RedemptionRepository,
	catalog CatalogClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		redemptionRepo:  redemptionRepo,
		catalog:         catalog,
		txManager:       txManager,
		logger:          logger,
	}
}

// GetByID получает запись по ID.
// Доступна клиенту записи и владельцу бизнеса.
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appt, err := s.load(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkCustomerOrOwner(ctx, appt, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, err
	}

	return models.FromDomainAppointment(appt), nil
}

// GetCustomerAppointments история записей клиента, включая завершённые и отменённые.
// Клиент видит только свои записи.
func (s *Service) GetCustomerAppointments(ctx context.Context, req *models.GetCustomerAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetCustomerAppointments: customer=%d, user=%d, status=%v", req.CustomerID, req.UserID, req.Status)

	if req.UserID != req.CustomerID {
		s.logger.Warn("GetCustomerAppointments: user=%d cannot read appointments of customer=%d", req.UserID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	customerID := req.CustomerID
	filter := domain.AppointmentFilter{CustomerID: &customerID, IncludeInactive: true}
	if req.Status != nil {
		status, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerAppointments: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	appts, err := s.appointmentRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetCustomerAppointments: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerAppointments: fetched %d appointments for customer=%d", len(appts), req.CustomerID)
	return models.FromDomainAppointmentList(appts), nil
}

// GetBusinessAppointments записи бизнеса с фильтрацией по дню, периоду и статусу.
// Доступно только владельцу бизнеса.
func (s *Service) GetBusinessAppointments(ctx context.Context, req *models.GetBusinessAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetBusinessAppointments: business=%d, user=%d, status=%v, includeInactive=%t",
		req.BusinessID, req.UserID, req.Status, req.IncludeInactive)

	if err := s.checkOwner(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBusinessAppointments: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	appts, err := s.appointmentRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBusinessAppointments: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetBusinessAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBusinessAppointments: fetched %d appointments for business=%d", len(appts), req.BusinessID)
	return models.FromDomainAppointmentList(appts), nil
}

// Cancel отменяет запись. Отменить может клиент или владелец бизнеса.
// Привязанная награда возвращается клиенту.
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", id, req.UserID)

	if req.Reason != nil && utf8.RuneCountInString(*req.Reason) > domain.MaxCancelReasonSize {
		return fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancelReasonSize)
	}

	appt, err := s.load(ctx, "Cancel", id)
	if err != nil {
		return err
	}

	if err := s.checkCustomerOrOwner(ctx, appt, req.UserID); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to appointment id=%d", req.UserID, id)
		return err
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appt.Status)
		return ErrCannotCancel
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.cancelAndRelease(txCtx, id, req.Reason)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Cancel: appointment id=%d cancelled", id)
	return nil
}

// UpdateStatus переводит запись в новый статус. Доступно только владельцу бизнеса.
// completed списывает награду, cancelled и no-show возвращают её клиенту.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: appointment id=%d to status=%s by user=%d", id, req.Status, req.UserID)

	next, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, id)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	appt, err := s.load(ctx, "UpdateStatus", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkOwner(ctx, appt.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	var result *domain.Appointment
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Перечитываем под блокировкой: статус мог измениться
		current, err := s.load(txCtx, "UpdateStatus", id)
		if err != nil {
			return err
		}

		if !current.Status.CanTransitionTo(next) {
			s.logger.Warn("UpdateStatus: transition %s -> %s not allowed for appointment id=%d", current.Status, next, id)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, next)
		}

		switch next {
		case domain.StatusCancelled:
			if err := s.cancelAndRelease(txCtx, id, nil); err != nil {
				return err
			}
		default:
			if err := s.appointmentRepo.UpdateStatus(txCtx, id, next); err != nil {
				if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
					return ErrAppointmentNotFound
				}
				s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", id, err)
				return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
			}
			if err := s.settleRedemption(txCtx, id, next); err != nil {
				return err
			}
		}

		current.Status = next
		result = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: appointment id=%d is now %s", id, next)
	return models.FromDomainAppointment(result), nil
}

// Вспомогательные методы

func (s *Service) load(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appt, nil
}

func (s *Service) cancelAndRelease(ctx context.Context, id int64, reason *string) error {
	if err := s.appointmentRepo.Cancel(ctx, id, reason); err != nil {
		if errors.Is(err, appointmentRepo.ErrCannotCancel) {
			return ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if err := s.redemptionRepo.Release(ctx, id); err != nil {
		s.logger.Error("Cancel: failed to release redemption of appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Cancel - release redemption: %v", ErrInternal, err)
	}
	return nil
}

func (s *Service) settleRedemption(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	var err error
	switch status {
	case domain.StatusCompleted:
		err = s.redemptionRepo.MarkUsed(ctx, id)
	case domain.StatusNoShow:
		err = s.redemptionRepo.Release(ctx, id)
	default:
		return nil
	}
	if err != nil {
		s.logger.Error("UpdateStatus: failed to settle redemption of appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: UpdateStatus - settle redemption: %v", ErrInternal, err)
	}
	return nil
}

// checkCustomerOrOwner пропускает клиента записи и владельца бизнеса
func (s *Service) checkCustomerOrOwner(ctx context.Context, appt *domain.Appointment, userID int64) error {
	if appt.CustomerID == userID {
		return nil
	}
	return s.checkOwner(ctx, appt.BusinessID, userID)
}

// checkOwner проверяет, что пользователь является владельцем бизнеса
func (s *Service) checkOwner(ctx context.Context, businessID int64, userID int64) error {
	business, err := s.catalog.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, catalog.ErrBusinessNotFound) {
			s.logger.Warn("checkOwner: business id=%d not found", businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("checkOwner: failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: checkOwner - failed to get business: %v", ErrInternal, err)
	}

	if !business.IsOwnedBy(userID) {
		s.logger.Warn("checkOwner: user=%d is not the owner of business=%d", userID, businessID)
		return ErrAccessDenied
	}
	return nil
}
