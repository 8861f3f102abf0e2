package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const table = "business_booking_policy"

var columns = []string{
	"id",
	"business_id",
	"service_id",
	"max_advance_days",
	"max_daily_bookings",
	"slot_step_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий переопределений политики бронирования бизнеса
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория политик
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает переопределение
func (r *Repository) Create(ctx context.Context, p *domain.BookingPolicy) (*domain.BookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("business_id", "service_id", "max_advance_days", "max_daily_bookings", "slot_step_minutes").
		Values(p.BusinessID, p.ServiceID, p.MaxAdvanceDays, p.MaxDailyBookings, p.SlotStepMinutes).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return p, nil
}

// Get получает переопределение для бизнеса и услуги.
// serviceID == nil ищет переопределение на весь бизнес (service_id IS NULL).
func (r *Repository) Get(ctx context.Context, businessID int64, serviceID *int64) (*domain.BookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"business_id": businessID})

	if serviceID == nil {
		builder = builder.Where(squirrel.Eq{"service_id": nil})
	} else {
		builder = builder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	p, err := scanPolicy(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan policy: %w", ErrScanRow, err)
	}

	return p, nil
}

// GetHierarchy возвращает переопределения в порядке приоритета:
// 1. Услуга в бизнесе (business_id, service_id)
// 2. Весь бизнес (business_id, NULL)
// Отсутствующие уровни пропускаются, пустой результат не ошибка.
func (r *Repository) GetHierarchy(ctx context.Context, businessID int64, serviceID *int64) ([]*domain.BookingPolicy, error) {
	policies := make([]*domain.BookingPolicy, 0, 2)

	if serviceID != nil {
		p, err := r.Get(ctx, businessID, serviceID)
		switch {
		case err == nil:
			policies = append(policies, p)
		case !errors.Is(err, ErrPolicyNotFound):
			return nil, fmt.Errorf("%w: GetHierarchy - level 1 (service): %w", ErrExecQuery, err)
		}
	}

	p, err := r.Get(ctx, businessID, nil)
	switch {
	case err == nil:
		policies = append(policies, p)
	case !errors.Is(err, ErrPolicyNotFound):
		return nil, fmt.Errorf("%w: GetHierarchy - level 2 (business): %w", ErrExecQuery, err)
	}

	return policies, nil
}

// ListByBusiness все переопределения бизнеса, общее первым
func (r *Repository) ListByBusiness(ctx context.Context, businessID int64) ([]*domain.BookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("service_id ASC NULLS FIRST").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBusiness - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBusiness - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	policies := make([]*domain.BookingPolicy, 0)
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByBusiness - scan row: %w", ErrScanRow, err)
		}
		policies = append(policies, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBusiness - rows error: %w", ErrScanRow, err)
	}

	return policies, nil
}

// Update сохраняет значения переопределения
func (r *Repository) Update(ctx context.Context, p *domain.BookingPolicy) (*domain.BookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("max_advance_days", p.MaxAdvanceDays).
		Set("max_daily_bookings", p.MaxDailyBookings).
		Set("slot_step_minutes", p.SlotStepMinutes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": p.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return p, nil
}

// Delete удаляет переопределение
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrPolicyNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPolicy(row rowScanner) (*domain.BookingPolicy, error) {
	var (
		p                    domain.BookingPolicy
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&p.ID,
		&p.BusinessID,
		&p.ServiceID,
		&p.MaxAdvanceDays,
		&p.MaxDailyBookings,
		&p.SlotStepMinutes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}
