package redemption

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

const table = "redemptions"

// Repository репозиторий наград клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория наград
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// FindActiveOwned возвращает активную награду клиента вместе с условиями скидки.
// Чужая, уже привязанная или использованная награда возвращает ErrRedemptionNotFound.
func (r *Repository) FindActiveOwned(ctx context.Context, id, customerID int64) (*domain.Redemption, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(
		"r.id",
		"r.customer_id",
		"r.status",
		"r.appointment_id",
		"r.created_at",
		"w.id",
		"w.name",
		"w.discount_type",
		"w.discount_value",
	).
		From("redemptions r").
		Join("rewards w ON w.id = r.reward_id").
		Where(squirrel.Eq{"r.id": id}).
		Where(squirrel.Eq{"r.customer_id": customerID}).
		Where(squirrel.Eq{"r.status": string(domain.RedemptionActive)})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE OF r")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveOwned - build select query: %v", ErrBuildQuery, err)
	}

	var (
		redemption domain.Redemption
		reward     domain.Reward
		createdAt  sql.NullTime
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&redemption.ID,
		&redemption.CustomerID,
		&redemption.Status,
		&redemption.AppointmentID,
		&createdAt,
		&reward.ID,
		&reward.Name,
		&reward.DiscountType,
		&reward.DiscountValue,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRedemptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveOwned - scan redemption: %w", ErrScanRow, err)
	}

	redemption.CreatedAt = createdAt.Time
	redemption.Reward = &reward

	return &redemption, nil
}

// MarkPending привязывает активную награду к записи
func (r *Repository) MarkPending(ctx context.Context, id, appointmentID int64) error {
	return r.transition(ctx, "MarkPending",
		psqlbuilder.Update(table).
			Set("status", string(domain.RedemptionPending)).
			Set("appointment_id", appointmentID).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": id}).
			Where(squirrel.Eq{"status": string(domain.RedemptionActive)}),
		true,
	)
}

// Release возвращает награду, привязанную к отменённой записи, в статус active.
// Если привязанной награды нет, ничего не делает.
func (r *Repository) Release(ctx context.Context, appointmentID int64) error {
	return r.transition(ctx, "Release",
		psqlbuilder.Update(table).
			Set("status", string(domain.RedemptionActive)).
			Set("appointment_id", nil).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"appointment_id": appointmentID}).
			Where(squirrel.Eq{"status": string(domain.RedemptionPending)}),
		false,
	)
}

// MarkUsed помечает награду завершённой записи как использованную
func (r *Repository) MarkUsed(ctx context.Context, appointmentID int64) error {
	return r.transition(ctx, "MarkUsed",
		psqlbuilder.Update(table).
			Set("status", string(domain.RedemptionUsed)).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"appointment_id": appointmentID}).
			Where(squirrel.Eq{"status": string(domain.RedemptionPending)}),
		false,
	)
}

func (r *Repository) transition(ctx context.Context, op string, builder squirrel.UpdateBuilder, mustAffect bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	if !mustAffect {
		return nil
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrNotActive
	}

	return nil
}
