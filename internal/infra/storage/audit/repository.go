package audit

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/Arena-BookingService/internal/domain"
	"github.com/m04kA/Arena-BookingService/pkg/dbmetrics"
	"github.com/m04kA/Arena-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий журнала административных действий
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create записывает событие в журнал
func (r *Repository) Create(ctx context.Context, event *domain.AuditEvent) (*domain.AuditEvent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("audit_events").
		Columns(
			"actor_id",
			"reservation_id",
			"action",
			"old_status",
			"new_status",
			"reason",
		).
		Values(
			event.ActorID,
			event.ReservationID,
			event.Action,
			event.OldStatus,
			event.NewStatus,
			event.Reason,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return event, nil
}

// ListByReservation возвращает события журнала по бронированию
func (r *Repository) ListByReservation(ctx context.Context, reservationID int64) ([]*domain.AuditEvent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"actor_id",
		"reservation_id",
		"action",
		"old_status",
		"new_status",
		"reason",
		"created_at",
	).
		From("audit_events").
		Where(squirrel.Eq{"reservation_id": reservationID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByReservation - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByReservation - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	events := make([]*domain.AuditEvent, 0)
	for rows.Next() {
		var event domain.AuditEvent
		err := rows.Scan(
			&event.ID,
			&event.ActorID,
			&event.ReservationID,
			&event.Action,
			&event.OldStatus,
			&event.NewStatus,
			&event.Reason,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByReservation - scan row: %v", ErrScanRow, err)
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByReservation - rows error: %v", ErrScanRow, err)
	}

	return events, nil
}
