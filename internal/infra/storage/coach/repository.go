package coach

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/Arena-BookingService/internal/domain"
	"github.com/m04kA/Arena-BookingService/pkg/dbmetrics"
	"github.com/m04kA/Arena-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с тренерами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория тренеров
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает тренера по ID.
// Внутри транзакции блокирует строку (FOR UPDATE).
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Coach, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"facility_id",
		"name",
		"price",
		"available",
		"specialization",
	).
		From("coaches").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var coach domain.Coach
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&coach.ID,
		&coach.FacilityID,
		&coach.Name,
		&coach.Price,
		&coach.Available,
		&coach.Specialization,
	)

	if err == sql.ErrNoRows {
		return nil, ErrCoachNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan coach: %v", ErrScanRow, err)
	}

	return &coach, nil
}

// ListUnavailability возвращает записи недоступности тренера на указанную дату
func (r *Repository) ListUnavailability(ctx context.Context, coachID int64, date time.Time) ([]*domain.CoachUnavailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"coach_id",
		"date",
		"start_time",
		"end_time",
		"reason",
	).
		From("coach_unavailability").
		Where(squirrel.Eq{
			"coach_id": coachID,
			"date":     date.Format(domain.DateFormat),
		}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListUnavailability - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListUnavailability - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	records := make([]*domain.CoachUnavailability, 0)
	for rows.Next() {
		var rec domain.CoachUnavailability
		err := rows.Scan(
			&rec.ID,
			&rec.CoachID,
			&rec.Date,
			&rec.StartTime,
			&rec.EndTime,
			&rec.Reason,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListUnavailability - scan row: %v", ErrScanRow, err)
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListUnavailability - rows error: %v", ErrScanRow, err)
	}

	return records, nil
}
