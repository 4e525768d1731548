package court

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/Arena-BookingService/internal/domain"
	"github.com/m04kA/Arena-BookingService/pkg/dbmetrics"
	"github.com/m04kA/Arena-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с кортами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория кортов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает корт по ID (включая деактивированные — проверка активности
// остается за вызывающим, чтобы различать "не найден" и "неактивен").
// Внутри транзакции блокирует строку корта (FOR UPDATE) — это точка
// сериализации конкурирующих бронирований одного корта.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"facility_id",
		"name",
		"type",
		"base_price",
		"indoor",
		"is_active",
	).
		From("courts").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var court domain.Court
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&court.ID,
		&court.FacilityID,
		&court.Name,
		&court.Type,
		&court.BasePrice,
		&court.Indoor,
		&court.IsActive,
	)

	if err == sql.ErrNoRows {
		return nil, ErrCourtNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan court: %v", ErrScanRow, err)
	}

	return &court, nil
}

// ListByFacility возвращает активные корты объекта
func (r *Repository) ListByFacility(ctx context.Context, facilityID int64) ([]*domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"facility_id",
		"name",
		"type",
		"base_price",
		"indoor",
		"is_active",
	).
		From("courts").
		Where(squirrel.Eq{"facility_id": facilityID, "is_active": true}).
		OrderBy("name ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByFacility - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByFacility - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	courts := make([]*domain.Court, 0)
	for rows.Next() {
		var court domain.Court
		err := rows.Scan(
			&court.ID,
			&court.FacilityID,
			&court.Name,
			&court.Type,
			&court.BasePrice,
			&court.Indoor,
			&court.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByFacility - scan row: %v", ErrScanRow, err)
		}
		courts = append(courts, &court)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByFacility - rows error: %v", ErrScanRow, err)
	}

	return courts, nil
}
