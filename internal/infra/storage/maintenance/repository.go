package maintenance

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

// Repository репозиторий для работы с блокировками кортов на обслуживание
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var blockColumns = []string{
	"id",
	"facility_id",
	"court_id",
	"start_time",
	"end_time",
	"reason",
	"created_by",
	"created_at",
}

// Create создает блокировку корта на обслуживание
func (r *Repository) Create(ctx context.Context, block *domain.MaintenanceBlock) (*domain.MaintenanceBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("maintenance_blocks").
		Columns(
			"facility_id",
			"court_id",
			"start_time",
			"end_time",
			"reason",
			"created_by",
		).
		Values(
			block.FacilityID,
			block.CourtID,
			block.StartTime,
			block.EndTime,
			block.Reason,
			block.CreatedBy,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&block.ID, &block.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return block, nil
}

// GetByID получает блокировку по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.MaintenanceBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(blockColumns...).
		From("maintenance_blocks").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var block domain.MaintenanceBlock
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&block.ID,
		&block.FacilityID,
		&block.CourtID,
		&block.StartTime,
		&block.EndTime,
		&block.Reason,
		&block.CreatedBy,
		&block.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrBlockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan block: %v", ErrScanRow, err)
	}

	return &block, nil
}

// Delete удаляет блокировку
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("maintenance_blocks").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute query: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlockNotFound
	}

	return nil
}

// ListOverlappingByCourt возвращает блокировки корта, пересекающиеся с интервалом.
// Интервалы полуоткрытые: касание границ пересечением не считается.
func (r *Repository) ListOverlappingByCourt(ctx context.Context, courtID int64, interval domain.TimeRange) ([]*domain.MaintenanceBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(blockColumns...).
		From("maintenance_blocks").
		Where(squirrel.Eq{"court_id": courtID}).
		Where(squirrel.Expr("NOT (end_time <= ? OR start_time >= ?)", interval.Start, interval.End)).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlappingByCourt - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryBlocks(ctx, executor, query, args, "ListOverlappingByCourt")
}

// ListByCourt возвращает блокировки корта начиная с указанного момента
func (r *Repository) ListByCourt(ctx context.Context, courtID int64, from time.Time) ([]*domain.MaintenanceBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(blockColumns...).
		From("maintenance_blocks").
		Where(squirrel.Eq{"court_id": courtID}).
		Where(squirrel.Expr("end_time > ?", from)).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByCourt - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryBlocks(ctx, executor, query, args, "ListByCourt")
}

func (r *Repository) queryBlocks(ctx context.Context, executor DBExecutor, query string, args []interface{}, method string) ([]*domain.MaintenanceBlock, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	blocks := make([]*domain.MaintenanceBlock, 0)
	for rows.Next() {
		var block domain.MaintenanceBlock
		err := rows.Scan(
			&block.ID,
			&block.FacilityID,
			&block.CourtID,
			&block.StartTime,
			&block.EndTime,
			&block.Reason,
			&block.CreatedBy,
			&block.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}
		blocks = append(blocks, &block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return blocks, nil
}
