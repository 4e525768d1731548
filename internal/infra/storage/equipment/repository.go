package equipment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/Arena-BookingService/internal/domain"
	"github.com/m04kA/Arena-BookingService/pkg/dbmetrics"
	"github.com/m04kA/Arena-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы со складом инвентаря
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория инвентаря
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var equipmentColumns = []string{
	"id",
	"facility_id",
	"name",
	"total_stock",
	"available_stock",
	"price_per_unit",
	"is_active",
}

// GetByID получает позицию инвентаря по ID.
// Внутри транзакции блокирует строку (FOR UPDATE).
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.EquipmentItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(equipmentColumns...).
		From("equipment").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var item domain.EquipmentItem
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&item.ID,
		&item.FacilityID,
		&item.Name,
		&item.TotalStock,
		&item.AvailableStock,
		&item.PricePerUnit,
		&item.IsActive,
	)

	if err == sql.ErrNoRows {
		return nil, ErrEquipmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan equipment: %v", ErrScanRow, err)
	}

	return &item, nil
}

// GetByIDs получает позиции инвентаря по списку ID в стабильном порядке.
// Внутри транзакции блокирует строки (FOR UPDATE); ORDER BY id дает
// одинаковый порядок взятия блокировок у конкурирующих транзакций.
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.EquipmentItem, error) {
	if len(ids) == 0 {
		return []*domain.EquipmentItem{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(equipmentColumns...).
		From("equipment").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]*domain.EquipmentItem, 0, len(ids))
	for rows.Next() {
		var item domain.EquipmentItem
		err := rows.Scan(
			&item.ID,
			&item.FacilityID,
			&item.Name,
			&item.TotalStock,
			&item.AvailableStock,
			&item.PricePerUnit,
			&item.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByIDs - scan row: %v", ErrScanRow, err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - rows error: %v", ErrScanRow, err)
	}

	return items, nil
}

// DecrementStock атомарно списывает инвентарь со склада.
// Условие available_stock >= qty входит в сам UPDATE: при нехватке
// запрос не затрагивает ни одной строки и возвращается ErrInsufficientStock —
// остаток никогда не уходит в минус.
func (r *Repository) DecrementStock(ctx context.Context, id int64, qty int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("equipment").
		Set("available_stock", squirrel.Expr("available_stock - ?", qty)).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("available_stock >= ?", qty)).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DecrementStock - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DecrementStock - execute query: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DecrementStock - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrInsufficientStock
	}

	return nil
}

// ReleaseStock возвращает инвентарь на склад при отмене бронирования.
// Условие available_stock + qty <= total_stock защищает от двойного возврата.
func (r *Repository) ReleaseStock(ctx context.Context, id int64, qty int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("equipment").
		Set("available_stock", squirrel.Expr("available_stock + ?", qty)).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("available_stock + ? <= total_stock", qty)).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReleaseStock - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ReleaseStock - execute query: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ReleaseStock - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStockOverflow
	}

	return nil
}
