package pricing

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/Arena-BookingService/internal/domain"
	"github.com/m04kA/Arena-BookingService/pkg/dbmetrics"
	"github.com/m04kA/Arena-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с правилами ценообразования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил ценообразования
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListActiveForScope возвращает активные правила, применимые к объекту и типу корта.
// Правило с facility_id = NULL действует на все объекты, с court_type = NULL —
// на все типы кортов. ORDER BY id фиксирует порядок применения правил:
// от него зависит итоговая цена при нескольких мультипликаторах.
func (r *Repository) ListActiveForScope(ctx context.Context, facilityID int64, courtType string) ([]*domain.PricingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"facility_id",
		"name",
		"kind",
		"court_type",
		"start_time",
		"end_time",
		"day_of_week",
		"multiplier",
		"surcharge",
		"is_active",
	).
		From("pricing_rules").
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.Or{
			squirrel.Eq{"facility_id": facilityID},
			squirrel.Eq{"facility_id": nil},
		}).
		Where(squirrel.Or{
			squirrel.Eq{"court_type": courtType},
			squirrel.Eq{"court_type": nil},
		}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveForScope - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveForScope - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.PricingRule, 0)
	for rows.Next() {
		var rule domain.PricingRule
		err := rows.Scan(
			&rule.ID,
			&rule.FacilityID,
			&rule.Name,
			&rule.Kind,
			&rule.CourtType,
			&rule.StartTime,
			&rule.EndTime,
			&rule.DayOfWeek,
			&rule.Multiplier,
			&rule.Surcharge,
			&rule.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActiveForScope - scan row: %v", ErrScanRow, err)
		}
		rules = append(rules, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveForScope - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}
