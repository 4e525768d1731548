package profile

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/Arena-BookingService/internal/domain"
	"github.com/m04kA/Arena-BookingService/pkg/dbmetrics"
	"github.com/m04kA/Arena-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с агрегатами профиля пользователя
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория профилей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByUserID получает профиль пользователя
func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"user_id",
		"total_bookings",
		"total_spent",
	).
		From("user_profiles").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	var prof domain.UserProfile
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&prof.UserID,
		&prof.TotalBookings,
		&prof.TotalSpent,
	)

	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - scan profile: %v", ErrScanRow, err)
	}

	return &prof, nil
}

// RecordBooking увеличивает агрегаты профиля при успешном бронировании.
// Upsert: первая бронь пользователя создает профиль.
func (r *Repository) RecordBooking(ctx context.Context, userID int64, amount float64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("user_profiles").
		Columns("user_id", "total_bookings", "total_spent").
		Values(userID, 1, amount).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			total_bookings = user_profiles.total_bookings + 1,
			total_spent = user_profiles.total_spent + EXCLUDED.total_spent`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RecordBooking - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: RecordBooking - execute query: %v", ErrExecQuery, err)
	}

	return nil
}

// RecordCancellation откатывает агрегаты профиля при отмене бронирования.
// Из total_spent вычитается исходная сумма брони, а не размер возврата:
// агрегат отражает деньги, оставшиеся за активными бронями.
// GREATEST защищает от ухода в минус на исторических данных.
func (r *Repository) RecordCancellation(ctx context.Context, userID int64, amount float64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("user_profiles").
		Set("total_bookings", squirrel.Expr("GREATEST(total_bookings - 1, 0)")).
		Set("total_spent", squirrel.Expr("GREATEST(total_spent - ?, 0)", amount)).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RecordCancellation - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: RecordCancellation - execute query: %v", ErrExecQuery, err)
	}

	return nil
}
