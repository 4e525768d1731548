package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/Arena-BookingService/internal/domain"
	"github.com/m04kA/Arena-BookingService/pkg/dbmetrics"
	"github.com/m04kA/Arena-BookingService/pkg/psqlbuilder"
)

// pgUniqueViolation код ошибки PostgreSQL unique_violation
const pgUniqueViolation = "23505"

var reservationColumns = []string{
	"id",
	"booking_reference",
	"user_id",
	"facility_id",
	"court_id",
	"start_time",
	"end_time",
	"coach_id",
	"status",
	"payment_status",
	"payment_method",
	"base_price",
	"equipment_cost",
	"coach_cost",
	"total_price",
	"idempotency_key",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция, использует её —
// создание бронирования всегда должно выполняться внутри транзакции
// вместе с проверкой доступности и списанием инвентаря.
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"booking_reference",
			"user_id",
			"facility_id",
			"court_id",
			"start_time",
			"end_time",
			"coach_id",
			"status",
			"payment_status",
			"payment_method",
			"base_price",
			"equipment_cost",
			"coach_cost",
			"total_price",
			"idempotency_key",
		).
		Values(
			res.Reference,
			res.UserID,
			res.FacilityID,
			res.CourtID,
			res.StartTime,
			res.EndTime,
			res.CoachID,
			res.Status,
			res.PaymentStatus,
			res.PaymentMethod,
			res.Price.Base,
			res.Price.EquipmentCost,
			res.Price.CoachCost,
			res.Price.Total,
			res.IdempotencyKey,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateReference, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// AddEquipmentLines сохраняет строки инвентаря бронирования
// (цена за единицу денормализуется на момент создания)
func (r *Repository) AddEquipmentLines(ctx context.Context, reservationID int64, lines []domain.EquipmentLine) error {
	if len(lines) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("reservation_equipment").
		Columns("reservation_id", "equipment_id", "quantity", "price_per_unit")

	for _, line := range lines {
		insertBuilder = insertBuilder.Values(reservationID, line.EquipmentID, line.Quantity, line.PricePerUnit)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddEquipmentLines - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AddEquipmentLines - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetEquipmentLines возвращает строки инвентаря бронирования
func (r *Repository) GetEquipmentLines(ctx context.Context, reservationID int64) ([]domain.EquipmentLine, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("equipment_id", "quantity", "price_per_unit").
		From("reservation_equipment").
		Where(squirrel.Eq{"reservation_id": reservationID}).
		OrderBy("equipment_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetEquipmentLines - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetEquipmentLines - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	lines := make([]domain.EquipmentLine, 0)
	for rows.Next() {
		var line domain.EquipmentLine
		if err := rows.Scan(&line.EquipmentID, &line.Quantity, &line.PricePerUnit); err != nil {
			return nil, fmt.Errorf("%w: GetEquipmentLines - scan row: %v", ErrScanRow, err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetEquipmentLines - rows error: %v", ErrScanRow, err)
	}

	return lines, nil
}

// GetByID получает бронирование по ID вместе со строками инвентаря
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id})

	// Внутри транзакции блокируем строку бронирования —
	// отмена и подтверждение оплаты конкурируют за одну запись
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := r.scanReservation(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	lines, err := r.GetEquipmentLines(ctx, id)
	if err != nil {
		return nil, err
	}
	res.Equipment = lines

	return res, nil
}

// GetByIdempotencyKey ищет бронирование пользователя по клиентскому ключу идемпотентности
func (r *Repository) GetByIdempotencyKey(ctx context.Context, userID int64, key string) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"user_id": userID, "idempotency_key": key}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByIdempotencyKey - build select query: %v", ErrBuildQuery, err)
	}

	res, err := r.scanReservation(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	lines, err := r.GetEquipmentLines(ctx, res.ID)
	if err != nil {
		return nil, err
	}
	res.Equipment = lines

	return res, nil
}

// GetByUserID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// ListActiveOverlappingByCourt возвращает активные (pending/confirmed) бронирования корта,
// пересекающиеся с интервалом [interval.Start, interval.End).
// Внутри транзакции блокирует найденные строки (FOR UPDATE) — это сериализует
// конкурирующие проверки доступности одного корта.
func (r *Repository) ListActiveOverlappingByCourt(ctx context.Context, courtID int64, interval domain.TimeRange) ([]*domain.Reservation, error) {
	return r.listActiveOverlapping(ctx, squirrel.Eq{"court_id": courtID}, interval, "ListActiveOverlappingByCourt")
}

// ListActiveOverlappingByCoach возвращает активные бронирования с участием тренера,
// пересекающиеся с интервалом (по всем кортам)
func (r *Repository) ListActiveOverlappingByCoach(ctx context.Context, coachID int64, interval domain.TimeRange) ([]*domain.Reservation, error) {
	return r.listActiveOverlapping(ctx, squirrel.Eq{"coach_id": coachID}, interval, "ListActiveOverlappingByCoach")
}

func (r *Repository) listActiveOverlapping(ctx context.Context, cond squirrel.Eq, interval domain.TimeRange, fn string) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStatuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatuses[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(cond).
		Where(squirrel.Eq{"status": activeStatuses}).
		// Тест на пересечение полузакрытых интервалов: NOT (end <= qStart OR start >= qEnd)
		Where(squirrel.Expr("NOT (end_time <= ? OR start_time >= ?)", interval.Start, interval.End)).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, fn, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, fn, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// CommittedEquipmentQuantity возвращает суммарное количество единицы инвентаря,
// удерживаемое активными бронированиями, пересекающимися с интервалом
func (r *Repository) CommittedEquipmentQuantity(ctx context.Context, equipmentID int64, interval domain.TimeRange) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStatuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatuses[i] = string(s)
	}

	query, args, err := psqlbuilder.Select("COALESCE(SUM(re.quantity), 0)").
		From("reservation_equipment re").
		Join("reservations r ON r.id = re.reservation_id").
		Where(squirrel.Eq{"re.equipment_id": equipmentID}).
		Where(squirrel.Eq{"r.status": activeStatuses}).
		Where(squirrel.Expr("NOT (r.end_time <= ? OR r.start_time >= ?)", interval.Start, interval.End)).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CommittedEquipmentQuantity - build select query: %v", ErrBuildQuery, err)
	}

	var committed int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&committed); err != nil {
		return 0, fmt.Errorf("%w: CommittedEquipmentQuantity - scan: %v", ErrScanRow, err)
	}

	return committed, nil
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "UpdateStatus")
}

// UpdatePayment обновляет платежный статус и статус бронирования одним запросом
// (используется путями подтверждения/провала оплаты и возврата)
func (r *Repository) UpdatePayment(ctx context.Context, id int64, paymentStatus domain.PaymentStatus, status domain.ReservationStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("payment_status", paymentStatus).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdatePayment - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "UpdatePayment")
}

// Cancel переводит бронирование в состояние cancelled с фиксацией причины и времени отмены
func (r *Repository) Cancel(ctx context.Context, id int64, reason string, paymentStatus domain.PaymentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusCancelled).
		Set("payment_status", paymentStatus).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Cancel")
}

func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, query string, args []interface{}, fn string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, fn, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, fn, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInto(scanner rowScanner, res *domain.Reservation) error {
	var createdAt, updatedAt sql.NullTime
	err := scanner.Scan(
		&res.ID,
		&res.Reference,
		&res.UserID,
		&res.FacilityID,
		&res.CourtID,
		&res.StartTime,
		&res.EndTime,
		&res.CoachID,
		&res.Status,
		&res.PaymentStatus,
		&res.PaymentMethod,
		&res.Price.Base,
		&res.Price.EquipmentCost,
		&res.Price.CoachCost,
		&res.Price.Total,
		&res.IdempotencyKey,
		&res.CancellationReason,
		&res.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return err
	}
	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time
	return nil
}

func (r *Repository) scanReservation(row *sql.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	err := scanInto(row, &res)
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan reservation: %v", ErrScanRow, err)
	}
	return &res, nil
}

func (r *Repository) scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		var res domain.Reservation
		if err := scanInto(rows, &res); err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}
