package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/Arena-BookingService/internal/domain"
	courtRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/court"
	"github.com/m04kA/Arena-BookingService/pkg/types"
)

// UseCase use case получения сетки доступных слотов корта
type UseCase struct {
	courtRepo       CourtRepository
	reservationRepo ReservationRepository
	maintenanceRepo MaintenanceRepository
	slotsCache      SlotsCache
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// slotsCache опционален (nil, если кеш выключен конфигом).
func NewUseCase(
	courtRepo CourtRepository,
	reservationRepo ReservationRepository,
	maintenanceRepo MaintenanceRepository,
	slotsCache SlotsCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		courtRepo:       courtRepo,
		reservationRepo: reservationRepo,
		maintenanceRepo: maintenanceRepo,
		slotsCache:      slotsCache,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute возвращает сетку 30-минутных слотов корта на дату с пометками
// занятости. Сетка кешируется на короткий TTL; записи бронирований и
// блокировок инвалидируют кеш.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: court=%d, date=%s", req.CourtID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Корт должен существовать и быть активным
	court, err := uc.courtRepo.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			uc.logger.Warn("GetAvailableSlots: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to fetch court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: fetch court: %v", ErrInternal, err)
	}
	if !court.IsActive {
		uc.logger.Warn("GetAvailableSlots: court id=%d is not active", req.CourtID)
		return nil, ErrCourtNotFound
	}

	// 3. Кеш: при попадании отдаем сетку без похода в БД
	if uc.slotsCache != nil {
		if cached, ok := uc.slotsCache.Get(ctx, req.CourtID, req.Date); ok {
			uc.logger.Info("GetAvailableSlots: cache hit for court=%d date=%s",
				req.CourtID, req.Date.Format(domain.DateFormat))
			return toResponse(req, cached), nil
		}
	}

	// 4. Генерируем сетку и помечаем конфликты
	slots := generateGrid(req.Date)

	dayInterval := domain.TimeRange{
		Start: slots[0].Start,
		End:   slots[len(slots)-1].End,
	}

	reservations, err := uc.reservationRepo.ListActiveOverlappingByCourt(ctx, req.CourtID, dayInterval)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list reservations: %v", err)
		return nil, fmt.Errorf("%w: list reservations: %v", ErrInternal, err)
	}

	blocks, err := uc.maintenanceRepo.ListOverlappingByCourt(ctx, req.CourtID, dayInterval)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list maintenance blocks: %v", err)
		return nil, fmt.Errorf("%w: list maintenance blocks: %v", ErrInternal, err)
	}

	markConflicts(slots, reservations, blocks)

	// 5. Кешируем готовую сетку
	if uc.slotsCache != nil {
		uc.slotsCache.Set(ctx, req.CourtID, req.Date, slots)
	}

	uc.logger.Info("GetAvailableSlots: %d slots for court=%d date=%s (%d reservations, %d blocks)",
		len(slots), req.CourtID, req.Date.Format(domain.DateFormat), len(reservations), len(blocks))

	return toResponse(req, slots), nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CourtID <= 0 {
		return fmt.Errorf("%w: courtID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

func toResponse(req *Request, slots []domain.Slot) *Response {
	out := make([]Slot, 0, len(slots))
	for _, slot := range slots {
		out = append(out, Slot{
			StartTime: types.NewTimeString(slot.Start),
			EndTime:   types.NewTimeString(slot.End),
			Available: slot.Available,
			Reason:    string(slot.Reason),
		})
	}

	return &Response{
		CourtID: req.CourtID,
		Date:    time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, req.Date.Location()),
		Slots:   out,
	}
}
