package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/Arena-BookingService/internal/domain"
	coachRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/coach"
	courtRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/court"
	"github.com/m04kA/Arena-BookingService/internal/service/availability/models"
)

// Service сервис проверки доступности ресурсов.
// Проверки выполняются строго по порядку и обрываются на первом конфликте —
// от порядка зависит код причины в ответе при нескольких конфликтах сразу.
type Service struct {
	courtRepo       CourtRepository
	coachRepo       CoachRepository
	equipmentRepo   EquipmentRepository
	reservationRepo ReservationRepository
	maintenanceRepo MaintenanceRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	courtRepo CourtRepository,
	coachRepo CoachRepository,
	equipmentRepo EquipmentRepository,
	reservationRepo ReservationRepository,
	maintenanceRepo MaintenanceRepository,
	logger Logger,
) *Service {
	return &Service{
		courtRepo:       courtRepo,
		coachRepo:       coachRepo,
		equipmentRepo:   equipmentRepo,
		reservationRepo: reservationRepo,
		maintenanceRepo: maintenanceRepo,
		logger:          logger,
	}
}

// Check проверяет доступность корта, тренера и инвентаря на интервал.
// Вызывается внутри транзакции бронирования: чтения ресурсов блокируют
// строки, поэтому между проверкой и записью брони никто не может
// вставить конкурирующее бронирование тех же ресурсов.
func (s *Service) Check(ctx context.Context, req *models.CheckRequest) (*models.CheckResult, error) {
	// 1. Корт существует и активен
	court, err := s.courtRepo.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			s.logger.Warn("Check: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		s.logger.Error("Check: failed to fetch court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: Check - fetch court: %v", ErrInternal, err)
	}

	result := &models.CheckResult{Court: court}

	if !court.IsActive {
		result.Availability = domain.Unavailable(domain.ReasonResourceInactive, "court is not active")
		return result, nil
	}

	// 2. Пересечения с активными бронированиями корта
	courtOverlaps, err := s.reservationRepo.ListActiveOverlappingByCourt(ctx, req.CourtID, req.Interval)
	if err != nil {
		s.logger.Error("Check: failed to list court overlaps for court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: Check - list court overlaps: %v", ErrInternal, err)
	}
	if len(courtOverlaps) > 0 {
		result.Availability = domain.Unavailable(domain.ReasonCourtConflict,
			fmt.Sprintf("court is already reserved (%s)", courtOverlaps[0].Reference))
		return result, nil
	}

	// 3. Пересечения с блокировками на обслуживание
	blocks, err := s.maintenanceRepo.ListOverlappingByCourt(ctx, req.CourtID, req.Interval)
	if err != nil {
		s.logger.Error("Check: failed to list maintenance blocks for court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: Check - list maintenance blocks: %v", ErrInternal, err)
	}
	if len(blocks) > 0 {
		result.Availability = domain.Unavailable(domain.ReasonMaintenanceConflict, blocks[0].Reason)
		return result, nil
	}

	// 4. Тренер: конфликты бронирований и явная недоступность
	if req.CoachID != nil {
		coach, availability, err := s.checkCoach(ctx, *req.CoachID, req.Interval)
		if err != nil {
			return nil, err
		}
		result.Coach = coach
		if !availability.Available {
			result.Availability = availability
			return result, nil
		}
	}

	// 5. Инвентарь: эффективный остаток с учетом уже обещанного
	// другим активным броням на пересекающихся интервалах
	if len(req.Equipment) > 0 {
		items, availability, err := s.checkEquipment(ctx, req.Equipment, req.Interval)
		if err != nil {
			return nil, err
		}
		result.Equipment = items
		if !availability.Available {
			result.Availability = availability
			return result, nil
		}
	}

	result.Availability = domain.Available()
	return result, nil
}

func (s *Service) checkCoach(ctx context.Context, coachID int64, interval domain.TimeRange) (*domain.Coach, domain.AvailabilityResult, error) {
	coach, err := s.coachRepo.GetByID(ctx, coachID)
	if err != nil {
		if errors.Is(err, coachRepo.ErrCoachNotFound) {
			s.logger.Warn("checkCoach: coach id=%d not found", coachID)
			return nil, domain.AvailabilityResult{}, ErrCoachNotFound
		}
		s.logger.Error("checkCoach: failed to fetch coach id=%d: %v", coachID, err)
		return nil, domain.AvailabilityResult{}, fmt.Errorf("%w: checkCoach - fetch coach: %v", ErrInternal, err)
	}

	if !coach.Available {
		return coach, domain.Unavailable(domain.ReasonResourceInactive, "coach is not available for booking"), nil
	}

	// Бронирования тренера на любых кортах
	coachOverlaps, err := s.reservationRepo.ListActiveOverlappingByCoach(ctx, coachID, interval)
	if err != nil {
		s.logger.Error("checkCoach: failed to list coach overlaps for coach id=%d: %v", coachID, err)
		return nil, domain.AvailabilityResult{}, fmt.Errorf("%w: checkCoach - list coach overlaps: %v", ErrInternal, err)
	}
	if len(coachOverlaps) > 0 {
		return coach, domain.Unavailable(domain.ReasonCoachConflict,
			fmt.Sprintf("coach is already booked (%s)", coachOverlaps[0].Reference)), nil
	}

	// Явные записи недоступности на дату бронирования
	records, err := s.coachRepo.ListUnavailability(ctx, coachID, interval.Start)
	if err != nil {
		s.logger.Error("checkCoach: failed to list unavailability for coach id=%d: %v", coachID, err)
		return nil, domain.AvailabilityResult{}, fmt.Errorf("%w: checkCoach - list unavailability: %v", ErrInternal, err)
	}
	for _, rec := range records {
		if rec.Blocks(interval) {
			detail := "coach is unavailable on this date"
			if rec.Reason != nil {
				detail = *rec.Reason
			}
			return coach, domain.Unavailable(domain.ReasonCoachUnavailable, detail), nil
		}
	}

	return coach, domain.Available(), nil
}

func (s *Service) checkEquipment(ctx context.Context, requests []domain.EquipmentRequest, interval domain.TimeRange) ([]*domain.EquipmentItem, domain.AvailabilityResult, error) {
	ids := make([]int64, 0, len(requests))
	for _, req := range requests {
		ids = append(ids, req.EquipmentID)
	}

	items, err := s.equipmentRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("checkEquipment: failed to fetch equipment %v: %v", ids, err)
		return nil, domain.AvailabilityResult{}, fmt.Errorf("%w: checkEquipment - fetch equipment: %v", ErrInternal, err)
	}

	byID := make(map[int64]*domain.EquipmentItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	for _, req := range requests {
		item, ok := byID[req.EquipmentID]
		if !ok {
			s.logger.Warn("checkEquipment: equipment id=%d not found", req.EquipmentID)
			return nil, domain.AvailabilityResult{}, ErrEquipmentNotFound
		}

		if !item.IsActive {
			return items, domain.Unavailable(domain.ReasonResourceInactive,
				fmt.Sprintf("equipment %q is not active", item.Name)), nil
		}

		committed, err := s.reservationRepo.CommittedEquipmentQuantity(ctx, req.EquipmentID, interval)
		if err != nil {
			s.logger.Error("checkEquipment: failed to compute committed quantity for equipment id=%d: %v", req.EquipmentID, err)
			return nil, domain.AvailabilityResult{}, fmt.Errorf("%w: checkEquipment - committed quantity: %v", ErrInternal, err)
		}

		if item.AvailableStock-committed < req.Quantity {
			return items, domain.Unavailable(domain.ReasonInsufficientStock,
				fmt.Sprintf("equipment %q: requested %d, effectively available %d",
					item.Name, req.Quantity, item.AvailableStock-committed)), nil
		}
	}

	return items, domain.Available(), nil
}
