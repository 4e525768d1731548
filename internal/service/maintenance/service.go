package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/Arena-BookingService/internal/domain"
	courtRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/court"
	maintenanceRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/maintenance"
	"github.com/m04kA/Arena-BookingService/internal/service/maintenance/models"
)

// Service сервис управления блокировками кортов на обслуживание
type Service struct {
	maintenanceRepo MaintenanceRepository
	courtRepo       CourtRepository
	reservationRepo ReservationRepository
	txManager       TransactionManager
	slotsCache      SlotsCache
	logger          Logger
}

// NewService создает новый экземпляр сервиса блокировок.
// slotsCache опционален (nil, если кеш выключен конфигом).
func NewService(
	maintenanceRepo MaintenanceRepository,
	courtRepo CourtRepository,
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	slotsCache SlotsCache,
	logger Logger,
) *Service {
	return &Service{
		maintenanceRepo: maintenanceRepo,
		courtRepo:       courtRepo,
		reservationRepo: reservationRepo,
		txManager:       txManager,
		slotsCache:      slotsCache,
		logger:          logger,
	}
}

// CreateBlock блокирует корт на интервал обслуживания.
// Интервал с активными бронированиями заблокировать нельзя: сначала
// бронирования должны быть отменены (с возвратами), затем ставится блок.
func (s *Service) CreateBlock(ctx context.Context, req *models.CreateBlockRequest) (*models.BlockResponse, error) {
	s.logger.Info("CreateBlock: court=%d, interval=[%s, %s), by=%d",
		req.CourtID, req.StartTime.Format(domain.TimeFormat), req.EndTime.Format(domain.TimeFormat), req.CreatedBy)

	if err := validateCreateRequest(req); err != nil {
		s.logger.Warn("CreateBlock: validation failed: %v", err)
		return nil, err
	}

	interval := domain.TimeRange{Start: req.StartTime, End: req.EndTime}

	var result *domain.MaintenanceBlock

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Корт читается с блокировкой строки: конкурирующее бронирование
		// того же корта сериализуется с созданием блока
		court, err := s.courtRepo.GetByID(txCtx, req.CourtID)
		if err != nil {
			if errors.Is(err, courtRepo.ErrCourtNotFound) {
				s.logger.Warn("CreateBlock: court id=%d not found", req.CourtID)
				return ErrCourtNotFound
			}
			s.logger.Error("CreateBlock: failed to fetch court id=%d: %v", req.CourtID, err)
			return fmt.Errorf("%w: CreateBlock - fetch court: %v", ErrInternal, err)
		}

		overlapping, err := s.reservationRepo.ListActiveOverlappingByCourt(txCtx, req.CourtID, interval)
		if err != nil {
			s.logger.Error("CreateBlock: failed to list reservations for court id=%d: %v", req.CourtID, err)
			return fmt.Errorf("%w: CreateBlock - list reservations: %v", ErrInternal, err)
		}
		if len(overlapping) > 0 {
			s.logger.Warn("CreateBlock: %d active reservations overlap requested interval on court id=%d",
				len(overlapping), req.CourtID)
			return ErrReservationsConflict
		}

		block := &domain.MaintenanceBlock{
			FacilityID: &court.FacilityID,
			CourtID:    req.CourtID,
			StartTime:  req.StartTime,
			EndTime:    req.EndTime,
			Reason:     req.Reason,
			CreatedBy:  req.CreatedBy,
		}

		created, err := s.maintenanceRepo.Create(txCtx, block)
		if err != nil {
			s.logger.Error("CreateBlock: failed to create block: %v", err)
			return fmt.Errorf("%w: CreateBlock - create block: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("CreateBlock: created block id=%d for court=%d", result.ID, result.CourtID)
	s.invalidateDays(ctx, result)

	return models.FromDomainBlock(result), nil
}

// DeleteBlock снимает блокировку корта
func (s *Service) DeleteBlock(ctx context.Context, id int64) error {
	s.logger.Info("DeleteBlock: deleting block id=%d", id)

	block, err := s.maintenanceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, maintenanceRepo.ErrBlockNotFound) {
			s.logger.Warn("DeleteBlock: block id=%d not found", id)
			return ErrBlockNotFound
		}
		s.logger.Error("DeleteBlock: failed to fetch block id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteBlock - fetch block: %v", ErrInternal, err)
	}

	if err := s.maintenanceRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, maintenanceRepo.ErrBlockNotFound) {
			return ErrBlockNotFound
		}
		s.logger.Error("DeleteBlock: failed to delete block id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteBlock - delete block: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteBlock: deleted block id=%d for court=%d", id, block.CourtID)
	s.invalidateDays(ctx, block)

	return nil
}

// ListBlocks возвращает блокировки корта начиная с указанного момента
func (s *Service) ListBlocks(ctx context.Context, req *models.ListBlocksRequest) (*models.BlockListResponse, error) {
	s.logger.Info("ListBlocks: court=%d, from=%s", req.CourtID, req.From.Format(domain.TimeFormat))

	if req.CourtID <= 0 {
		return nil, fmt.Errorf("%w: courtID must be positive", ErrInvalidInput)
	}

	blocks, err := s.maintenanceRepo.ListByCourt(ctx, req.CourtID, req.From)
	if err != nil {
		s.logger.Error("ListBlocks: repository error for court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: ListBlocks - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBlockList(blocks), nil
}

// invalidateDays сбрасывает кеш сеток на все дни, затронутые блоком
func (s *Service) invalidateDays(ctx context.Context, block *domain.MaintenanceBlock) {
	if s.slotsCache == nil {
		return
	}

	start := block.StartTime
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	for !day.After(block.EndTime) {
		s.slotsCache.Invalidate(ctx, block.CourtID, day)
		day = day.AddDate(0, 0, 1)
	}
}

// validateCreateRequest валидирует запрос на создание блокировки
func validateCreateRequest(req *models.CreateBlockRequest) error {
	if req.CourtID <= 0 {
		return fmt.Errorf("%w: courtID must be positive", ErrInvalidInput)
	}

	interval := domain.TimeRange{Start: req.StartTime, End: req.EndTime}
	if !interval.IsValid() {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	if req.Reason == "" {
		return fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}

	if req.CreatedBy <= 0 {
		return fmt.Errorf("%w: createdBy must be positive", ErrInvalidInput)
	}

	return nil
}
