package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/Arena-BookingService/internal/domain"
	reservationRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/reservation"
	"github.com/m04kA/Arena-BookingService/internal/service/reservations/models"
)

// Service сервис чтения бронирований и административных операций
type Service struct {
	reservationRepo ReservationRepository
	auditRepo       AuditRepository
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	auditRepo AuditRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		auditRepo:       auditRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// GetByID получает бронирование по ID.
// Пользователь видит только свои бронирования, администратор — любые.
func (s *Service) GetByID(ctx context.Context, id int64, requesterID int64, isAdmin bool) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, requesterID)

	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if res.UserID != requesterID && !isAdmin {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", requesterID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainReservation(res), nil
}

// GetUserReservations получает историю бронирований пользователя.
// Опционально фильтрует по статусу.
func (s *Service) GetUserReservations(ctx context.Context, req *models.GetUserReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetUserReservations: fetching reservations for user=%d, status=%v", req.UserID, req.Status)

	var status *domain.ReservationStatus
	if req.Status != nil {
		if !domain.IsValidStatus(*req.Status) {
			s.logger.Warn("GetUserReservations: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		st := domain.ReservationStatus(*req.Status)
		status = &st
	}

	list, err := s.reservationRepo.GetByUserID(ctx, req.UserID, status)
	if err != nil {
		s.logger.Error("GetUserReservations: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserReservations: fetched %d reservations for user=%d", len(list), req.UserID)
	return models.FromDomainReservationList(list), nil
}

// OverrideStatus административная смена статуса в обход обычного
// жизненного цикла и refund-математики (включая выход из терминальных
// статусов). Смена статуса и запись в журнал атомарны.
func (s *Service) OverrideStatus(ctx context.Context, reservationID int64, req *models.OverrideStatusRequest) (*models.OverrideStatusResponse, error) {
	s.logger.Info("OverrideStatus: reservation=%d, actor=%d, status=%s",
		reservationID, req.ActorID, req.Status)

	if !domain.IsValidStatus(req.Status) {
		s.logger.Warn("OverrideStatus: invalid status=%s", req.Status)
		return nil, ErrInvalidStatus
	}
	if req.Reason == "" {
		return nil, fmt.Errorf("%w: override reason is required", ErrInvalidInput)
	}

	var result *models.OverrideStatusResponse

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		res, err := s.reservationRepo.GetByID(txCtx, reservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				s.logger.Warn("OverrideStatus: reservation id=%d not found", reservationID)
				return ErrReservationNotFound
			}
			s.logger.Error("OverrideStatus: repository error for reservation id=%d: %v", reservationID, err)
			return fmt.Errorf("%w: OverrideStatus - repository error: %v", ErrInternal, err)
		}

		oldStatus := res.Status
		newStatus := domain.ReservationStatus(req.Status)

		if err := s.reservationRepo.UpdateStatus(txCtx, reservationID, newStatus); err != nil {
			s.logger.Error("OverrideStatus: failed to update status for reservation id=%d: %v", reservationID, err)
			return fmt.Errorf("%w: OverrideStatus - update status: %v", ErrInternal, err)
		}

		event, err := s.auditRepo.Create(txCtx, &domain.AuditEvent{
			ActorID:       req.ActorID,
			ReservationID: reservationID,
			Action:        domain.AuditActionStatusOverride,
			OldStatus:     oldStatus,
			NewStatus:     newStatus,
			Reason:        req.Reason,
		})
		if err != nil {
			s.logger.Error("OverrideStatus: failed to write audit event for reservation id=%d: %v", reservationID, err)
			return fmt.Errorf("%w: OverrideStatus - write audit event: %v", ErrInternal, err)
		}

		result = &models.OverrideStatusResponse{
			ReservationID: reservationID,
			OldStatus:     string(oldStatus),
			NewStatus:     string(newStatus),
			AuditEventID:  event.ID,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("OverrideStatus: reservation id=%d %s -> %s by actor=%d",
		reservationID, result.OldStatus, result.NewStatus, req.ActorID)
	return result, nil
}
