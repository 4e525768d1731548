package cancel_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/Arena-BookingService/internal/domain"
	"github.com/m04kA/Arena-BookingService/internal/infra/events"
	reservationRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/reservation"
	"github.com/m04kA/Arena-BookingService/internal/integrations/paygateway"
)

// UseCase use case отмены бронирования с расчетом возврата
type UseCase struct {
	reservationRepo ReservationRepository
	equipmentRepo   EquipmentRepository
	profileRepo     ProfileRepository
	gateway         PaymentGateway
	txManager       TransactionManager
	eventPublisher  EventPublisher
	slotsCache      SlotsCache
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// eventPublisher и slotsCache опциональны (nil, если выключены конфигом).
func NewUseCase(
	reservationRepo ReservationRepository,
	equipmentRepo EquipmentRepository,
	profileRepo ProfileRepository,
	gateway PaymentGateway,
	txManager TransactionManager,
	eventPublisher EventPublisher,
	slotsCache SlotsCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		equipmentRepo:   equipmentRepo,
		profileRepo:     profileRepo,
		gateway:         gateway,
		txManager:       txManager,
		eventPublisher:  eventPublisher,
		slotsCache:      slotsCache,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет отмену бронирования.
// Смена статуса, возврат инвентаря на склад, пометка платежа и откат
// агрегатов профиля выполняются в одной транзакции: либо все, либо ничего.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelReservation: reservation=%d, requester=%d, admin=%v",
		req.ReservationID, req.RequesterID, req.IsAdmin)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelReservation: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var (
		reservation *domain.Reservation
		percent     int
		amount      float64
	)

	// 2. Атомарная отмена в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Читаем бронирование с блокировкой строки
		res, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				uc.logger.Warn("CancelReservation: reservation id=%d not found", req.ReservationID)
				return ErrReservationNotFound
			}
			uc.logger.Error("CancelReservation: failed to fetch reservation id=%d: %v", req.ReservationID, err)
			return fmt.Errorf("%w: fetch reservation: %v", ErrInternal, err)
		}

		// 2.2. Отменить чужое бронирование может только администратор
		if res.UserID != req.RequesterID && !req.IsAdmin {
			uc.logger.Warn("CancelReservation: access denied for user=%d to reservation id=%d",
				req.RequesterID, req.ReservationID)
			return ErrAccessDenied
		}

		// 2.3. Терминальные статусы отмене не подлежат
		if !res.CanBeCancelled() {
			uc.logger.Warn("CancelReservation: reservation id=%d is in terminal status=%s",
				req.ReservationID, res.Status)
			return ErrAlreadyCancelled
		}

		// 2.4. Возврат по времени до начала брони
		percent = refundPercentage(res.Interval().HoursUntilStart(now))
		if res.PaymentStatus == domain.PaymentPaid {
			amount = refundAmount(res.Price.Total, percent)
		}

		// 2.5. Возвращаем инвентарь на склад
		for _, line := range res.Equipment {
			if err := uc.equipmentRepo.ReleaseStock(txCtx, line.EquipmentID, line.Quantity); err != nil {
				uc.logger.Error("CancelReservation: failed to release stock for equipment id=%d: %v",
					line.EquipmentID, err)
				return fmt.Errorf("%w: release stock: %v", ErrInternal, err)
			}
		}

		// 2.6. Возврат средств, если платеж был проведен
		newPaymentStatus := res.PaymentStatus
		if res.PaymentStatus == domain.PaymentPaid {
			if amount > 0 {
				if _, err := uc.gateway.Refund(txCtx, paygateway.RefundRequest{
					Reference: res.Reference,
					UserID:    res.UserID,
					Amount:    amount,
				}); err != nil {
					uc.logger.Error("CancelReservation: refund failed for reservation id=%d: %v", res.ID, err)
					return fmt.Errorf("%w: refund: %v", ErrInternal, err)
				}
			}
			newPaymentStatus = domain.PaymentRefunded
		}

		// 2.7. Смена статуса и метаданные отмены
		if err := uc.reservationRepo.Cancel(txCtx, res.ID, req.Reason, newPaymentStatus); err != nil {
			uc.logger.Error("CancelReservation: failed to cancel reservation id=%d: %v", res.ID, err)
			return fmt.Errorf("%w: cancel reservation: %v", ErrInternal, err)
		}

		// 2.8. Откат агрегатов профиля: вычитается исходная полная
		// стоимость брони, а не сумма возврата
		if err := uc.profileRepo.RecordCancellation(txCtx, res.UserID, res.Price.Total); err != nil {
			uc.logger.Error("CancelReservation: failed to update user profile: %v", err)
			return fmt.Errorf("%w: update user profile: %v", ErrInternal, err)
		}

		res.Status = domain.StatusCancelled
		res.PaymentStatus = newPaymentStatus
		reservation = res
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CancelReservation: cancelled reservation id=%d, refund %d%% (%.2f)",
		reservation.ID, percent, amount)

	// 3. Пост-коммит: событие и сброс кеша слотов.
	// Сбои здесь только логируются — отмена уже зафиксирована.
	uc.notify(ctx, reservation, percent, amount)

	return &Response{
		ReservationID:    reservation.ID,
		Reference:        reservation.Reference,
		Status:           string(reservation.Status),
		PaymentStatus:    string(reservation.PaymentStatus),
		RefundPercentage: percent,
		RefundAmount:     amount,
		CancelledAt:      now,
	}, nil
}

func (uc *UseCase) notify(ctx context.Context, res *domain.Reservation, percent int, amount float64) {
	if uc.eventPublisher != nil {
		event := events.ReservationCancelled{
			ReservationID: res.ID,
			Reference:     res.Reference,
			UserID:        res.UserID,
			CourtID:       res.CourtID,
			RefundPercent: percent,
			RefundAmount:  amount,
			OccurredAt:    uc.timeProvider.Now(),
		}
		if err := uc.eventPublisher.PublishReservationCancelled(ctx, event); err != nil {
			uc.logger.Warn("CancelReservation: failed to publish event for reservation id=%d: %v", res.ID, err)
		}
	}

	if uc.slotsCache != nil {
		uc.slotsCache.Invalidate(ctx, res.CourtID, res.StartTime)
	}
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}

	if req.RequesterID <= 0 {
		return fmt.Errorf("%w: requesterID must be positive", ErrInvalidInput)
	}

	if len(req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	return nil
}
