package process_payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/Arena-BookingService/internal/domain"
	"github.com/m04kA/Arena-BookingService/internal/infra/events"
	reservationRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/reservation"
	"github.com/m04kA/Arena-BookingService/internal/integrations/paygateway"
)

// UseCase use case проведения отложенной оплаты бронирования
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

// Execute проводит оплату бронирования со статусом pending.
// Успех: платеж paid, бронирование confirmed. Отказ шлюза: бронирование
// failed, инвентарь возвращается на склад, агрегаты профиля откатываются —
// все в одной транзакции с самой сменой статуса.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ProcessPayment: reservation=%d, requester=%d, method=%s",
		req.ReservationID, req.RequesterID, req.Method)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ProcessPayment: validation failed: %v", err)
		return nil, err
	}

	var (
		reservation *domain.Reservation
		declined    bool
	)

	// 2. Атомарная обработка платежа
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Читаем бронирование с блокировкой строки
		res, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				uc.logger.Warn("ProcessPayment: reservation id=%d not found", req.ReservationID)
				return ErrReservationNotFound
			}
			uc.logger.Error("ProcessPayment: failed to fetch reservation id=%d: %v", req.ReservationID, err)
			return fmt.Errorf("%w: fetch reservation: %v", ErrInternal, err)
		}

		// 2.2. Оплатить чужое бронирование может только администратор
		if res.UserID != req.RequesterID && !req.IsAdmin {
			uc.logger.Warn("ProcessPayment: access denied for user=%d to reservation id=%d",
				req.RequesterID, req.ReservationID)
			return ErrAccessDenied
		}

		// 2.3. Оплате подлежит только pending-бронирование с неоплаченным платежом
		if res.Status != domain.StatusPending || res.PaymentStatus != domain.PaymentPending {
			uc.logger.Warn("ProcessPayment: reservation id=%d not payable, status=%s payment=%s",
				res.ID, res.Status, res.PaymentStatus)
			return ErrNotPayable
		}

		// 2.4. Списание через шлюз
		_, chargeErr := uc.gateway.Charge(txCtx, paygateway.ChargeRequest{
			Reference: res.Reference,
			UserID:    res.UserID,
			Amount:    res.Price.Total,
			Method:    req.Method,
		})

		if chargeErr != nil {
			if !errors.Is(chargeErr, paygateway.ErrPaymentDeclined) {
				uc.logger.Error("ProcessPayment: gateway error for reservation id=%d: %v", res.ID, chargeErr)
				return fmt.Errorf("%w: payment gateway: %v", ErrInternal, chargeErr)
			}

			// 2.5. Отказ: бронирование падает в failed, ресурсы освобождаются
			uc.logger.Warn("ProcessPayment: payment declined for reservation id=%d", res.ID)

			for _, line := range res.Equipment {
				if err := uc.equipmentRepo.ReleaseStock(txCtx, line.EquipmentID, line.Quantity); err != nil {
					uc.logger.Error("ProcessPayment: failed to release stock for equipment id=%d: %v",
						line.EquipmentID, err)
					return fmt.Errorf("%w: release stock: %v", ErrInternal, err)
				}
			}

			if err := uc.reservationRepo.UpdatePayment(txCtx, res.ID, domain.PaymentFailed, domain.StatusFailed); err != nil {
				uc.logger.Error("ProcessPayment: failed to mark reservation id=%d failed: %v", res.ID, err)
				return fmt.Errorf("%w: update payment: %v", ErrInternal, err)
			}

			if err := uc.profileRepo.RecordCancellation(txCtx, res.UserID, res.Price.Total); err != nil {
				uc.logger.Error("ProcessPayment: failed to update user profile: %v", err)
				return fmt.Errorf("%w: update user profile: %v", ErrInternal, err)
			}

			res.Status = domain.StatusFailed
			res.PaymentStatus = domain.PaymentFailed
			reservation = res
			declined = true
			return nil
		}

		// 2.6. Успех: платеж проведен, бронирование подтверждено
		if err := uc.reservationRepo.UpdatePayment(txCtx, res.ID, domain.PaymentPaid, domain.StatusConfirmed); err != nil {
			uc.logger.Error("ProcessPayment: failed to confirm reservation id=%d: %v", res.ID, err)
			return fmt.Errorf("%w: update payment: %v", ErrInternal, err)
		}

		res.Status = domain.StatusConfirmed
		res.PaymentStatus = domain.PaymentPaid
		reservation = res
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 3. Пост-коммит: событие и сброс кеша слотов
	uc.notify(ctx, reservation, declined)

	if declined {
		return nil, ErrPaymentDeclined
	}

	uc.logger.Info("ProcessPayment: confirmed reservation id=%d, charged %.2f",
		reservation.ID, reservation.Price.Total)

	return &Response{
		ReservationID: reservation.ID,
		Reference:     reservation.Reference,
		Status:        string(reservation.Status),
		PaymentStatus: string(reservation.PaymentStatus),
		AmountCharged: reservation.Price.Total,
	}, nil
}

func (uc *UseCase) notify(ctx context.Context, res *domain.Reservation, declined bool) {
	if uc.eventPublisher != nil && !declined {
		event := events.ReservationConfirmed{
			ReservationID: res.ID,
			Reference:     res.Reference,
			UserID:        res.UserID,
			CourtID:       res.CourtID,
			StartTime:     res.StartTime,
			EndTime:       res.EndTime,
			TotalPrice:    res.Price.Total,
			OccurredAt:    uc.timeProvider.Now(),
		}
		if err := uc.eventPublisher.PublishReservationConfirmed(ctx, event); err != nil {
			uc.logger.Warn("ProcessPayment: failed to publish event for reservation id=%d: %v", res.ID, err)
		}
	}

	// Отказ освобождает слот — кеш сетки обязан сброситься
	if uc.slotsCache != nil && declined {
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

	if !paygateway.IsSupportedMethod(req.Method) {
		return fmt.Errorf("%w: unsupported payment method %q", ErrInvalidInput, req.Method)
	}

	return nil
}
