package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/m04kA/Arena-BookingService/internal/domain"
	"github.com/m04kA/Arena-BookingService/internal/infra/events"
	equipmentRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/equipment"
	reservationRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/reservation"
	"github.com/m04kA/Arena-BookingService/internal/integrations/paygateway"
	availabilityService "github.com/m04kA/Arena-BookingService/internal/service/availability"
	availModels "github.com/m04kA/Arena-BookingService/internal/service/availability/models"
)

// Количество повторных генераций номера при коллизии уникального индекса
const maxReferenceAttempts = 3

// UseCase use case создания бронирования
type UseCase struct {
	availability    AvailabilityService
	reservationRepo ReservationRepository
	equipmentRepo   EquipmentRepository
	pricingRepo     PricingRepository
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
	availability AvailabilityService,
	reservationRepo ReservationRepository,
	equipmentRepo EquipmentRepository,
	pricingRepo PricingRepository,
	profileRepo ProfileRepository,
	gateway PaymentGateway,
	txManager TransactionManager,
	eventPublisher EventPublisher,
	slotsCache SlotsCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		availability:    availability,
		reservationRepo: reservationRepo,
		equipmentRepo:   equipmentRepo,
		pricingRepo:     pricingRepo,
		profileRepo:     profileRepo,
		gateway:         gateway,
		txManager:       txManager,
		eventPublisher:  eventPublisher,
		slotsCache:      slotsCache,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования.
// Все проверки и записи идут в одной сериализуемой транзакции: при
// любом сбое не остается ни частичной брони, ни частичного списания
// инвентаря. Конкурирующие запросы на те же ресурсы сериализуются
// блокировками строк и повтором при serialization failure.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: user=%d, court=%d, interval=[%s, %s), coach=%v, equipment=%d items",
		req.UserID, req.CourtID,
		req.StartTime.Format(domain.TimeFormat), req.EndTime.Format(domain.TimeFormat),
		req.CoachID, len(req.Equipment))

	// 1. Валидация входных данных
	now := uc.timeProvider.Now()
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Идемпотентность: повторный запрос с тем же ключом возвращает
	// исходное бронирование без каких-либо записей
	if req.IdempotencyKey != nil {
		existing, err := uc.reservationRepo.GetByIdempotencyKey(ctx, req.UserID, *req.IdempotencyKey)
		if err != nil && !errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Error("CreateReservation: idempotency lookup failed: %v", err)
			return nil, fmt.Errorf("%w: idempotency lookup: %v", ErrInternal, err)
		}
		if existing != nil {
			uc.logger.Info("CreateReservation: replaying reservation id=%d for idempotency key", existing.ID)
			return toResponse(existing, true), nil
		}
	}

	var result *domain.Reservation

	// 3. Проверки и записи в одной сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Проверка доступности: блокирует строки корта/тренера/инвентаря,
		// поэтому между проверкой и записью никто не может вклиниться
		check, err := uc.availability.Check(txCtx, &availModels.CheckRequest{
			CourtID:   req.CourtID,
			Interval:  domain.TimeRange{Start: req.StartTime, End: req.EndTime},
			CoachID:   req.CoachID,
			Equipment: req.Equipment,
		})
		if err != nil {
			return uc.mapAvailabilityError(err)
		}
		if !check.Availability.Available {
			uc.logger.Warn("CreateReservation: unavailable, reason=%s detail=%s",
				check.Availability.Reason, check.Availability.Detail)
			return &ConflictError{Reason: check.Availability.Reason, Detail: check.Availability.Detail}
		}

		court := check.Court

		// 3.2. Активные правила ценообразования в скоупе объекта и типа корта
		rules, err := uc.pricingRepo.ListActiveForScope(txCtx, court.FacilityID, court.Type)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to list pricing rules: %v", err)
			return fmt.Errorf("%w: list pricing rules: %v", ErrInternal, err)
		}

		// 3.3. Цены инвентаря и тренера из разрешенных ресурсов
		lines := buildEquipmentLines(req.Equipment, check.Equipment)

		var coachPrice float64
		if check.Coach != nil {
			coachPrice = check.Coach.Price
		}

		// 3.4. Итоговая цена: правила кумулятивно к базовой ставке,
		// затем инвентарь, затем тренер
		ruleValues := make([]domain.PricingRule, 0, len(rules))
		for _, rule := range rules {
			ruleValues = append(ruleValues, *rule)
		}
		total := domain.ComputeTotal(court.BasePrice, ruleValues, req.StartTime, lines, coachPrice)

		// 3.5. Статус: мгновенное (симулируемое) списание для card/online,
		// cash подтверждается отдельным запросом оплаты
		status := domain.StatusPending
		paymentStatus := domain.PaymentPending

		reference := generateReference(now, rand.Int63())

		if isImmediateCapture(req.PaymentMethod) {
			_, err := uc.gateway.Charge(txCtx, paygateway.ChargeRequest{
				Reference: reference,
				UserID:    req.UserID,
				Amount:    total,
				Method:    req.PaymentMethod,
			})
			if err != nil {
				if errors.Is(err, paygateway.ErrPaymentDeclined) {
					uc.logger.Warn("CreateReservation: payment declined for user=%d method=%s", req.UserID, req.PaymentMethod)
					return ErrPaymentDeclined
				}
				uc.logger.Error("CreateReservation: payment gateway error: %v", err)
				return fmt.Errorf("%w: payment gateway: %v", ErrInternal, err)
			}
			status = domain.StatusConfirmed
			paymentStatus = domain.PaymentPaid
		}

		// 3.6. Сохраняем бронирование; при коллизии номера генерируем новый
		reservation := &domain.Reservation{
			Reference:      reference,
			UserID:         req.UserID,
			FacilityID:     court.FacilityID,
			CourtID:        court.ID,
			StartTime:      req.StartTime,
			EndTime:        req.EndTime,
			CoachID:        req.CoachID,
			Status:         status,
			PaymentStatus:  paymentStatus,
			PaymentMethod:  req.PaymentMethod,
			Equipment:      lines,
			IdempotencyKey: req.IdempotencyKey,
			Price: domain.PriceBreakdown{
				Base:          total - domain.EquipmentCost(lines) - coachPrice,
				EquipmentCost: domain.EquipmentCost(lines),
				CoachCost:     coachPrice,
				Total:         total,
			},
		}

		created, err := uc.createWithUniqueReference(txCtx, reservation)
		if err != nil {
			return err
		}

		// 3.7. Строки инвентаря и атомарное списание со склада.
		// Условие available_stock >= qty внутри UPDATE — последний рубеж
		// против oversell даже при ослабленной изоляции.
		if len(lines) > 0 {
			if err := uc.reservationRepo.AddEquipmentLines(txCtx, created.ID, lines); err != nil {
				uc.logger.Error("CreateReservation: failed to add equipment lines: %v", err)
				return fmt.Errorf("%w: add equipment lines: %v", ErrInternal, err)
			}

			for _, line := range lines {
				if err := uc.equipmentRepo.DecrementStock(txCtx, line.EquipmentID, line.Quantity); err != nil {
					if errors.Is(err, equipmentRepo.ErrInsufficientStock) {
						uc.logger.Warn("CreateReservation: stock exhausted for equipment id=%d", line.EquipmentID)
						return &ConflictError{
							Reason: domain.ReasonInsufficientStock,
							Detail: fmt.Sprintf("equipment id=%d: stock exhausted", line.EquipmentID),
						}
					}
					uc.logger.Error("CreateReservation: failed to decrement stock: %v", err)
					return fmt.Errorf("%w: decrement stock: %v", ErrInternal, err)
				}
			}
		}

		// 3.8. Агрегаты профиля пользователя
		if err := uc.profileRepo.RecordBooking(txCtx, req.UserID, total); err != nil {
			uc.logger.Error("CreateReservation: failed to update user profile: %v", err)
			return fmt.Errorf("%w: update user profile: %v", ErrInternal, err)
		}

		created.Equipment = lines
		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateReservation: created reservation id=%d reference=%s status=%s total=%.2f",
		result.ID, result.Reference, result.Status, result.Price.Total)

	// 4. Пост-коммит: событие и сброс кеша слотов.
	// Сбои здесь только логируются — бронирование уже подтверждено.
	uc.notify(ctx, result)

	return toResponse(result, false), nil
}

func (uc *UseCase) notify(ctx context.Context, res *domain.Reservation) {
	if uc.eventPublisher != nil && res.Status == domain.StatusConfirmed {
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
			uc.logger.Warn("CreateReservation: failed to publish event for reservation id=%d: %v", res.ID, err)
		}
	}

	if uc.slotsCache != nil {
		uc.slotsCache.Invalidate(ctx, res.CourtID, res.StartTime)
	}
}

// createWithUniqueReference сохраняет бронирование, перегенерируя номер
// при коллизии уникального индекса booking_reference
func (uc *UseCase) createWithUniqueReference(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		created, err := uc.reservationRepo.Create(ctx, reservation)
		if err == nil {
			return created, nil
		}

		if !errors.Is(err, reservationRepo.ErrDuplicateReference) {
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return nil, fmt.Errorf("%w: create reservation: %v", ErrInternal, err)
		}

		// Конкурент успел записать тот же ключ идемпотентности —
		// возвращаем ошибку, внешний обработчик перечитает по ключу
		if reservation.IdempotencyKey != nil {
			existing, lookupErr := uc.reservationRepo.GetByIdempotencyKey(ctx, reservation.UserID, *reservation.IdempotencyKey)
			if lookupErr == nil && existing != nil {
				return existing, nil
			}
		}

		uc.logger.Warn("CreateReservation: reference collision %q, regenerating", reservation.Reference)
		reservation.Reference = generateReference(uc.timeProvider.Now(), rand.Int63())
	}

	return nil, fmt.Errorf("%w: reference collision persists after %d attempts", ErrInternal, maxReferenceAttempts)
}

// mapAvailabilityError транслирует ошибки сервиса доступности в ошибки usecase
func (uc *UseCase) mapAvailabilityError(err error) error {
	switch {
	case errors.Is(err, availabilityService.ErrCourtNotFound):
		return ErrCourtNotFound
	case errors.Is(err, availabilityService.ErrCoachNotFound):
		return ErrCoachNotFound
	case errors.Is(err, availabilityService.ErrEquipmentNotFound):
		return ErrEquipmentNotFound
	default:
		uc.logger.Error("CreateReservation: availability check failed: %v", err)
		return fmt.Errorf("%w: availability check: %v", ErrInternal, err)
	}
}

// buildEquipmentLines собирает строки инвентаря с зафиксированными ценами
func buildEquipmentLines(requests []domain.EquipmentRequest, items []*domain.EquipmentItem) []domain.EquipmentLine {
	byID := make(map[int64]*domain.EquipmentItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	lines := make([]domain.EquipmentLine, 0, len(requests))
	for _, req := range requests {
		item, ok := byID[req.EquipmentID]
		if !ok {
			continue // недостижимо после проверки доступности
		}
		lines = append(lines, domain.EquipmentLine{
			EquipmentID:  req.EquipmentID,
			Quantity:     req.Quantity,
			PricePerUnit: item.PricePerUnit,
		})
	}

	return lines
}
