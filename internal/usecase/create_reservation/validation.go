package create_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/Arena-BookingService/internal/domain"
	"github.com/m04kA/Arena-BookingService/internal/integrations/paygateway"
)

// validateRequest валидирует входные данные запроса.
// Ошибки валидации отсекаются до любых обращений к хранилищу.
func validateRequest(req *Request, now time.Time) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.CourtID <= 0 {
		return fmt.Errorf("%w: courtID must be positive", ErrInvalidInput)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	interval := domain.TimeRange{Start: req.StartTime, End: req.EndTime}
	if !interval.IsValid() {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	if !req.StartTime.After(now) {
		return fmt.Errorf("%w: reservation must start in the future", ErrInvalidInput)
	}

	if interval.Duration() > domain.MaxReservationHours*time.Hour {
		return fmt.Errorf("%w: reservation cannot exceed %d hours", ErrInvalidInput, domain.MaxReservationHours)
	}

	// Сетка слотов и записи недоступности тренеров привязаны к календарной
	// дате, поэтому бронирование не может пересекать полночь
	dayEnd := time.Date(req.StartTime.Year(), req.StartTime.Month(), req.StartTime.Day(),
		0, 0, 0, 0, req.StartTime.Location()).AddDate(0, 0, 1)
	if req.EndTime.After(dayEnd) {
		return fmt.Errorf("%w: reservation must start and end on the same day", ErrInvalidInput)
	}

	if req.CoachID != nil && *req.CoachID <= 0 {
		return fmt.Errorf("%w: coachID must be positive", ErrInvalidInput)
	}

	if !paygateway.IsSupportedMethod(req.PaymentMethod) {
		return fmt.Errorf("%w: unsupported payment method %q", ErrInvalidInput, req.PaymentMethod)
	}

	if req.IdempotencyKey != nil && *req.IdempotencyKey == "" {
		return fmt.Errorf("%w: idempotency key cannot be empty", ErrInvalidInput)
	}

	return validateEquipment(req.Equipment)
}

func validateEquipment(requests []domain.EquipmentRequest) error {
	seen := make(map[int64]struct{}, len(requests))

	for _, req := range requests {
		if req.EquipmentID <= 0 {
			return fmt.Errorf("%w: equipmentID must be positive", ErrInvalidInput)
		}

		if req.Quantity <= 0 || req.Quantity > domain.MaxEquipmentQuantityPerLine {
			return fmt.Errorf("%w: equipment quantity must be between 1 and %d",
				ErrInvalidInput, domain.MaxEquipmentQuantityPerLine)
		}

		if _, dup := seen[req.EquipmentID]; dup {
			return fmt.Errorf("%w: duplicate equipment id=%d", ErrInvalidInput, req.EquipmentID)
		}
		seen[req.EquipmentID] = struct{}{}
	}

	return nil
}

// isImmediateCapture возвращает true для способов оплаты с мгновенным
// (симулируемым) списанием; cash оплачивается отдельным запросом
func isImmediateCapture(method string) bool {
	return method == paygateway.MethodCard || method == paygateway.MethodOnline
}
