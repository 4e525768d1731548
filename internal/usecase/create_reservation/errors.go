package create_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/Arena-BookingService/internal/domain"
)

var (
	// ErrCourtNotFound возвращается, когда корт не найден
	ErrCourtNotFound = errors.New("create_reservation: court not found")

	// ErrCoachNotFound возвращается, когда тренер не найден
	ErrCoachNotFound = errors.New("create_reservation: coach not found")

	// ErrEquipmentNotFound возвращается, когда инвентарь не найден
	ErrEquipmentNotFound = errors.New("create_reservation: equipment not found")

	// ErrUnavailable возвращается, когда ресурсы недоступны на запрошенный интервал
	ErrUnavailable = errors.New("create_reservation: resources unavailable")

	// ErrPaymentDeclined возвращается, когда платеж отклонен шлюзом
	ErrPaymentDeclined = errors.New("create_reservation: payment declined")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)

// ConflictError несет машиночитаемый код причины недоступности.
// Разворачивается в ErrUnavailable, причина уходит клиенту как reason code.
type ConflictError struct {
	Reason domain.ConflictReason
	Detail string
}

// Error реализует интерфейс error
func (e *ConflictError) Error() string {
	return fmt.Sprintf("create_reservation: resources unavailable: %s (%s)", e.Reason, e.Detail)
}

// Unwrap позволяет errors.Is(err, ErrUnavailable)
func (e *ConflictError) Unwrap() error {
	return ErrUnavailable
}
