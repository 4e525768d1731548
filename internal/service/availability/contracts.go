package availability

import (
	"context"
	"time"

	"github.com/m04kA/Arena-BookingService/internal/domain"
)

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
}

// CoachRepository интерфейс репозитория тренеров
type CoachRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Coach, error)
	ListUnavailability(ctx context.Context, coachID int64, date time.Time) ([]*domain.CoachUnavailability, error)
}

// EquipmentRepository интерфейс репозитория инвентаря
type EquipmentRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.EquipmentItem, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ListActiveOverlappingByCourt(ctx context.Context, courtID int64, interval domain.TimeRange) ([]*domain.Reservation, error)
	ListActiveOverlappingByCoach(ctx context.Context, coachID int64, interval domain.TimeRange) ([]*domain.Reservation, error)
	CommittedEquipmentQuantity(ctx context.Context, equipmentID int64, interval domain.TimeRange) (int, error)
}

// MaintenanceRepository интерфейс репозитория блокировок на обслуживание
type MaintenanceRepository interface {
	ListOverlappingByCourt(ctx context.Context, courtID int64, interval domain.TimeRange) ([]*domain.MaintenanceBlock, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
