package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/Arena-BookingService/internal/domain"
)

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ListActiveOverlappingByCourt(ctx context.Context, courtID int64, interval domain.TimeRange) ([]*domain.Reservation, error)
}

// MaintenanceRepository интерфейс репозитория блокировок на обслуживание
type MaintenanceRepository interface {
	ListOverlappingByCourt(ctx context.Context, courtID int64, interval domain.TimeRange) ([]*domain.MaintenanceBlock, error)
}

// SlotsCache интерфейс кеша сеток слотов
type SlotsCache interface {
	Get(ctx context.Context, courtID int64, date time.Time) ([]domain.Slot, bool)
	Set(ctx context.Context, courtID int64, date time.Time, slots []domain.Slot)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
