package maintenance

import (
	"context"
	"time"

	"github.com/m04kA/Arena-BookingService/internal/domain"
)

// MaintenanceRepository интерфейс репозитория блокировок
type MaintenanceRepository interface {
	Create(ctx context.Context, block *domain.MaintenanceBlock) (*domain.MaintenanceBlock, error)
	GetByID(ctx context.Context, id int64) (*domain.MaintenanceBlock, error)
	Delete(ctx context.Context, id int64) error
	ListByCourt(ctx context.Context, courtID int64, from time.Time) ([]*domain.MaintenanceBlock, error)
}

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ListActiveOverlappingByCourt(ctx context.Context, courtID int64, interval domain.TimeRange) ([]*domain.Reservation, error)
}

// SlotsCache интерфейс кеша сеток слотов
type SlotsCache interface {
	Invalidate(ctx context.Context, courtID int64, date time.Time)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
