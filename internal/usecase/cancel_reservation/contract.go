package cancel_reservation

import (
	"context"
	"time"

	"github.com/m04kA/Arena-BookingService/internal/domain"
	"github.com/m04kA/Arena-BookingService/internal/infra/events"
	"github.com/m04kA/Arena-BookingService/internal/integrations/paygateway"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Cancel(ctx context.Context, id int64, reason string, paymentStatus domain.PaymentStatus) error
}

// EquipmentRepository интерфейс репозитория инвентаря
type EquipmentRepository interface {
	ReleaseStock(ctx context.Context, id int64, qty int) error
}

// ProfileRepository интерфейс репозитория профилей пользователей
type ProfileRepository interface {
	RecordCancellation(ctx context.Context, userID int64, amount float64) error
}

// PaymentGateway интерфейс платежного шлюза
type PaymentGateway interface {
	Refund(ctx context.Context, req paygateway.RefundRequest) (*paygateway.RefundResult, error)
}

// EventPublisher интерфейс издателя доменных событий
type EventPublisher interface {
	PublishReservationCancelled(ctx context.Context, event events.ReservationCancelled) error
}

// SlotsCache интерфейс кеша сеток слотов
type SlotsCache interface {
	Invalidate(ctx context.Context, courtID int64, date time.Time)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
