package events

import "time"

// Routing keys событий бронирования
const (
	RoutingKeyReservationConfirmed = "booking.confirmed"
	RoutingKeyReservationCancelled = "booking.cancelled"
)

// ReservationConfirmed событие успешного подтверждения бронирования
type ReservationConfirmed struct {
	ReservationID int64     `json:"reservation_id"`
	Reference     string    `json:"reference"`
	UserID        int64     `json:"user_id"`
	CourtID       int64     `json:"court_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	TotalPrice    float64   `json:"total_price"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// ReservationCancelled событие отмены бронирования
type ReservationCancelled struct {
	ReservationID int64     `json:"reservation_id"`
	Reference     string    `json:"reference"`
	UserID        int64     `json:"user_id"`
	CourtID       int64     `json:"court_id"`
	RefundPercent int       `json:"refund_percent"`
	RefundAmount  float64   `json:"refund_amount"`
	OccurredAt    time.Time `json:"occurred_at"`
}
