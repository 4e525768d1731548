package domain

import "time"

// ReservationStatus represents the lifecycle status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
	StatusNoShow    ReservationStatus = "no_show"
	StatusFailed    ReservationStatus = "failed"
)

// PaymentStatus represents the payment state of a reservation
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// PriceBreakdown itemized price of a reservation.
// Computed once at creation time and never mutated afterwards;
// cancellation changes only Status/PaymentStatus, not the breakdown.
type PriceBreakdown struct {
	Base          float64
	EquipmentCost float64
	CoachCost     float64
	Total         float64
}

// Reservation represents a court booking for a half-open time interval
type Reservation struct {
	ID         int64
	Reference  string // уникальный человекочитаемый номер бронирования ("BK...")
	UserID     int64
	FacilityID int64
	CourtID    int64
	StartTime  time.Time
	EndTime    time.Time
	CoachID    *int64

	Status        ReservationStatus
	PaymentStatus PaymentStatus
	PaymentMethod string
	Price         PriceBreakdown
	Equipment     []EquipmentLine

	// IdempotencyKey опциональный клиентский ключ идемпотентности:
	// повторная отправка запроса с тем же ключом возвращает исходное бронирование
	IdempotencyKey *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the reservation's [start, end) interval
func (r *Reservation) Interval() TimeRange {
	return TimeRange{Start: r.StartTime, End: r.EndTime}
}

// IsActive returns true if the reservation currently holds its resources
// (court, coach, equipment)
func (r *Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// IsTerminal returns true if no regular transition out of the status exists
func (r *Reservation) IsTerminal() bool {
	switch r.Status {
	case StatusCancelled, StatusCompleted, StatusNoShow, StatusFailed:
		return true
	}
	return false
}

// CanBeCancelled returns true if the reservation can go through the
// cancellation/refund path
func (r *Reservation) CanBeCancelled() bool {
	return r.IsActive()
}

// IsValidStatus проверяет, что строка является допустимым статусом бронирования
func IsValidStatus(s string) bool {
	switch ReservationStatus(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow, StatusFailed:
		return true
	}
	return false
}
