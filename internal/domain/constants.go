package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Refund policy tiers (lead time before reservation start)
const (
	FullRefundNoticeHours    = 24 // >= 24h before start: full refund
	PartialRefundNoticeHours = 2  // >= 2h before start: partial refund

	FullRefundPercent    = 100
	PartialRefundPercent = 50
	NoRefundPercent      = 0
)

// Slot grid for the availability query
const (
	SlotGridStartHour   = 6  // first slot starts at 06:00
	SlotGridEndHour     = 22 // last slot ends at 22:00
	SlotDurationMinutes = 30
)

// ReferencePrefix префикс номера бронирования
const ReferencePrefix = "BK"

// Business validation constants
const (
	MaxReservationHours         = 4  // максимальная длительность одного бронирования
	MaxEquipmentQuantityPerLine = 50 // защита от заведомо некорректных запросов
	MaxCancellationReasonLength = 500
)

// ActiveStatuses статусы, при которых бронирование удерживает ресурсы.
// Используется во всех проверках пересечений (корт, тренер, инвентарь).
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
}

// TerminalStatuses статусы, из которых нет обычных переходов
// (только административный override)
var TerminalStatuses = []ReservationStatus{
	StatusCancelled,
	StatusCompleted,
	StatusNoShow,
	StatusFailed,
}
