package domain

import "time"

// SlotReason причина недоступности слота в выдаче запроса доступности
type SlotReason string

const (
	SlotReasonBooked      SlotReason = "Booked"
	SlotReasonMaintenance SlotReason = "Maintenance"
)

// Slot один слот фиксированной сетки в выдаче запроса доступности
type Slot struct {
	Start     time.Time
	End       time.Time
	Available bool
	Reason    SlotReason // пусто, если слот доступен
}

// Interval returns the slot's [start, end) interval
func (s *Slot) Interval() TimeRange {
	return TimeRange{Start: s.Start, End: s.End}
}
