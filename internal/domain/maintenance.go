package domain

import "time"

// MaintenanceBlock блокировка корта на интервал времени (ремонт, уборка и т.п.).
// Блок нельзя создать поверх активного бронирования, и бронирование нельзя
// создать поверх блока — та же проверка пересечения полузакрытых интервалов.
type MaintenanceBlock struct {
	ID         int64
	FacilityID *int64
	CourtID    int64
	StartTime  time.Time
	EndTime    time.Time
	Reason     string
	CreatedBy  int64
	CreatedAt  time.Time
}

// Interval returns the block's [start, end) interval
func (b *MaintenanceBlock) Interval() TimeRange {
	return TimeRange{Start: b.StartTime, End: b.EndTime}
}
