package domain

import (
	"time"

	"github.com/m04kA/Arena-BookingService/pkg/types"
)

// Coach represents a coach that can be attached to a reservation
type Coach struct {
	ID             int64
	FacilityID     int64
	Name           string
	Price          float64
	Available      bool
	Specialization *string
}

// CoachUnavailability запись о недоступности тренера на дату.
// Если StartTime/EndTime не заданы, тренер недоступен весь день,
// иначе — только в указанном интервале времени суток.
type CoachUnavailability struct {
	ID        int64
	CoachID   int64
	Date      time.Time // только дата, время обнулено
	StartTime types.TimeString
	EndTime   types.TimeString
	Reason    *string
}

// IsAllDay возвращает true, если недоступность покрывает весь день
func (u *CoachUnavailability) IsAllDay() bool {
	return u.StartTime.IsZero() || u.EndTime.IsZero()
}

// Blocks reports whether the unavailability record conflicts with the
// given reservation interval. The record's date must match the interval's
// start date; a sub-range blocks only if the time-of-day windows overlap
// (half-open, same disjointness rule as reservations).
func (u *CoachUnavailability) Blocks(interval TimeRange) bool {
	if !interval.SameDay(u.Date) {
		return false
	}
	if u.IsAllDay() {
		return true
	}

	blockStart, err := u.StartTime.Minutes()
	if err != nil {
		return true // некорректная запись трактуется как блокирующая
	}
	blockEnd, err := u.EndTime.Minutes()
	if err != nil {
		return true
	}

	qStart := interval.Start.Hour()*60 + interval.Start.Minute()
	qEnd := qStart + int(interval.Duration().Minutes())

	return qStart < blockEnd && blockStart < qEnd
}
