package domain

import "time"

// TimeRange represents a half-open time interval [Start, End)
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// IsValid returns true if the interval is well-formed (End strictly after Start)
func (r TimeRange) IsValid() bool {
	return !r.Start.IsZero() && !r.End.IsZero() && r.End.After(r.Start)
}

// Duration returns the length of the interval
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Overlaps reports whether two half-open intervals intersect:
// NOT (endA <= startB OR startA >= endB).
// Touching endpoints (endA == startB) do not count as overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Contains reports whether the instant t falls inside [Start, End)
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// HoursUntilStart возвращает количество часов от now до начала интервала
// (дробное, отрицательное если интервал уже начался)
func (r TimeRange) HoursUntilStart(now time.Time) float64 {
	return r.Start.Sub(now).Hours()
}

// SameDay возвращает true, если начало интервала приходится на тот же день, что и t
func (r TimeRange) SameDay(t time.Time) bool {
	y1, m1, d1 := r.Start.Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
