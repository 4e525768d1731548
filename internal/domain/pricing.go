package domain

import (
	"time"

	"github.com/m04kA/Arena-BookingService/pkg/types"
)

// RuleKind вид прайсинг-правила
type RuleKind string

const (
	RuleWeekend   RuleKind = "weekend"
	RulePeakHour  RuleKind = "peak_hour"
	RuleTimeBased RuleKind = "time_based"
)

// PricingRule настраиваемая корректировка цены.
// Scope (facility/court type) фильтруется ДО вызова калькулятора —
// сам калькулятор проверяет только временной предикат правила.
type PricingRule struct {
	ID         int64
	FacilityID *int64 // nil = правило действует во всех объектах
	Name       string
	Kind       RuleKind
	CourtType  *string // nil = правило действует для всех типов кортов
	StartTime  types.TimeString
	EndTime    types.TimeString
	DayOfWeek  *int // 0 = воскресенье ... 6 = суббота; только для weekend-правил
	Multiplier float64
	Surcharge  float64
	IsActive   bool
}

// AppliesAt reports whether the rule's time predicate matches the booking
// start. Scope (facility, court type) is intentionally not checked here.
func (r *PricingRule) AppliesAt(bookingStart time.Time) bool {
	switch r.Kind {
	case RuleWeekend:
		day := int(bookingStart.Weekday())
		if r.DayOfWeek != nil {
			return day == *r.DayOfWeek
		}
		return day == 0 || day == 6

	case RulePeakHour, RuleTimeBased:
		// окно обязательно для обоих видов; правило без окна не срабатывает
		if r.StartTime.IsZero() || r.EndTime.IsZero() {
			return false
		}
		startMinutes, err := r.StartTime.Minutes()
		if err != nil {
			return false
		}
		endMinutes, err := r.EndTime.Minutes()
		if err != nil {
			return false
		}
		bookingMinutes := bookingStart.Hour()*60 + bookingStart.Minute()
		return bookingMinutes >= startMinutes && bookingMinutes < endMinutes
	}
	return false
}

// apply применяет правило к цене: сначала множитель, затем надбавка
func (r *PricingRule) apply(price float64) float64 {
	multiplier := r.Multiplier
	if multiplier == 0 {
		multiplier = 1
	}
	return price*multiplier + r.Surcharge
}

// ComputeTotal pure pricing calculator.
//
// Starts from basePrice and applies matching rules cumulatively in input
// order (order matters — rules stack, there is no pick-best), then adds
// equipment line costs and the coach price. Rules must already be
// scope-filtered by the caller; inactive rules are skipped. The function
// is a deterministic function of its inputs and performs no input
// clamping — constraining inputs to valid values is the caller's job.
func ComputeTotal(
	basePrice float64,
	rules []PricingRule,
	bookingStart time.Time,
	equipment []EquipmentLine,
	coachPrice float64,
) float64 {
	price := basePrice

	for i := range rules {
		rule := &rules[i]
		if !rule.IsActive {
			continue
		}
		if rule.AppliesAt(bookingStart) {
			price = rule.apply(price)
		}
	}

	price += EquipmentCost(equipment)
	price += coachPrice

	return price
}
