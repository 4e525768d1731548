package domain

// ConflictReason стабильный машиночитаемый код причины недоступности.
// Порядок объявления соответствует порядку проверок: при нескольких
// конфликтах возвращается первый по этому порядку.
type ConflictReason string

const (
	ReasonResourceInactive    ConflictReason = "ResourceInactive"
	ReasonCourtConflict       ConflictReason = "CourtConflict"
	ReasonMaintenanceConflict ConflictReason = "MaintenanceConflict"
	ReasonCoachConflict       ConflictReason = "CoachConflict"
	ReasonCoachUnavailable    ConflictReason = "CoachUnavailable"
	ReasonInsufficientStock   ConflictReason = "InsufficientStock"
)

// AvailabilityResult результат проверки доступности ресурсов
type AvailabilityResult struct {
	Available bool
	Reason    ConflictReason // заполнен только при Available == false
	Detail    string         // человекочитаемое уточнение (какой инвентарь и т.п.)
}

// Unavailable создает отрицательный результат проверки
func Unavailable(reason ConflictReason, detail string) AvailabilityResult {
	return AvailabilityResult{Available: false, Reason: reason, Detail: detail}
}

// Available положительный результат проверки
func Available() AvailabilityResult {
	return AvailabilityResult{Available: true}
}
