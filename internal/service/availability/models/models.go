package models

import "github.com/m04kA/Arena-BookingService/internal/domain"

// CheckRequest запрос на проверку доступности ресурсов
type CheckRequest struct {
	CourtID   int64
	Interval  domain.TimeRange
	CoachID   *int64
	Equipment []domain.EquipmentRequest
}

// CheckResult результат проверки доступности.
// Помимо вердикта содержит разрешенные ресурсы — они уже прочитаны
// (и внутри транзакции заблокированы), вызывающему не нужно ходить
// в хранилище повторно.
type CheckResult struct {
	Availability domain.AvailabilityResult
	Court        *domain.Court
	Coach        *domain.Coach
	Equipment    []*domain.EquipmentItem
}
