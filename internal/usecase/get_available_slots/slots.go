package get_available_slots

import (
	"time"

	"github.com/m04kA/Arena-BookingService/internal/domain"
)

// generateGrid строит фиксированную сетку 30-минутных слотов на день:
// с 06:00 до 22:00, последний слот начинается в 21:30
func generateGrid(date time.Time) []domain.Slot {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(),
		domain.SlotGridStartHour, 0, 0, 0, date.Location())
	dayEnd := time.Date(date.Year(), date.Month(), date.Day(),
		domain.SlotGridEndHour, 0, 0, 0, date.Location())

	step := domain.SlotDurationMinutes * time.Minute

	slots := make([]domain.Slot, 0, int(dayEnd.Sub(dayStart)/step))
	for start := dayStart; start.Before(dayEnd); start = start.Add(step) {
		slots = append(slots, domain.Slot{
			Start:     start,
			End:       start.Add(step),
			Available: true,
		})
	}

	return slots
}

// markConflicts помечает слоты, пересекающиеся с бронированиями и
// блокировками. Бронирования проверяются первыми: при двойном конфликте
// слот получает причину Booked.
func markConflicts(slots []domain.Slot, reservations []*domain.Reservation, blocks []*domain.MaintenanceBlock) {
	for i := range slots {
		interval := slots[i].Interval()

		for _, res := range reservations {
			if interval.Overlaps(res.Interval()) {
				slots[i].Available = false
				slots[i].Reason = domain.SlotReasonBooked
				break
			}
		}
		if !slots[i].Available {
			continue
		}

		for _, block := range blocks {
			if interval.Overlaps(block.Interval()) {
				slots[i].Available = false
				slots[i].Reason = domain.SlotReasonMaintenance
				break
			}
		}
	}
}
