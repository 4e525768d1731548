package cancel_reservation

import "github.com/m04kA/Arena-BookingService/internal/domain"

// refundPercentage возвращает процент возврата по времени до начала брони.
// Единая каноническая таблица: >= 24ч — полный возврат, >= 2ч — половина,
// меньше — без возврата.
func refundPercentage(hoursUntilStart float64) int {
	switch {
	case hoursUntilStart >= domain.FullRefundNoticeHours:
		return domain.FullRefundPercent
	case hoursUntilStart >= domain.PartialRefundNoticeHours:
		return domain.PartialRefundPercent
	default:
		return domain.NoRefundPercent
	}
}

// refundAmount вычисляет сумму возврата от полной цены бронирования
func refundAmount(total float64, percent int) float64 {
	return total * float64(percent) / 100
}
