package domain

// UserProfile кэшируемый агрегат статистики пользователя.
// Обновляется в той же транзакции, что и бронирование:
// создание: TotalBookings += 1, TotalSpent += total;
// отмена:   TotalBookings -= 1, TotalSpent -= total (исходная сумма,
// не сумма возврата — TotalSpent отражает валовый расход без отмененных броней).
type UserProfile struct {
	UserID        int64
	TotalBookings int
	TotalSpent    float64
}
