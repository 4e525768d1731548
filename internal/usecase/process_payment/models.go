package process_payment

// Request модель запроса на проведение оплаты бронирования
type Request struct {
	ReservationID int64  // ID бронирования
	RequesterID   int64  // ID инициатора (владелец бронирования)
	IsAdmin       bool   // Администратор может провести оплату за пользователя
	Method        string // Способ оплаты: card / cash / online
}

// Response модель ответа с результатом оплаты
type Response struct {
	ReservationID int64   `json:"reservationId"`
	Reference     string  `json:"reference"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`
	AmountCharged float64 `json:"amountCharged"`
}
