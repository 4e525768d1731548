package cancel_reservation

import "time"

// Request модель запроса на отмену бронирования
type Request struct {
	ReservationID int64  // ID бронирования
	RequesterID   int64  // ID инициатора отмены
	IsAdmin       bool   // Администратор может отменить чужое бронирование
	Reason        string // Причина отмены
}

// Response модель ответа с результатом отмены
type Response struct {
	ReservationID    int64     `json:"reservationId"`
	Reference        string    `json:"reference"`
	Status           string    `json:"status"`
	PaymentStatus    string    `json:"paymentStatus"`
	RefundPercentage int       `json:"refundPercentage"`
	RefundAmount     float64   `json:"refundAmount"`
	CancelledAt      time.Time `json:"cancelledAt"`
}
