package paygateway

import "time"

// Поддерживаемые способы оплаты
const (
	MethodCard   = "card"
	MethodCash   = "cash"
	MethodOnline = "online"
)

// ChargeRequest запрос на списание средств
type ChargeRequest struct {
	Reference string
	UserID    int64
	Amount    float64
	Method    string
}

// ChargeResult результат списания
type ChargeResult struct {
	TransactionID string
	Amount        float64
	ProcessedAt   time.Time
}

// RefundRequest запрос на возврат средств
type RefundRequest struct {
	Reference string
	UserID    int64
	Amount    float64
}

// RefundResult результат возврата
type RefundResult struct {
	TransactionID string
	Amount        float64
	ProcessedAt   time.Time
}
