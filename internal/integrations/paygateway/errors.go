package paygateway

import "errors"

var (
	// ErrPaymentDeclined возвращается, когда платеж отклонен платежным шлюзом
	ErrPaymentDeclined = errors.New("paygateway: payment declined")

	// ErrUnsupportedMethod возвращается для неизвестного способа оплаты
	ErrUnsupportedMethod = errors.New("paygateway: unsupported payment method")
)
