package process_payment

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("process_payment: reservation not found")

	// ErrAccessDenied возвращается, когда бронирование принадлежит другому пользователю
	ErrAccessDenied = errors.New("process_payment: access denied")

	// ErrNotPayable возвращается, когда бронирование не ожидает оплаты
	ErrNotPayable = errors.New("process_payment: reservation is not awaiting payment")

	// ErrPaymentDeclined возвращается, когда платеж отклонен шлюзом;
	// бронирование при этом переводится в failed с возвратом инвентаря
	ErrPaymentDeclined = errors.New("process_payment: payment declined")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("process_payment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("process_payment: internal error")
)
