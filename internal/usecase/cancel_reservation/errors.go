package cancel_reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("cancel_reservation: reservation not found")

	// ErrAccessDenied возвращается, когда бронирование принадлежит другому
	// пользователю, а инициатор не администратор
	ErrAccessDenied = errors.New("cancel_reservation: access denied")

	// ErrAlreadyCancelled возвращается при попытке отменить бронирование
	// в терминальном статусе
	ErrAlreadyCancelled = errors.New("cancel_reservation: reservation is already in a terminal state")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_reservation: internal error")
)
