package availability

import "errors"

var (
	// ErrCourtNotFound возвращается, когда корт не найден
	ErrCourtNotFound = errors.New("court not found")

	// ErrCoachNotFound возвращается, когда тренер не найден
	ErrCoachNotFound = errors.New("coach not found")

	// ErrEquipmentNotFound возвращается, когда инвентарь не найден
	ErrEquipmentNotFound = errors.New("equipment not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability service: internal error")
)
