package equipment

import "errors"

var (
	// ErrEquipmentNotFound возвращается, когда инвентарь не найден
	ErrEquipmentNotFound = errors.New("equipment.repository: equipment not found")

	// ErrInsufficientStock возвращается, когда на складе недостаточно инвентаря
	ErrInsufficientStock = errors.New("equipment.repository: insufficient stock")

	// ErrStockOverflow возвращается при попытке вернуть на склад больше, чем было выдано
	ErrStockOverflow = errors.New("equipment.repository: release exceeds total stock")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("equipment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("equipment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("equipment.repository: failed to scan row")
)
