package domain

// EquipmentItem rentable equipment with a fixed capacity and a mutable
// available counter. Invariant: 0 <= AvailableStock <= TotalStock.
// AvailableStock is decremented by the booking path and restored by the
// cancellation path, always inside the same transaction as the
// reservation row.
type EquipmentItem struct {
	ID             int64
	FacilityID     int64
	Name           string
	Type           string
	TotalStock     int
	AvailableStock int
	PricePerUnit   float64
	IsActive       bool
}

// EquipmentRequest запрошенная позиция инвентаря в запросе на бронирование
type EquipmentRequest struct {
	EquipmentID int64
	Quantity    int
}

// EquipmentLine строка инвентаря, зафиксированная в бронировании
// (цена денормализуется на момент создания)
type EquipmentLine struct {
	EquipmentID  int64
	Quantity     int
	PricePerUnit float64
}

// Cost возвращает стоимость строки (quantity * pricePerUnit)
func (l EquipmentLine) Cost() float64 {
	return float64(l.Quantity) * l.PricePerUnit
}

// EquipmentCost возвращает суммарную стоимость строк инвентаря
func EquipmentCost(lines []EquipmentLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.Cost()
	}
	return total
}
