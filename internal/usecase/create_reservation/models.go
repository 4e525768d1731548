package create_reservation

import (
	"time"

	"github.com/m04kA/Arena-BookingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID        int64                     // ID пользователя (из identity-заголовков)
	CourtID       int64                     // ID корта
	StartTime     time.Time                 // Начало интервала [start, end)
	EndTime       time.Time                 // Конец интервала (исключая)
	CoachID       *int64                    // ID тренера (опционально)
	Equipment     []domain.EquipmentRequest // Запрошенный инвентарь
	PaymentMethod string                    // Способ оплаты: card / cash / online

	// IdempotencyKey клиентский ключ идемпотентности (опционально):
	// повторный запрос с тем же ключом вернет исходное бронирование
	IdempotencyKey *string
}

// EquipmentLineResponse строка инвентаря в ответе
type EquipmentLineResponse struct {
	EquipmentID  int64   `json:"equipmentId"`
	Quantity     int     `json:"quantity"`
	PricePerUnit float64 `json:"pricePerUnit"`
}

// PriceBreakdownResponse детализация цены в ответе
type PriceBreakdownResponse struct {
	Base          float64 `json:"base"`
	EquipmentCost float64 `json:"equipmentCost"`
	CoachCost     float64 `json:"coachCost"`
	Total         float64 `json:"total"`
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID            int64                   `json:"id"`
	Reference     string                  `json:"reference"`
	UserID        int64                   `json:"userId"`
	FacilityID    int64                   `json:"facilityId"`
	CourtID       int64                   `json:"courtId"`
	StartTime     time.Time               `json:"startTime"`
	EndTime       time.Time               `json:"endTime"`
	CoachID       *int64                  `json:"coachId,omitempty"`
	Status        string                  `json:"status"`
	PaymentStatus string                  `json:"paymentStatus"`
	PaymentMethod string                  `json:"paymentMethod"`
	Price         PriceBreakdownResponse  `json:"price"`
	Equipment     []EquipmentLineResponse `json:"equipment"`
	CreatedAt     time.Time               `json:"createdAt"`

	// Replayed true, если запрос с тем же ключом идемпотентности уже
	// был выполнен и возвращено исходное бронирование
	Replayed bool `json:"replayed,omitempty"`
}

// toResponse конвертирует domain.Reservation в Response
func toResponse(res *domain.Reservation, replayed bool) *Response {
	lines := make([]EquipmentLineResponse, 0, len(res.Equipment))
	for _, line := range res.Equipment {
		lines = append(lines, EquipmentLineResponse{
			EquipmentID:  line.EquipmentID,
			Quantity:     line.Quantity,
			PricePerUnit: line.PricePerUnit,
		})
	}

	return &Response{
		ID:            res.ID,
		Reference:     res.Reference,
		UserID:        res.UserID,
		FacilityID:    res.FacilityID,
		CourtID:       res.CourtID,
		StartTime:     res.StartTime,
		EndTime:       res.EndTime,
		CoachID:       res.CoachID,
		Status:        string(res.Status),
		PaymentStatus: string(res.PaymentStatus),
		PaymentMethod: res.PaymentMethod,
		Price: PriceBreakdownResponse{
			Base:          res.Price.Base,
			EquipmentCost: res.Price.EquipmentCost,
			CoachCost:     res.Price.CoachCost,
			Total:         res.Price.Total,
		},
		Equipment: lines,
		CreatedAt: res.CreatedAt,
		Replayed:  replayed,
	}
}
