package models

import (
	"time"

	"github.com/m04kA/Arena-BookingService/internal/domain"
)

// Request модели

// GetUserReservationsRequest запрос истории бронирований пользователя
type GetUserReservationsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"` // Фильтр по статусу (опционально)
}

// OverrideStatusRequest административная смена статуса в обход
// обычного жизненного цикла
type OverrideStatusRequest struct {
	ActorID int64  `json:"actorId"` // Администратор, выполняющий операцию
	Status  string `json:"status"`  // Новый статус
	Reason  string `json:"reason"`  // Обоснование для журнала
}

// Response модели

// EquipmentLineResponse строка инвентаря бронирования
type EquipmentLineResponse struct {
	EquipmentID  int64   `json:"equipmentId"`
	Quantity     int     `json:"quantity"`
	PricePerUnit float64 `json:"pricePerUnit"`
}

// PriceBreakdownResponse детализация цены бронирования
type PriceBreakdownResponse struct {
	Base          float64 `json:"base"`
	EquipmentCost float64 `json:"equipmentCost"`
	CoachCost     float64 `json:"coachCost"`
	Total         float64 `json:"total"`
}

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID                 int64                   `json:"id"`
	Reference          string                  `json:"reference"`
	UserID             int64                   `json:"userId"`
	FacilityID         int64                   `json:"facilityId"`
	CourtID            int64                   `json:"courtId"`
	StartTime          time.Time               `json:"startTime"`
	EndTime            time.Time               `json:"endTime"`
	CoachID            *int64                  `json:"coachId,omitempty"`
	Status             string                  `json:"status"`
	PaymentStatus      string                  `json:"paymentStatus"`
	PaymentMethod      string                  `json:"paymentMethod"`
	Price              PriceBreakdownResponse  `json:"price"`
	Equipment          []EquipmentLineResponse `json:"equipment"`
	CancellationReason *string                 `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time              `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time               `json:"createdAt"`
	UpdatedAt          time.Time               `json:"updatedAt"`
}

// ReservationListResponse список бронирований
type ReservationListResponse struct {
	Reservations []*ReservationResponse `json:"reservations"`
	Total        int                    `json:"total"`
}

// OverrideStatusResponse результат административной смены статуса
type OverrideStatusResponse struct {
	ReservationID int64  `json:"reservationId"`
	OldStatus     string `json:"oldStatus"`
	NewStatus     string `json:"newStatus"`
	AuditEventID  int64  `json:"auditEventId"`
}

// FromDomainReservation конвертирует domain.Reservation в ReservationResponse
func FromDomainReservation(res *domain.Reservation) *ReservationResponse {
	lines := make([]EquipmentLineResponse, 0, len(res.Equipment))
	for _, line := range res.Equipment {
		lines = append(lines, EquipmentLineResponse{
			EquipmentID:  line.EquipmentID,
			Quantity:     line.Quantity,
			PricePerUnit: line.PricePerUnit,
		})
	}

	return &ReservationResponse{
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
		Equipment:          lines,
		CancellationReason: res.CancellationReason,
		CancelledAt:        res.CancelledAt,
		CreatedAt:          res.CreatedAt,
		UpdatedAt:          res.UpdatedAt,
	}
}

// FromDomainReservationList конвертирует список бронирований
func FromDomainReservationList(list []*domain.Reservation) *ReservationListResponse {
	out := make([]*ReservationResponse, 0, len(list))
	for _, res := range list {
		out = append(out, FromDomainReservation(res))
	}
	return &ReservationListResponse{Reservations: out, Total: len(out)}
}
