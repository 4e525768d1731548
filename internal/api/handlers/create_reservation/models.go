package create_reservation

import (
	"time"

	"github.com/m04kA/Arena-BookingService/internal/domain"
	usecase "github.com/m04kA/Arena-BookingService/internal/usecase/create_reservation"
)

// EquipmentLineRequest строка инвентаря в HTTP запросе
type EquipmentLineRequest struct {
	EquipmentID int64 `json:"equipmentId"`
	Quantity    int   `json:"quantity"`
}

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	CourtID        int64                  `json:"courtId"`
	StartTime      time.Time              `json:"startTime"`
	EndTime        time.Time              `json:"endTime"`
	CoachID        *int64                 `json:"coachId,omitempty"`
	Equipment      []EquipmentLineRequest `json:"equipment,omitempty"`
	PaymentMethod  string                 `json:"paymentMethod"`
	IdempotencyKey *string                `json:"idempotencyKey,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель usecase
func (r *CreateReservationRequest) ToUseCaseRequest(userID int64) *usecase.Request {
	equipment := make([]domain.EquipmentRequest, 0, len(r.Equipment))
	for _, line := range r.Equipment {
		equipment = append(equipment, domain.EquipmentRequest{
			EquipmentID: line.EquipmentID,
			Quantity:    line.Quantity,
		})
	}

	return &usecase.Request{
		UserID:         userID,
		CourtID:        r.CourtID,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		CoachID:        r.CoachID,
		Equipment:      equipment,
		PaymentMethod:  r.PaymentMethod,
		IdempotencyKey: r.IdempotencyKey,
	}
}
