package override_reservation_status

import "github.com/m04kA/Arena-BookingService/internal/service/reservations/models"

// OverrideStatusRequest HTTP request model
type OverrideStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *OverrideStatusRequest) ToServiceRequest(actorID int64) *models.OverrideStatusRequest {
	return &models.OverrideStatusRequest{
		ActorID: actorID,
		Status:  r.Status,
		Reason:  r.Reason,
	}
}
