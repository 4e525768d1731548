package create_maintenance_block

import (
	"time"

	"github.com/m04kA/Arena-BookingService/internal/service/maintenance/models"
)

// CreateBlockRequest HTTP request model
type CreateBlockRequest struct {
	CourtID   int64     `json:"courtId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Reason    string    `json:"reason"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CreateBlockRequest) ToServiceRequest(createdBy int64) *models.CreateBlockRequest {
	return &models.CreateBlockRequest{
		CourtID:   r.CourtID,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Reason:    r.Reason,
		CreatedBy: createdBy,
	}
}
