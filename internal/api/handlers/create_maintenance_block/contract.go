package create_maintenance_block

import (
	"context"

	"github.com/m04kA/Arena-BookingService/internal/service/maintenance/models"
)

type MaintenanceService interface {
	CreateBlock(ctx context.Context, req *models.CreateBlockRequest) (*models.BlockResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
