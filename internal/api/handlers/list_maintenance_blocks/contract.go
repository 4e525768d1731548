package list_maintenance_blocks

import (
	"context"

	"github.com/m04kA/Arena-BookingService/internal/service/maintenance/models"
)

type MaintenanceService interface {
	ListBlocks(ctx context.Context, req *models.ListBlocksRequest) (*models.BlockListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
