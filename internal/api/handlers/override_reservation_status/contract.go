package override_reservation_status

import (
	"context"

	"github.com/m04kA/Arena-BookingService/internal/service/reservations/models"
)

type ReservationsService interface {
	OverrideStatus(ctx context.Context, reservationID int64, req *models.OverrideStatusRequest) (*models.OverrideStatusResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
