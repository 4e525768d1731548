package create_maintenance_block

import (
	"errors"
	"net/http"

	"github.com/m04kA/Arena-BookingService/internal/api/handlers"
	"github.com/m04kA/Arena-BookingService/internal/api/middleware"
	"github.com/m04kA/Arena-BookingService/internal/domain"
	"github.com/m04kA/Arena-BookingService/internal/service/maintenance"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgCourtNotFound        = "корт не найден"
	msgReservationsConflict = "на интервал уже есть активные бронирования"
)

type Handler struct {
	service MaintenanceService
	logger  Logger
}

func NewHandler(service MaintenanceService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/maintenance-blocks
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBlockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /maintenance-blocks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	adminID := middleware.UserID(r.Context())

	resp, err := h.service.CreateBlock(r.Context(), req.ToServiceRequest(adminID))
	if err != nil {
		switch {
		case errors.Is(err, maintenance.ErrCourtNotFound):
			h.logger.Warn("POST /maintenance-blocks - Court not found: court_id=%d", req.CourtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, maintenance.ErrReservationsConflict):
			h.logger.Warn("POST /maintenance-blocks - Reservations conflict: court_id=%d", req.CourtID)
			handlers.RespondConflict(w, string(domain.ReasonCourtConflict), msgReservationsConflict)

		case errors.Is(err, maintenance.ErrInvalidInput):
			h.logger.Warn("POST /maintenance-blocks - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /maintenance-blocks - Failed: court_id=%d, error=%v", req.CourtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /maintenance-blocks - Block created: id=%d, court_id=%d, by=%d",
		resp.ID, resp.CourtID, adminID)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}
