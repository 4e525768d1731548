package list_maintenance_blocks

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/Arena-BookingService/internal/api/handlers"
	"github.com/m04kA/Arena-BookingService/internal/domain"
	"github.com/m04kA/Arena-BookingService/internal/service/maintenance"
	"github.com/m04kA/Arena-BookingService/internal/service/maintenance/models"
)

const (
	msgInvalidCourtID = "некорректный параметр courtId"
	msgInvalidFrom    = "некорректный параметр from, ожидается формат YYYY-MM-DD"
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

// Handle GET /api/v1/maintenance-blocks?courtId=&from=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	courtID, err := strconv.ParseInt(r.URL.Query().Get("courtId"), 10, 64)
	if err != nil || courtID <= 0 {
		h.logger.Warn("GET /maintenance-blocks - Invalid court ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	from := time.Now()
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err = time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /maintenance-blocks - Invalid from date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFrom)
			return
		}
	}

	resp, err := h.service.ListBlocks(r.Context(), &models.ListBlocksRequest{CourtID: courtID, From: from})
	if err != nil {
		switch {
		case errors.Is(err, maintenance.ErrInvalidInput):
			h.logger.Warn("GET /maintenance-blocks - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /maintenance-blocks - Failed: court_id=%d, error=%v", courtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /maintenance-blocks - Listed %d blocks: court_id=%d", resp.Total, courtID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
