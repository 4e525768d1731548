package delete_maintenance_block

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/Arena-BookingService/internal/api/handlers"
	"github.com/m04kA/Arena-BookingService/internal/service/maintenance"
)

const (
	msgInvalidBlockID = "некорректный ID блокировки"
	msgNotFound       = "блокировка не найдена"
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

// Handle DELETE /api/v1/maintenance-blocks/{blockId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	blockID, err := strconv.ParseInt(vars["blockId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /maintenance-blocks/{id} - Invalid block ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlockID)
		return
	}

	if err := h.service.DeleteBlock(r.Context(), blockID); err != nil {
		switch {
		case errors.Is(err, maintenance.ErrBlockNotFound):
			h.logger.Warn("DELETE /maintenance-blocks/{id} - Not found: block_id=%d", blockID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /maintenance-blocks/{id} - Failed: block_id=%d, error=%v", blockID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /maintenance-blocks/{id} - Block deleted: block_id=%d", blockID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
