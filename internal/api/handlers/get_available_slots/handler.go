package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/Arena-BookingService/internal/api/handlers"
	"github.com/m04kA/Arena-BookingService/internal/domain"
	usecase "github.com/m04kA/Arena-BookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidCourtID = "некорректный ID корта"
	msgInvalidDate    = "некорректная дата, ожидается формат YYYY-MM-DD"
	msgCourtNotFound  = "корт не найден"
)

type Handler struct {
	usecase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(usecase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		usecase: usecase,
		logger:  logger,
	}
}

// Handle GET /api/v1/courts/{courtId}/available-slots?date=2025-11-01
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	courtID, err := strconv.ParseInt(vars["courtId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /courts/{id}/available-slots - Invalid court ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /courts/{id}/available-slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	resp, err := h.usecase.Execute(r.Context(), &usecase.Request{
		CourtID: courtID,
		Date:    date,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrCourtNotFound):
			h.logger.Warn("GET /courts/{id}/available-slots - Court not found: court_id=%d", courtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, usecase.ErrInvalidInput):
			h.logger.Warn("GET /courts/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /courts/{id}/available-slots - Failed: court_id=%d, error=%v", courtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
