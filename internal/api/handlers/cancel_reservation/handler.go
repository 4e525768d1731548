package cancel_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/Arena-BookingService/internal/api/handlers"
	"github.com/m04kA/Arena-BookingService/internal/api/middleware"
	usecase "github.com/m04kA/Arena-BookingService/internal/usecase/cancel_reservation"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgNotFound             = "бронирование не найдено"
	msgForbidden            = "доступ запрещен"
	msgAlreadyCancelled     = "бронирование уже завершено или отменено"
)

type Handler struct {
	usecase CancelReservationUseCase
	logger  Logger
}

func NewHandler(usecase CancelReservationUseCase, logger Logger) *Handler {
	return &Handler{
		usecase: usecase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{reservationId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reservationID, err := strconv.ParseInt(vars["reservationId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id}/cancel - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req CancelReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID := middleware.UserID(r.Context())
	isAdmin := middleware.IsAdmin(r.Context())

	resp, err := h.usecase.Execute(r.Context(), req.ToUseCaseRequest(reservationID, userID, isAdmin))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/{id}/cancel - Not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, usecase.ErrAccessDenied):
			h.logger.Warn("PATCH /reservations/{id}/cancel - Access denied: reservation_id=%d, user_id=%d",
				reservationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, usecase.ErrAlreadyCancelled):
			h.logger.Warn("PATCH /reservations/{id}/cancel - Already terminal: reservation_id=%d", reservationID)
			handlers.RespondConflict(w, handlers.CodeAlreadyCancelled, msgAlreadyCancelled)

		case errors.Is(err, usecase.ErrInvalidInput):
			h.logger.Warn("PATCH /reservations/{id}/cancel - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /reservations/{id}/cancel - Failed: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id}/cancel - Cancelled: reservation_id=%d, refund=%d%%",
		reservationID, resp.RefundPercentage)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
