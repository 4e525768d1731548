package process_payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/Arena-BookingService/internal/api/handlers"
	"github.com/m04kA/Arena-BookingService/internal/api/middleware"
	usecase "github.com/m04kA/Arena-BookingService/internal/usecase/process_payment"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgNotFound             = "бронирование не найдено"
	msgForbidden            = "доступ запрещен"
	msgNotPayable           = "бронирование не ожидает оплаты"
	msgPaymentDeclined      = "платеж отклонен, бронирование аннулировано"
)

type Handler struct {
	usecase ProcessPaymentUseCase
	logger  Logger
}

func NewHandler(usecase ProcessPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		usecase: usecase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{reservationId}/payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reservationID, err := strconv.ParseInt(vars["reservationId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/payment - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req ProcessPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/{id}/payment - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID := middleware.UserID(r.Context())
	isAdmin := middleware.IsAdmin(r.Context())

	resp, err := h.usecase.Execute(r.Context(), req.ToUseCaseRequest(reservationID, userID, isAdmin))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrReservationNotFound):
			h.logger.Warn("POST /reservations/{id}/payment - Not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, usecase.ErrAccessDenied):
			h.logger.Warn("POST /reservations/{id}/payment - Access denied: reservation_id=%d, user_id=%d",
				reservationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, usecase.ErrNotPayable):
			h.logger.Warn("POST /reservations/{id}/payment - Not payable: reservation_id=%d", reservationID)
			handlers.RespondBadRequest(w, msgNotPayable)

		case errors.Is(err, usecase.ErrPaymentDeclined):
			h.logger.Warn("POST /reservations/{id}/payment - Declined: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusPaymentRequired, handlers.CodePaymentDeclined, msgPaymentDeclined)

		case errors.Is(err, usecase.ErrInvalidInput):
			h.logger.Warn("POST /reservations/{id}/payment - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /reservations/{id}/payment - Failed: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/payment - Payment processed: reservation_id=%d, user_id=%d",
		reservationID, userID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
