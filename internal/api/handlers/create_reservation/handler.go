package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/Arena-BookingService/internal/api/handlers"
	"github.com/m04kA/Arena-BookingService/internal/api/middleware"
	usecase "github.com/m04kA/Arena-BookingService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgCourtNotFound      = "корт не найден"
	msgCoachNotFound      = "тренер не найден"
	msgEquipmentNotFound  = "инвентарь не найден"
	msgPaymentDeclined    = "платеж отклонен"
)

type Handler struct {
	usecase CreateReservationUseCase
	logger  Logger
}

func NewHandler(usecase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		usecase: usecase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	// Декодируем body
	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Создаем бронирование
	resp, err := h.usecase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		h.respondError(w, userID, err)
		return
	}

	h.logger.Info("POST /reservations - Reservation created: id=%d, reference=%s, user_id=%d",
		resp.ID, resp.Reference, userID)

	status := http.StatusCreated
	if resp.Replayed {
		// Повтор по ключу идемпотентности - бронирование уже существовало
		status = http.StatusOK
	}
	handlers.RespondJSON(w, status, resp)
}

func (h *Handler) respondError(w http.ResponseWriter, userID int64, err error) {
	var conflict *usecase.ConflictError

	switch {
	case errors.As(err, &conflict):
		h.logger.Warn("POST /reservations - Conflict: user_id=%d, reason=%s", userID, conflict.Reason)
		handlers.RespondConflict(w, string(conflict.Reason), conflict.Detail)

	case errors.Is(err, usecase.ErrCourtNotFound):
		h.logger.Warn("POST /reservations - Court not found: user_id=%d", userID)
		handlers.RespondNotFound(w, msgCourtNotFound)

	case errors.Is(err, usecase.ErrCoachNotFound):
		h.logger.Warn("POST /reservations - Coach not found: user_id=%d", userID)
		handlers.RespondNotFound(w, msgCoachNotFound)

	case errors.Is(err, usecase.ErrEquipmentNotFound):
		h.logger.Warn("POST /reservations - Equipment not found: user_id=%d", userID)
		handlers.RespondNotFound(w, msgEquipmentNotFound)

	case errors.Is(err, usecase.ErrPaymentDeclined):
		h.logger.Warn("POST /reservations - Payment declined: user_id=%d", userID)
		handlers.RespondError(w, http.StatusPaymentRequired, handlers.CodePaymentDeclined, msgPaymentDeclined)

	case errors.Is(err, usecase.ErrInvalidInput):
		h.logger.Warn("POST /reservations - Invalid input: user_id=%d, error=%v", userID, err)
		handlers.RespondBadRequest(w, err.Error())

	default:
		h.logger.Error("POST /reservations - Failed to create reservation: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
	}
}
