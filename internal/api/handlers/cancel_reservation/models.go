package cancel_reservation

import (
	usecase "github.com/m04kA/Arena-BookingService/internal/usecase/cancel_reservation"
)

// CancelReservationRequest HTTP request model
type CancelReservationRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель usecase
func (r *CancelReservationRequest) ToUseCaseRequest(reservationID, requesterID int64, isAdmin bool) *usecase.Request {
	reason := ""
	if r.Reason != nil {
		reason = *r.Reason
	}

	return &usecase.Request{
		ReservationID: reservationID,
		RequesterID:   requesterID,
		IsAdmin:       isAdmin,
		Reason:        reason,
	}
}
