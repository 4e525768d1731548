package process_payment

import (
	usecase "github.com/m04kA/Arena-BookingService/internal/usecase/process_payment"
)

// ProcessPaymentRequest HTTP request model
type ProcessPaymentRequest struct {
	Method string `json:"method"` // card / cash / online
}

// ToUseCaseRequest конвертирует HTTP request в модель usecase
func (r *ProcessPaymentRequest) ToUseCaseRequest(reservationID, requesterID int64, isAdmin bool) *usecase.Request {
	return &usecase.Request{
		ReservationID: reservationID,
		RequesterID:   requesterID,
		IsAdmin:       isAdmin,
		Method:        r.Method,
	}
}
