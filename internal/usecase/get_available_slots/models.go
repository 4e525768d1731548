package get_available_slots

import (
	"time"

	"github.com/m04kA/Arena-BookingService/pkg/types"
)

// Request модель запроса доступных слотов корта на дату
type Request struct {
	CourtID int64     // ID корта
	Date    time.Time // Дата (время игнорируется)
}

// Slot один слот сетки в ответе
type Slot struct {
	StartTime types.TimeString `json:"startTime"`        // "06:00"
	EndTime   types.TimeString `json:"endTime"`          // "06:30"
	Available bool             `json:"available"`        // Свободен ли слот
	Reason    string           `json:"reason,omitempty"` // Booked / Maintenance
}

// Response модель ответа с сеткой слотов
type Response struct {
	CourtID int64     `json:"courtId"`
	Date    time.Time `json:"date"`
	Slots   []Slot    `json:"slots"`
}
