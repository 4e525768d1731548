package domain

import "time"

// AuditAction тип административного действия
type AuditAction string

const (
	AuditActionStatusOverride AuditAction = "status_override"
)

// AuditEvent запись аудита административных действий.
// Отдельная сущность: override статуса логируется сюда, а не синтетическим
// блоком обслуживания.
type AuditEvent struct {
	ID            int64
	ActorID       int64
	ReservationID int64
	Action        AuditAction
	OldStatus     ReservationStatus
	NewStatus     ReservationStatus
	Reason        string
	CreatedAt     time.Time
}
