package models

import (
	"time"

	"github.com/m04kA/Arena-BookingService/internal/domain"
)

// CreateBlockRequest запрос на блокировку корта на обслуживание
type CreateBlockRequest struct {
	CourtID   int64     `json:"courtId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Reason    string    `json:"reason"`
	CreatedBy int64     `json:"createdBy"`
}

// ListBlocksRequest запрос блокировок корта
type ListBlocksRequest struct {
	CourtID int64     `json:"courtId"`
	From    time.Time `json:"from"` // Отсекает закончившиеся блокировки
}

// BlockResponse ответ с данными блокировки
type BlockResponse struct {
	ID         int64     `json:"id"`
	FacilityID *int64    `json:"facilityId,omitempty"`
	CourtID    int64     `json:"courtId"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Reason     string    `json:"reason"`
	CreatedBy  int64     `json:"createdBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BlockListResponse список блокировок
type BlockListResponse struct {
	Blocks []*BlockResponse `json:"blocks"`
	Total  int              `json:"total"`
}

// FromDomainBlock конвертирует domain.MaintenanceBlock в BlockResponse
func FromDomainBlock(block *domain.MaintenanceBlock) *BlockResponse {
	return &BlockResponse{
		ID:         block.ID,
		FacilityID: block.FacilityID,
		CourtID:    block.CourtID,
		StartTime:  block.StartTime,
		EndTime:    block.EndTime,
		Reason:     block.Reason,
		CreatedBy:  block.CreatedBy,
		CreatedAt:  block.CreatedAt,
	}
}

// FromDomainBlockList конвертирует список блокировок
func FromDomainBlockList(blocks []*domain.MaintenanceBlock) *BlockListResponse {
	out := make([]*BlockResponse, 0, len(blocks))
	for _, block := range blocks {
		out = append(out, FromDomainBlock(block))
	}
	return &BlockListResponse{Blocks: out, Total: len(out)}
}
