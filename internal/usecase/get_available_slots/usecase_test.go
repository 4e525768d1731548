package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Arena-BookingService/internal/domain"
	courtRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/court"
	"github.com/m04kA/Arena-BookingService/pkg/types"
)

var slotsDate = time.Date(2025, 11, 6, 0, 0, 0, 0, time.UTC)

func slotTime(h, m int) time.Time {
	return time.Date(2025, 11, 6, h, m, 0, 0, time.UTC)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeCourtRepo struct {
	court *domain.Court
}

func (f *fakeCourtRepo) GetByID(_ context.Context, id int64) (*domain.Court, error) {
	if f.court == nil || f.court.ID != id {
		return nil, courtRepo.ErrCourtNotFound
	}
	return f.court, nil
}

type fakeReservationRepo struct {
	reservations []*domain.Reservation
	calls        int
}

func (f *fakeReservationRepo) ListActiveOverlappingByCourt(context.Context, int64, domain.TimeRange) ([]*domain.Reservation, error) {
	f.calls++
	return f.reservations, nil
}

type fakeMaintenanceRepo struct {
	blocks []*domain.MaintenanceBlock
}

func (f *fakeMaintenanceRepo) ListOverlappingByCourt(context.Context, int64, domain.TimeRange) ([]*domain.MaintenanceBlock, error) {
	return f.blocks, nil
}

type fakeSlotsCache struct {
	stored map[string][]domain.Slot
	hits   int
}

func cacheKey(courtID int64, date time.Time) string {
	return date.Format(domain.DateFormat)
}

func (f *fakeSlotsCache) Get(_ context.Context, courtID int64, date time.Time) ([]domain.Slot, bool) {
	slots, ok := f.stored[cacheKey(courtID, date)]
	if ok {
		f.hits++
	}
	return slots, ok
}

func (f *fakeSlotsCache) Set(_ context.Context, courtID int64, date time.Time, slots []domain.Slot) {
	if f.stored == nil {
		f.stored = make(map[string][]domain.Slot)
	}
	f.stored[cacheKey(courtID, date)] = slots
}

func newSlotsUseCase(resRepo *fakeReservationRepo, maintRepo *fakeMaintenanceRepo, cache *fakeSlotsCache) *UseCase {
	court := &fakeCourtRepo{court: &domain.Court{ID: 3, FacilityID: 1, IsActive: true}}
	if cache == nil {
		return NewUseCase(court, resRepo, maintRepo, nil, nopLogger{})
	}
	return NewUseCase(court, resRepo, maintRepo, cache, nopLogger{})
}

func TestExecute_FullGridWhenFree(t *testing.T) {
	uc := newSlotsUseCase(&fakeReservationRepo{}, &fakeMaintenanceRepo{}, nil)

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 3, Date: slotsDate})
	require.NoError(t, err)

	// 06:00–22:00 по 30 минут
	require.Len(t, resp.Slots, 32)
	assert.Equal(t, types.TimeString("06:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("21:30"), resp.Slots[31].StartTime)
	assert.Equal(t, types.TimeString("22:00"), resp.Slots[31].EndTime)
	for _, slot := range resp.Slots {
		assert.True(t, slot.Available)
		assert.Empty(t, slot.Reason)
	}
}

func TestExecute_ReservationMarksSlots(t *testing.T) {
	resRepo := &fakeReservationRepo{reservations: []*domain.Reservation{
		{StartTime: slotTime(10, 0), EndTime: slotTime(11, 0)},
	}}
	uc := newSlotsUseCase(resRepo, &fakeMaintenanceRepo{}, nil)

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 3, Date: slotsDate})
	require.NoError(t, err)

	// 10:00 и 10:30 заняты, границы свободны (полуоткрытый интервал)
	byStart := make(map[types.TimeString]Slot)
	for _, slot := range resp.Slots {
		byStart[slot.StartTime] = slot
	}

	assert.True(t, byStart["09:30"].Available)
	assert.False(t, byStart["10:00"].Available)
	assert.Equal(t, string(domain.SlotReasonBooked), byStart["10:00"].Reason)
	assert.False(t, byStart["10:30"].Available)
	assert.True(t, byStart["11:00"].Available)
}

func TestExecute_BookedWinsOverMaintenance(t *testing.T) {
	resRepo := &fakeReservationRepo{reservations: []*domain.Reservation{
		{StartTime: slotTime(10, 0), EndTime: slotTime(11, 0)},
	}}
	maintRepo := &fakeMaintenanceRepo{blocks: []*domain.MaintenanceBlock{
		{StartTime: slotTime(10, 0), EndTime: slotTime(12, 0)},
	}}
	uc := newSlotsUseCase(resRepo, maintRepo, nil)

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 3, Date: slotsDate})
	require.NoError(t, err)

	byStart := make(map[types.TimeString]Slot)
	for _, slot := range resp.Slots {
		byStart[slot.StartTime] = slot
	}

	assert.Equal(t, string(domain.SlotReasonBooked), byStart["10:00"].Reason)
	assert.Equal(t, string(domain.SlotReasonBooked), byStart["10:30"].Reason)
	assert.Equal(t, string(domain.SlotReasonMaintenance), byStart["11:00"].Reason)
	assert.Equal(t, string(domain.SlotReasonMaintenance), byStart["11:30"].Reason)
}

func TestExecute_CacheHitSkipsRepositories(t *testing.T) {
	resRepo := &fakeReservationRepo{}
	cache := &fakeSlotsCache{}
	uc := newSlotsUseCase(resRepo, &fakeMaintenanceRepo{}, cache)

	// Первый вызов наполняет кеш, второй не ходит в БД
	_, err := uc.Execute(context.Background(), &Request{CourtID: 3, Date: slotsDate})
	require.NoError(t, err)
	assert.Equal(t, 1, resRepo.calls)

	_, err = uc.Execute(context.Background(), &Request{CourtID: 3, Date: slotsDate})
	require.NoError(t, err)
	assert.Equal(t, 1, resRepo.calls)
	assert.Equal(t, 1, cache.hits)
}

func TestExecute_InactiveCourtNotFound(t *testing.T) {
	court := &fakeCourtRepo{court: &domain.Court{ID: 3, IsActive: false}}
	uc := NewUseCase(court, &fakeReservationRepo{}, &fakeMaintenanceRepo{}, nil, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{CourtID: 3, Date: slotsDate})
	assert.ErrorIs(t, err, ErrCourtNotFound)
}

func TestExecute_UnknownCourtNotFound(t *testing.T) {
	uc := NewUseCase(&fakeCourtRepo{}, &fakeReservationRepo{}, &fakeMaintenanceRepo{}, nil, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{CourtID: 3, Date: slotsDate})
	assert.ErrorIs(t, err, ErrCourtNotFound)
}

func TestGenerateGrid_Bounds(t *testing.T) {
	slots := generateGrid(slotsDate)

	require.Len(t, slots, 32)
	assert.Equal(t, slotTime(6, 0), slots[0].Start)
	assert.Equal(t, slotTime(6, 30), slots[0].End)
	assert.Equal(t, slotTime(21, 30), slots[31].Start)
	assert.Equal(t, slotTime(22, 0), slots[31].End)
}
