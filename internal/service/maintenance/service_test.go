package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Arena-BookingService/internal/domain"
	courtRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/court"
	maintenanceRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/maintenance"
	"github.com/m04kA/Arena-BookingService/internal/service/maintenance/models"
)

func blockTime(d, h int) time.Time {
	return time.Date(2025, 11, d, h, 0, 0, 0, time.UTC)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeMaintenanceRepo struct {
	block   *domain.MaintenanceBlock
	list    []*domain.MaintenanceBlock
	created *domain.MaintenanceBlock
	deleted int64
}

func (f *fakeMaintenanceRepo) Create(_ context.Context, block *domain.MaintenanceBlock) (*domain.MaintenanceBlock, error) {
	created := *block
	created.ID = 15
	f.created = &created
	return &created, nil
}

func (f *fakeMaintenanceRepo) GetByID(_ context.Context, id int64) (*domain.MaintenanceBlock, error) {
	if f.block == nil || f.block.ID != id {
		return nil, maintenanceRepo.ErrBlockNotFound
	}
	return f.block, nil
}

func (f *fakeMaintenanceRepo) Delete(_ context.Context, id int64) error {
	if f.block == nil || f.block.ID != id {
		return maintenanceRepo.ErrBlockNotFound
	}
	f.deleted = id
	return nil
}

func (f *fakeMaintenanceRepo) ListByCourt(context.Context, int64, time.Time) ([]*domain.MaintenanceBlock, error) {
	return f.list, nil
}

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
	overlaps []*domain.Reservation
}

func (f *fakeReservationRepo) ListActiveOverlappingByCourt(context.Context, int64, domain.TimeRange) ([]*domain.Reservation, error) {
	return f.overlaps, nil
}

type fakeSlotsCache struct {
	invalidated []time.Time
}

func (f *fakeSlotsCache) Invalidate(_ context.Context, _ int64, date time.Time) {
	f.invalidated = append(f.invalidated, date)
}

func newTestService(maintRepo *fakeMaintenanceRepo, resRepo *fakeReservationRepo, cache *fakeSlotsCache) *Service {
	court := &fakeCourtRepo{court: &domain.Court{ID: 3, FacilityID: 1, IsActive: true}}
	if cache == nil {
		return NewService(maintRepo, court, resRepo, fakeTxManager{}, nil, nopLogger{})
	}
	return NewService(maintRepo, court, resRepo, fakeTxManager{}, cache, nopLogger{})
}

func validCreateRequest() *models.CreateBlockRequest {
	return &models.CreateBlockRequest{
		CourtID:   3,
		StartTime: blockTime(6, 10),
		EndTime:   blockTime(6, 14),
		Reason:    "resurfacing",
		CreatedBy: 1,
	}
}

func TestCreateBlock_Success(t *testing.T) {
	maintRepo := &fakeMaintenanceRepo{}
	svc := newTestService(maintRepo, &fakeReservationRepo{}, nil)

	resp, err := svc.CreateBlock(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(15), resp.ID)
	assert.Equal(t, int64(3), resp.CourtID)
	assert.Equal(t, "resurfacing", resp.Reason)

	require.NotNil(t, maintRepo.created)
	require.NotNil(t, maintRepo.created.FacilityID)
	assert.Equal(t, int64(1), *maintRepo.created.FacilityID)
}

func TestCreateBlock_ActiveReservationsConflict(t *testing.T) {
	maintRepo := &fakeMaintenanceRepo{}
	resRepo := &fakeReservationRepo{overlaps: []*domain.Reservation{{Reference: "BK1OTHER"}}}
	svc := newTestService(maintRepo, resRepo, nil)

	_, err := svc.CreateBlock(context.Background(), validCreateRequest())
	assert.ErrorIs(t, err, ErrReservationsConflict)
	assert.Nil(t, maintRepo.created)
}

func TestCreateBlock_CourtNotFound(t *testing.T) {
	svc := NewService(&fakeMaintenanceRepo{}, &fakeCourtRepo{}, &fakeReservationRepo{}, fakeTxManager{}, nil, nopLogger{})

	_, err := svc.CreateBlock(context.Background(), validCreateRequest())
	assert.ErrorIs(t, err, ErrCourtNotFound)
}

func TestCreateBlock_Validation(t *testing.T) {
	svc := newTestService(&fakeMaintenanceRepo{}, &fakeReservationRepo{}, nil)

	mutations := map[string]func(*models.CreateBlockRequest){
		"zero court":        func(r *models.CreateBlockRequest) { r.CourtID = 0 },
		"inverted interval": func(r *models.CreateBlockRequest) { r.StartTime, r.EndTime = r.EndTime, r.StartTime },
		"empty reason":      func(r *models.CreateBlockRequest) { r.Reason = "" },
		"zero creator":      func(r *models.CreateBlockRequest) { r.CreatedBy = 0 },
	}

	for name, mutate := range mutations {
		req := validCreateRequest()
		mutate(req)

		_, err := svc.CreateBlock(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput, name)
	}
}

func TestCreateBlock_InvalidatesEachAffectedDay(t *testing.T) {
	cache := &fakeSlotsCache{}
	svc := newTestService(&fakeMaintenanceRepo{}, &fakeReservationRepo{}, cache)

	req := validCreateRequest()
	req.StartTime = blockTime(6, 22)
	req.EndTime = blockTime(8, 8) // Блок на три календарных дня

	_, err := svc.CreateBlock(context.Background(), req)
	require.NoError(t, err)

	assert.Len(t, cache.invalidated, 3)
}

func TestDeleteBlock_Success(t *testing.T) {
	maintRepo := &fakeMaintenanceRepo{block: &domain.MaintenanceBlock{
		ID:        15,
		CourtID:   3,
		StartTime: blockTime(6, 10),
		EndTime:   blockTime(6, 14),
	}}
	cache := &fakeSlotsCache{}
	svc := newTestService(maintRepo, &fakeReservationRepo{}, cache)

	err := svc.DeleteBlock(context.Background(), 15)
	require.NoError(t, err)

	assert.Equal(t, int64(15), maintRepo.deleted)
	assert.Len(t, cache.invalidated, 1)
}

func TestDeleteBlock_NotFound(t *testing.T) {
	svc := newTestService(&fakeMaintenanceRepo{}, &fakeReservationRepo{}, nil)

	err := svc.DeleteBlock(context.Background(), 15)
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestListBlocks_ReturnsCourtBlocks(t *testing.T) {
	maintRepo := &fakeMaintenanceRepo{list: []*domain.MaintenanceBlock{
		{ID: 15, CourtID: 3, Reason: "resurfacing"},
		{ID: 16, CourtID: 3, Reason: "net replacement"},
	}}
	svc := newTestService(maintRepo, &fakeReservationRepo{}, nil)

	resp, err := svc.ListBlocks(context.Background(), &models.ListBlocksRequest{CourtID: 3, From: blockTime(6, 0)})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Total)
}

func TestListBlocks_InvalidCourt(t *testing.T) {
	svc := newTestService(&fakeMaintenanceRepo{}, &fakeReservationRepo{}, nil)

	_, err := svc.ListBlocks(context.Background(), &models.ListBlocksRequest{CourtID: 0, From: blockTime(6, 0)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
