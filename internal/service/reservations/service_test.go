package reservations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Arena-BookingService/internal/domain"
	reservationRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/reservation"
	"github.com/m04kA/Arena-BookingService/internal/service/reservations/models"
	"github.com/m04kA/Arena-BookingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeReservationRepo struct {
	res  *domain.Reservation
	list []*domain.Reservation

	listStatus    *domain.ReservationStatus
	updatedStatus domain.ReservationStatus
}

func (f *fakeReservationRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	if f.res == nil || f.res.ID != id {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return f.res, nil
}

func (f *fakeReservationRepo) GetByUserID(_ context.Context, _ int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	f.listStatus = status
	return f.list, nil
}

func (f *fakeReservationRepo) UpdateStatus(_ context.Context, _ int64, status domain.ReservationStatus) error {
	f.updatedStatus = status
	return nil
}

type fakeAuditRepo struct {
	event *domain.AuditEvent
}

func (f *fakeAuditRepo) Create(_ context.Context, event *domain.AuditEvent) (*domain.AuditEvent, error) {
	created := *event
	created.ID = 101
	f.event = &created
	return &created, nil
}

func testReservation() *domain.Reservation {
	return &domain.Reservation{
		ID:     42,
		UserID: 7,
		Status: domain.StatusNoShow,
	}
}

func newTestService(resRepo *fakeReservationRepo, auditRepo *fakeAuditRepo) *Service {
	return NewService(resRepo, auditRepo, fakeTxManager{}, nopLogger{})
}

func TestGetByID_OwnerSeesOwn(t *testing.T) {
	svc := newTestService(&fakeReservationRepo{res: testReservation()}, &fakeAuditRepo{})

	resp, err := svc.GetByID(context.Background(), 42, 7, false)
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
}

func TestGetByID_OtherUserDenied(t *testing.T) {
	svc := newTestService(&fakeReservationRepo{res: testReservation()}, &fakeAuditRepo{})

	_, err := svc.GetByID(context.Background(), 42, 99, false)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_AdminSeesAny(t *testing.T) {
	svc := newTestService(&fakeReservationRepo{res: testReservation()}, &fakeAuditRepo{})

	resp, err := svc.GetByID(context.Background(), 42, 99, true)
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
}

func TestGetUserReservations_StatusFilter(t *testing.T) {
	resRepo := &fakeReservationRepo{list: []*domain.Reservation{testReservation()}}
	svc := newTestService(resRepo, &fakeAuditRepo{})

	resp, err := svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{
		UserID: 7,
		Status: ptr.Ptr("cancelled"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Total)
	require.NotNil(t, resRepo.listStatus)
	assert.Equal(t, domain.StatusCancelled, *resRepo.listStatus)
}

func TestGetUserReservations_InvalidStatus(t *testing.T) {
	svc := newTestService(&fakeReservationRepo{}, &fakeAuditRepo{})

	_, err := svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{
		UserID: 7,
		Status: ptr.Ptr("teleported"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOverrideStatus_WritesAuditTrail(t *testing.T) {
	resRepo := &fakeReservationRepo{res: testReservation()}
	auditRepo := &fakeAuditRepo{}
	svc := newTestService(resRepo, auditRepo)

	resp, err := svc.OverrideStatus(context.Background(), 42, &models.OverrideStatusRequest{
		ActorID: 1,
		Status:  "completed",
		Reason:  "client attended, marked manually",
	})
	require.NoError(t, err)

	// Выход из терминального no_show разрешен административной операции
	assert.Equal(t, "no_show", resp.OldStatus)
	assert.Equal(t, "completed", resp.NewStatus)
	assert.Equal(t, int64(101), resp.AuditEventID)
	assert.Equal(t, domain.StatusCompleted, resRepo.updatedStatus)

	require.NotNil(t, auditRepo.event)
	assert.Equal(t, int64(1), auditRepo.event.ActorID)
	assert.Equal(t, domain.AuditActionStatusOverride, auditRepo.event.Action)
	assert.Equal(t, domain.StatusNoShow, auditRepo.event.OldStatus)
	assert.Equal(t, domain.StatusCompleted, auditRepo.event.NewStatus)
}

func TestOverrideStatus_InvalidStatus(t *testing.T) {
	svc := newTestService(&fakeReservationRepo{res: testReservation()}, &fakeAuditRepo{})

	_, err := svc.OverrideStatus(context.Background(), 42, &models.OverrideStatusRequest{
		ActorID: 1,
		Status:  "vanished",
		Reason:  "typo",
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestOverrideStatus_ReasonRequired(t *testing.T) {
	svc := newTestService(&fakeReservationRepo{res: testReservation()}, &fakeAuditRepo{})

	_, err := svc.OverrideStatus(context.Background(), 42, &models.OverrideStatusRequest{
		ActorID: 1,
		Status:  "completed",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOverrideStatus_NotFound(t *testing.T) {
	svc := newTestService(&fakeReservationRepo{}, &fakeAuditRepo{})

	_, err := svc.OverrideStatus(context.Background(), 42, &models.OverrideStatusRequest{
		ActorID: 1,
		Status:  "completed",
		Reason:  "manual fix",
	})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}
