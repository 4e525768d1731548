package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Arena-BookingService/internal/domain"
	coachRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/coach"
	courtRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/court"
	"github.com/m04kA/Arena-BookingService/internal/service/availability/models"
	"github.com/m04kA/Arena-BookingService/pkg/ptr"
)

var checkInterval = domain.TimeRange{
	Start: time.Date(2025, 11, 6, 10, 0, 0, 0, time.UTC),
	End:   time.Date(2025, 11, 6, 11, 0, 0, 0, time.UTC),
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

type fakeCoachRepo struct {
	coach          *domain.Coach
	unavailability []*domain.CoachUnavailability
}

func (f *fakeCoachRepo) GetByID(_ context.Context, id int64) (*domain.Coach, error) {
	if f.coach == nil || f.coach.ID != id {
		return nil, coachRepo.ErrCoachNotFound
	}
	return f.coach, nil
}

func (f *fakeCoachRepo) ListUnavailability(context.Context, int64, time.Time) ([]*domain.CoachUnavailability, error) {
	return f.unavailability, nil
}

type fakeEquipmentRepo struct {
	items []*domain.EquipmentItem
}

func (f *fakeEquipmentRepo) GetByIDs(context.Context, []int64) ([]*domain.EquipmentItem, error) {
	return f.items, nil
}

type fakeReservationRepo struct {
	courtOverlaps []*domain.Reservation
	coachOverlaps []*domain.Reservation
	committed     map[int64]int
}

func (f *fakeReservationRepo) ListActiveOverlappingByCourt(context.Context, int64, domain.TimeRange) ([]*domain.Reservation, error) {
	return f.courtOverlaps, nil
}

func (f *fakeReservationRepo) ListActiveOverlappingByCoach(context.Context, int64, domain.TimeRange) ([]*domain.Reservation, error) {
	return f.coachOverlaps, nil
}

func (f *fakeReservationRepo) CommittedEquipmentQuantity(_ context.Context, equipmentID int64, _ domain.TimeRange) (int, error) {
	return f.committed[equipmentID], nil
}

type fakeMaintenanceRepo struct {
	blocks []*domain.MaintenanceBlock
}

func (f *fakeMaintenanceRepo) ListOverlappingByCourt(context.Context, int64, domain.TimeRange) ([]*domain.MaintenanceBlock, error) {
	return f.blocks, nil
}

type checkEnv struct {
	court       *fakeCourtRepo
	coach       *fakeCoachRepo
	equipment   *fakeEquipmentRepo
	reservation *fakeReservationRepo
	maintenance *fakeMaintenanceRepo
	svc         *Service
}

func newCheckEnv() *checkEnv {
	env := &checkEnv{
		court: &fakeCourtRepo{court: &domain.Court{
			ID: 3, FacilityID: 1, Type: "Tennis", BasePrice: 50, IsActive: true,
		}},
		coach: &fakeCoachRepo{coach: &domain.Coach{
			ID: 9, FacilityID: 1, Price: 30, Available: true,
		}},
		equipment: &fakeEquipmentRepo{items: []*domain.EquipmentItem{
			{ID: 5, Name: "Rackets", PricePerUnit: 5, TotalStock: 10, AvailableStock: 10, IsActive: true},
		}},
		reservation: &fakeReservationRepo{},
		maintenance: &fakeMaintenanceRepo{},
	}
	env.svc = NewService(env.court, env.coach, env.equipment, env.reservation, env.maintenance, nopLogger{})
	return env
}

func fullRequest() *models.CheckRequest {
	return &models.CheckRequest{
		CourtID:   3,
		Interval:  checkInterval,
		CoachID:   ptr.Ptr(int64(9)),
		Equipment: []domain.EquipmentRequest{{EquipmentID: 5, Quantity: 2}},
	}
}

func TestCheck_AllResourcesAvailable(t *testing.T) {
	env := newCheckEnv()

	result, err := env.svc.Check(context.Background(), fullRequest())
	require.NoError(t, err)

	assert.True(t, result.Availability.Available)
	assert.Equal(t, int64(3), result.Court.ID)
	assert.Equal(t, int64(9), result.Coach.ID)
	require.Len(t, result.Equipment, 1)
}

func TestCheck_CourtNotFound(t *testing.T) {
	env := newCheckEnv()
	env.court.court = nil

	_, err := env.svc.Check(context.Background(), fullRequest())
	assert.ErrorIs(t, err, ErrCourtNotFound)
}

func TestCheck_InactiveCourt(t *testing.T) {
	env := newCheckEnv()
	env.court.court.IsActive = false

	result, err := env.svc.Check(context.Background(), fullRequest())
	require.NoError(t, err)

	assert.False(t, result.Availability.Available)
	assert.Equal(t, domain.ReasonResourceInactive, result.Availability.Reason)
}

func TestCheck_CourtConflictWinsOverLaterChecks(t *testing.T) {
	env := newCheckEnv()
	// Конфликтует все сразу: бронь корта, блокировка, занятый тренер
	env.reservation.courtOverlaps = []*domain.Reservation{{Reference: "BK1OTHER"}}
	env.maintenance.blocks = []*domain.MaintenanceBlock{{Reason: "resurfacing"}}
	env.reservation.coachOverlaps = []*domain.Reservation{{Reference: "BK2OTHER"}}

	result, err := env.svc.Check(context.Background(), fullRequest())
	require.NoError(t, err)

	// Первый конфликт по порядку проверок
	assert.Equal(t, domain.ReasonCourtConflict, result.Availability.Reason)
}

func TestCheck_MaintenanceConflict(t *testing.T) {
	env := newCheckEnv()
	env.maintenance.blocks = []*domain.MaintenanceBlock{{Reason: "resurfacing"}}

	result, err := env.svc.Check(context.Background(), fullRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.ReasonMaintenanceConflict, result.Availability.Reason)
	assert.Equal(t, "resurfacing", result.Availability.Detail)
}

func TestCheck_CoachNotFound(t *testing.T) {
	env := newCheckEnv()
	env.coach.coach = nil

	_, err := env.svc.Check(context.Background(), fullRequest())
	assert.ErrorIs(t, err, ErrCoachNotFound)
}

func TestCheck_CoachNotAvailableFlag(t *testing.T) {
	env := newCheckEnv()
	env.coach.coach.Available = false

	result, err := env.svc.Check(context.Background(), fullRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.ReasonResourceInactive, result.Availability.Reason)
}

func TestCheck_CoachBookedElsewhere(t *testing.T) {
	env := newCheckEnv()
	env.reservation.coachOverlaps = []*domain.Reservation{{Reference: "BK2OTHER"}}

	result, err := env.svc.Check(context.Background(), fullRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.ReasonCoachConflict, result.Availability.Reason)
}

func TestCheck_CoachUnavailabilityRecord(t *testing.T) {
	env := newCheckEnv()
	env.coach.unavailability = []*domain.CoachUnavailability{
		{CoachID: 9, Date: checkInterval.Start, Reason: ptr.Ptr("vacation")},
	}

	result, err := env.svc.Check(context.Background(), fullRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.ReasonCoachUnavailable, result.Availability.Reason)
	assert.Equal(t, "vacation", result.Availability.Detail)
}

func TestCheck_NoCoachSkipsCoachChecks(t *testing.T) {
	env := newCheckEnv()
	env.coach.coach = nil // тренер не найден, но и не запрошен

	req := fullRequest()
	req.CoachID = nil

	result, err := env.svc.Check(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.Availability.Available)
	assert.Nil(t, result.Coach)
}

func TestCheck_UnknownEquipmentRejected(t *testing.T) {
	env := newCheckEnv()

	req := fullRequest()
	req.Equipment = []domain.EquipmentRequest{{EquipmentID: 777, Quantity: 1}}

	_, err := env.svc.Check(context.Background(), req)
	assert.ErrorIs(t, err, ErrEquipmentNotFound)
}

func TestCheck_InactiveEquipment(t *testing.T) {
	env := newCheckEnv()
	env.equipment.items[0].IsActive = false

	result, err := env.svc.Check(context.Background(), fullRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.ReasonResourceInactive, result.Availability.Reason)
}

func TestCheck_EffectiveStockAccountsForCommitted(t *testing.T) {
	env := newCheckEnv()
	// Физически 10, но 9 уже обещаны пересекающимся броням
	env.reservation.committed = map[int64]int{5: 9}

	result, err := env.svc.Check(context.Background(), fullRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.ReasonInsufficientStock, result.Availability.Reason)
}

func TestCheck_EffectiveStockExactlyEnough(t *testing.T) {
	env := newCheckEnv()
	env.reservation.committed = map[int64]int{5: 8} // остается ровно 2

	result, err := env.svc.Check(context.Background(), fullRequest())
	require.NoError(t, err)
	assert.True(t, result.Availability.Available)
}
