package create_reservation

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Arena-BookingService/internal/domain"
	equipmentRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/equipment"
	reservationRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/reservation"
	"github.com/m04kA/Arena-BookingService/internal/integrations/paygateway"
	availModels "github.com/m04kA/Arena-BookingService/internal/service/availability/models"
	"github.com/m04kA/Arena-BookingService/pkg/ptr"
)

// 2025-11-05 среда, бронь на следующий день
var (
	createNow   = time.Date(2025, 11, 5, 12, 0, 0, 0, time.UTC)
	createStart = time.Date(2025, 11, 6, 10, 0, 0, 0, time.UTC)
	createEnd   = time.Date(2025, 11, 6, 11, 0, 0, 0, time.UTC)
)

type fixedTime struct{ t time.Time }

func (f *fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAvailability struct {
	result *availModels.CheckResult
	err    error
}

func (f *fakeAvailability) Check(context.Context, *availModels.CheckRequest) (*availModels.CheckResult, error) {
	return f.result, f.err
}

type fakeReservationRepo struct {
	nextID     int64
	created    []*domain.Reservation
	createErrs []error // ошибки первых вызовов Create, затем успех
	byIdemKey  map[string]*domain.Reservation
	addedLines map[int64][]domain.EquipmentLine
}

func (f *fakeReservationRepo) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		return nil, err
	}
	f.nextID++
	created := *res
	created.ID = f.nextID
	created.CreatedAt = createNow
	f.created = append(f.created, &created)
	return &created, nil
}

func (f *fakeReservationRepo) AddEquipmentLines(_ context.Context, reservationID int64, lines []domain.EquipmentLine) error {
	if f.addedLines == nil {
		f.addedLines = make(map[int64][]domain.EquipmentLine)
	}
	f.addedLines[reservationID] = lines
	return nil
}

func (f *fakeReservationRepo) GetByIdempotencyKey(_ context.Context, _ int64, key string) (*domain.Reservation, error) {
	if res, ok := f.byIdemKey[key]; ok {
		return res, nil
	}
	return nil, reservationRepo.ErrReservationNotFound
}

type fakeEquipmentRepo struct {
	stock       map[int64]int
	decremented map[int64]int
}

func (f *fakeEquipmentRepo) DecrementStock(_ context.Context, id int64, qty int) error {
	if f.stock[id] < qty {
		return equipmentRepo.ErrInsufficientStock
	}
	f.stock[id] -= qty
	if f.decremented == nil {
		f.decremented = make(map[int64]int)
	}
	f.decremented[id] += qty
	return nil
}

type fakePricingRepo struct {
	rules []*domain.PricingRule
}

func (f *fakePricingRepo) ListActiveForScope(context.Context, int64, string) ([]*domain.PricingRule, error) {
	return f.rules, nil
}

type fakeProfileRepo struct {
	userID int64
	amount float64
	calls  int
}

func (f *fakeProfileRepo) RecordBooking(_ context.Context, userID int64, amount float64) error {
	f.userID = userID
	f.amount = amount
	f.calls++
	return nil
}

type fakeGateway struct {
	declineAll bool
	charges    []paygateway.ChargeRequest
}

func (f *fakeGateway) Charge(_ context.Context, req paygateway.ChargeRequest) (*paygateway.ChargeResult, error) {
	if f.declineAll {
		return nil, paygateway.ErrPaymentDeclined
	}
	f.charges = append(f.charges, req)
	return &paygateway.ChargeResult{TransactionID: "CH-TEST", Amount: req.Amount}, nil
}

func availableCheck() *availModels.CheckResult {
	return &availModels.CheckResult{
		Availability: domain.Available(),
		Court: &domain.Court{
			ID:         3,
			FacilityID: 1,
			Type:       "Tennis",
			BasePrice:  50,
			IsActive:   true,
		},
		Equipment: []*domain.EquipmentItem{
			{ID: 5, PricePerUnit: 5, TotalStock: 10, AvailableStock: 10, IsActive: true},
		},
	}
}

func validRequest() *Request {
	return &Request{
		UserID:        7,
		CourtID:       3,
		StartTime:     createStart,
		EndTime:       createEnd,
		Equipment:     []domain.EquipmentRequest{{EquipmentID: 5, Quantity: 2}},
		PaymentMethod: paygateway.MethodCard,
	}
}

type testEnv struct {
	avail   *fakeAvailability
	resRepo *fakeReservationRepo
	eqRepo  *fakeEquipmentRepo
	pricing *fakePricingRepo
	profile *fakeProfileRepo
	gateway *fakeGateway
	uc      *UseCase
}

func newTestEnv() *testEnv {
	env := &testEnv{
		avail:   &fakeAvailability{result: availableCheck()},
		resRepo: &fakeReservationRepo{},
		eqRepo:  &fakeEquipmentRepo{stock: map[int64]int{5: 10}},
		pricing: &fakePricingRepo{},
		profile: &fakeProfileRepo{},
		gateway: &fakeGateway{},
	}
	env.uc = NewUseCase(
		env.avail, env.resRepo, env.eqRepo, env.pricing, env.profile,
		env.gateway, fakeTxManager{}, nil, nil, nopLogger{},
	)
	env.uc.timeProvider = &fixedTime{t: createNow}
	return env
}

func TestExecute_CardPaymentConfirmedImmediately(t *testing.T) {
	env := newTestEnv()

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, string(domain.PaymentPaid), resp.PaymentStatus)
	// 50 базовая + 2 x 5 инвентарь
	assert.Equal(t, 60.0, resp.Price.Total)
	assert.Equal(t, 50.0, resp.Price.Base)
	assert.Equal(t, 10.0, resp.Price.EquipmentCost)
	assert.False(t, resp.Replayed)

	require.Len(t, env.gateway.charges, 1)
	assert.Equal(t, 60.0, env.gateway.charges[0].Amount)
	assert.Equal(t, 2, env.eqRepo.decremented[5])
	assert.Equal(t, 60.0, env.profile.amount)
	assert.Len(t, env.resRepo.addedLines[resp.ID], 1)
}

func TestExecute_CashPaymentStaysPending(t *testing.T) {
	env := newTestEnv()
	req := validRequest()
	req.PaymentMethod = paygateway.MethodCash

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, string(domain.PaymentPending), resp.PaymentStatus)
	assert.Empty(t, env.gateway.charges)
	// Ресурсы удерживаются и для pending-брони
	assert.Equal(t, 2, env.eqRepo.decremented[5])
}

func TestExecute_PricingRulesApplied(t *testing.T) {
	env := newTestEnv()
	env.pricing.rules = []*domain.PricingRule{
		{Kind: domain.RulePeakHour, StartTime: "09:00", EndTime: "12:00", Multiplier: 1.2, IsActive: true},
	}

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// 50 * 1.2 + 10 инвентарь
	assert.InDelta(t, 70.0, resp.Price.Total, 1e-9)
	assert.InDelta(t, 60.0, resp.Price.Base, 1e-9)
}

func TestExecute_ConflictReasonPropagated(t *testing.T) {
	env := newTestEnv()
	env.avail.result = &availModels.CheckResult{
		Availability: domain.Unavailable(domain.ReasonCourtConflict, "court is booked"),
	}

	_, err := env.uc.Execute(context.Background(), validRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, domain.ReasonCourtConflict, conflict.Reason)

	// Ничего не записано и не списано
	assert.Empty(t, env.resRepo.created)
	assert.Empty(t, env.eqRepo.decremented)
	assert.Zero(t, env.profile.calls)
}

func TestExecute_StockExhaustedMapsToConflict(t *testing.T) {
	env := newTestEnv()
	env.eqRepo.stock[5] = 1 // меньше запрошенных двух

	_, err := env.uc.Execute(context.Background(), validRequest())
	require.Error(t, err)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, domain.ReasonInsufficientStock, conflict.Reason)
}

func TestExecute_PaymentDeclined(t *testing.T) {
	env := newTestEnv()
	env.gateway.declineAll = true

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrPaymentDeclined)
	assert.Zero(t, env.profile.calls)
}

func TestExecute_IdempotentReplay(t *testing.T) {
	env := newTestEnv()
	existing := &domain.Reservation{
		ID:        11,
		Reference: "BK1EXIST",
		UserID:    7,
		Status:    domain.StatusConfirmed,
	}
	env.resRepo.byIdemKey = map[string]*domain.Reservation{"key-1": existing}

	req := validRequest()
	req.IdempotencyKey = ptr.Ptr("key-1")

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, resp.Replayed)
	assert.Equal(t, int64(11), resp.ID)
	assert.Equal(t, "BK1EXIST", resp.Reference)
	assert.Empty(t, env.resRepo.created)
}

func TestExecute_ReferenceCollisionRetried(t *testing.T) {
	env := newTestEnv()
	env.resRepo.createErrs = []error{reservationRepo.ErrDuplicateReference}

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Reference)
	require.Len(t, env.resRepo.created, 1)
}

func TestExecute_ValidationErrors(t *testing.T) {
	env := newTestEnv()

	cases := map[string]func(*Request){
		"past start":         func(r *Request) { r.StartTime = createNow.Add(-time.Hour); r.EndTime = createNow },
		"inverted interval":  func(r *Request) { r.StartTime, r.EndTime = r.EndTime, r.StartTime },
		"too long":           func(r *Request) { r.EndTime = r.StartTime.Add(5 * time.Hour) },
		"bad payment method": func(r *Request) { r.PaymentMethod = "barter" },
		"zero court":         func(r *Request) { r.CourtID = 0 },
		"duplicate equipment": func(r *Request) {
			r.Equipment = []domain.EquipmentRequest{{EquipmentID: 5, Quantity: 1}, {EquipmentID: 5, Quantity: 2}}
		},
		"zero quantity": func(r *Request) {
			r.Equipment = []domain.EquipmentRequest{{EquipmentID: 5, Quantity: 0}}
		},
		"empty idempotency key": func(r *Request) { r.IdempotencyKey = ptr.Ptr("") },
		"crosses midnight": func(r *Request) {
			r.StartTime = time.Date(2025, 11, 6, 23, 0, 0, 0, time.UTC)
			r.EndTime = time.Date(2025, 11, 7, 1, 0, 0, 0, time.UTC)
		},
	}

	for name, mutate := range cases {
		req := validRequest()
		mutate(req)
		_, err := env.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput, name)
	}
}

func TestValidateRequest_MidnightBoundary(t *testing.T) {
	// Конец ровно в полночь принадлежит предыдущему дню (полуоткрытый
	// интервал), позже полуночи — уже следующий день
	req := validRequest()
	req.StartTime = time.Date(2025, 11, 6, 22, 0, 0, 0, time.UTC)
	req.EndTime = time.Date(2025, 11, 7, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, validateRequest(req, createNow))

	req.EndTime = time.Date(2025, 11, 7, 0, 30, 0, 0, time.UTC)
	assert.ErrorIs(t, validateRequest(req, createNow), ErrInvalidInput)
}

func TestExecute_AvailabilityErrorsMapped(t *testing.T) {
	env := newTestEnv()
	env.avail.result = nil
	env.avail.err = errors.New("wrapped: " + ErrCourtNotFound.Error())

	// Неизвестная ошибка сервиса доступности превращается во внутреннюю
	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestGenerateReference_Format(t *testing.T) {
	ref := generateReference(createNow, 12345)

	assert.Regexp(t, regexp.MustCompile(`^BK[0-9A-Z]+$`), ref)
	assert.True(t, len(ref) > len(domain.ReferencePrefix)+referenceSuffixLen)
}

func TestGenerateReference_DeterministicForSameInputs(t *testing.T) {
	a := generateReference(createNow, 777)
	b := generateReference(createNow, 777)
	c := generateReference(createNow, 778)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGenerateReference_NegativeEntropy(t *testing.T) {
	ref := generateReference(createNow, -42)
	assert.Regexp(t, regexp.MustCompile(`^BK[0-9A-Z]+$`), ref)
}
