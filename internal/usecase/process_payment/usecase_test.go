package process_payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Arena-BookingService/internal/domain"
	reservationRepo "github.com/m04kA/Arena-BookingService/internal/infra/storage/reservation"
	"github.com/m04kA/Arena-BookingService/internal/integrations/paygateway"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeReservationRepo struct {
	res *domain.Reservation

	updatedPayment domain.PaymentStatus
	updatedStatus  domain.ReservationStatus
	updateCalls    int
}

func (f *fakeReservationRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	if f.res == nil || f.res.ID != id {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return f.res, nil
}

func (f *fakeReservationRepo) UpdatePayment(_ context.Context, _ int64, paymentStatus domain.PaymentStatus, status domain.ReservationStatus) error {
	f.updatedPayment = paymentStatus
	f.updatedStatus = status
	f.updateCalls++
	return nil
}

type fakeEquipmentRepo struct {
	released map[int64]int
}

func (f *fakeEquipmentRepo) ReleaseStock(_ context.Context, id int64, qty int) error {
	if f.released == nil {
		f.released = make(map[int64]int)
	}
	f.released[id] += qty
	return nil
}

type fakeProfileRepo struct {
	amount float64
	calls  int
}

func (f *fakeProfileRepo) RecordCancellation(_ context.Context, _ int64, amount float64) error {
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

func pendingReservation() *domain.Reservation {
	start := time.Date(2025, 11, 6, 10, 0, 0, 0, time.UTC)
	return &domain.Reservation{
		ID:            42,
		Reference:     "BK1TEST",
		UserID:        7,
		CourtID:       3,
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPending,
		PaymentMethod: paygateway.MethodCash,
		Price:         domain.PriceBreakdown{Base: 50, EquipmentCost: 10, Total: 60},
		Equipment: []domain.EquipmentLine{
			{EquipmentID: 5, Quantity: 2, PricePerUnit: 5},
		},
	}
}

func newTestUseCase(resRepo *fakeReservationRepo, eqRepo *fakeEquipmentRepo, profRepo *fakeProfileRepo, gw *fakeGateway) *UseCase {
	return NewUseCase(resRepo, eqRepo, profRepo, gw, fakeTxManager{}, nil, nil, nopLogger{})
}

func TestExecute_SuccessConfirmsReservation(t *testing.T) {
	resRepo := &fakeReservationRepo{res: pendingReservation()}
	gw := &fakeGateway{}
	uc := newTestUseCase(resRepo, &fakeEquipmentRepo{}, &fakeProfileRepo{}, gw)

	resp, err := uc.Execute(context.Background(), &Request{
		ReservationID: 42,
		RequesterID:   7,
		Method:        paygateway.MethodCard,
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, string(domain.PaymentPaid), resp.PaymentStatus)
	assert.Equal(t, 60.0, resp.AmountCharged)

	require.Len(t, gw.charges, 1)
	assert.Equal(t, 60.0, gw.charges[0].Amount)
	assert.Equal(t, domain.PaymentPaid, resRepo.updatedPayment)
	assert.Equal(t, domain.StatusConfirmed, resRepo.updatedStatus)
}

func TestExecute_DeclineFailsReservationAndReleasesResources(t *testing.T) {
	resRepo := &fakeReservationRepo{res: pendingReservation()}
	eqRepo := &fakeEquipmentRepo{}
	profRepo := &fakeProfileRepo{}
	uc := newTestUseCase(resRepo, eqRepo, profRepo, &fakeGateway{declineAll: true})

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 42,
		RequesterID:   7,
		Method:        paygateway.MethodCard,
	})
	assert.ErrorIs(t, err, ErrPaymentDeclined)

	// Инвентарь вернулся, бронирование failed, агрегаты откатились
	assert.Equal(t, 2, eqRepo.released[5])
	assert.Equal(t, domain.PaymentFailed, resRepo.updatedPayment)
	assert.Equal(t, domain.StatusFailed, resRepo.updatedStatus)
	assert.Equal(t, 60.0, profRepo.amount)
}

func TestExecute_NotPayableStatuses(t *testing.T) {
	cases := []struct {
		status  domain.ReservationStatus
		payment domain.PaymentStatus
	}{
		{domain.StatusConfirmed, domain.PaymentPaid},
		{domain.StatusCancelled, domain.PaymentRefunded},
		{domain.StatusFailed, domain.PaymentFailed},
		{domain.StatusPending, domain.PaymentPaid},
	}

	for _, tc := range cases {
		res := pendingReservation()
		res.Status = tc.status
		res.PaymentStatus = tc.payment
		resRepo := &fakeReservationRepo{res: res}
		uc := newTestUseCase(resRepo, &fakeEquipmentRepo{}, &fakeProfileRepo{}, &fakeGateway{})

		_, err := uc.Execute(context.Background(), &Request{
			ReservationID: 42, RequesterID: 7, Method: paygateway.MethodCard,
		})
		assert.ErrorIs(t, err, ErrNotPayable, "status=%s payment=%s", tc.status, tc.payment)
		assert.Zero(t, resRepo.updateCalls)
	}
}

func TestExecute_AccessDenied(t *testing.T) {
	resRepo := &fakeReservationRepo{res: pendingReservation()}
	uc := newTestUseCase(resRepo, &fakeEquipmentRepo{}, &fakeProfileRepo{}, &fakeGateway{})

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 42, RequesterID: 99, Method: paygateway.MethodCard,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_NotFound(t *testing.T) {
	uc := newTestUseCase(&fakeReservationRepo{}, &fakeEquipmentRepo{}, &fakeProfileRepo{}, &fakeGateway{})

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 42, RequesterID: 7, Method: paygateway.MethodCard,
	})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestExecute_UnsupportedMethod(t *testing.T) {
	uc := newTestUseCase(&fakeReservationRepo{res: pendingReservation()}, &fakeEquipmentRepo{}, &fakeProfileRepo{}, &fakeGateway{})

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 42, RequesterID: 7, Method: "barter",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
