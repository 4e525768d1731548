package cancel_reservation

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

var cancelNow = time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)

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

type fakeReservationRepo struct {
	res *domain.Reservation

	cancelledID     int64
	cancelledReason string
	cancelledPay    domain.PaymentStatus
}

func (f *fakeReservationRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	if f.res == nil || f.res.ID != id {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return f.res, nil
}

func (f *fakeReservationRepo) Cancel(_ context.Context, id int64, reason string, paymentStatus domain.PaymentStatus) error {
	f.cancelledID = id
	f.cancelledReason = reason
	f.cancelledPay = paymentStatus
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
	userID int64
	amount float64
	calls  int
}

func (f *fakeProfileRepo) RecordCancellation(_ context.Context, userID int64, amount float64) error {
	f.userID = userID
	f.amount = amount
	f.calls++
	return nil
}

type fakeGateway struct {
	refunds []paygateway.RefundRequest
}

func (f *fakeGateway) Refund(_ context.Context, req paygateway.RefundRequest) (*paygateway.RefundResult, error) {
	f.refunds = append(f.refunds, req)
	return &paygateway.RefundResult{TransactionID: "RF-TEST", Amount: req.Amount}, nil
}

func paidReservation(startsIn time.Duration) *domain.Reservation {
	return &domain.Reservation{
		ID:            42,
		Reference:     "BK1TEST",
		UserID:        7,
		FacilityID:    1,
		CourtID:       3,
		StartTime:     cancelNow.Add(startsIn),
		EndTime:       cancelNow.Add(startsIn + time.Hour),
		Status:        domain.StatusConfirmed,
		PaymentStatus: domain.PaymentPaid,
		PaymentMethod: paygateway.MethodCard,
		Price:         domain.PriceBreakdown{Base: 60, EquipmentCost: 10, CoachCost: 30, Total: 100},
		Equipment: []domain.EquipmentLine{
			{EquipmentID: 5, Quantity: 2, PricePerUnit: 5},
		},
	}
}

func newTestUseCase(resRepo *fakeReservationRepo, eqRepo *fakeEquipmentRepo, profRepo *fakeProfileRepo, gw *fakeGateway) *UseCase {
	uc := NewUseCase(resRepo, eqRepo, profRepo, gw, fakeTxManager{}, nil, nil, nopLogger{})
	uc.timeProvider = &fixedTime{t: cancelNow}
	return uc
}

func TestRefundPercentage_Tiers(t *testing.T) {
	assert.Equal(t, 100, refundPercentage(30))
	assert.Equal(t, 100, refundPercentage(24))
	assert.Equal(t, 50, refundPercentage(23.99))
	assert.Equal(t, 50, refundPercentage(2))
	assert.Equal(t, 0, refundPercentage(1.99))
	assert.Equal(t, 0, refundPercentage(0))
	assert.Equal(t, 0, refundPercentage(-5))
}

func TestExecute_FullRefund(t *testing.T) {
	resRepo := &fakeReservationRepo{res: paidReservation(30 * time.Hour)}
	eqRepo := &fakeEquipmentRepo{}
	profRepo := &fakeProfileRepo{}
	gw := &fakeGateway{}
	uc := newTestUseCase(resRepo, eqRepo, profRepo, gw)

	resp, err := uc.Execute(context.Background(), &Request{
		ReservationID: 42,
		RequesterID:   7,
		Reason:        "plans changed",
	})
	require.NoError(t, err)

	assert.Equal(t, 100, resp.RefundPercentage)
	assert.Equal(t, 100.0, resp.RefundAmount)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, string(domain.PaymentRefunded), resp.PaymentStatus)

	// Инвентарь вернулся на склад, платеж возвращен, агрегаты откатились
	assert.Equal(t, 2, eqRepo.released[5])
	require.Len(t, gw.refunds, 1)
	assert.Equal(t, 100.0, gw.refunds[0].Amount)
	assert.Equal(t, int64(7), profRepo.userID)
	assert.Equal(t, 100.0, profRepo.amount)
	assert.Equal(t, domain.PaymentRefunded, resRepo.cancelledPay)
	assert.Equal(t, "plans changed", resRepo.cancelledReason)
}

func TestExecute_PartialRefund(t *testing.T) {
	resRepo := &fakeReservationRepo{res: paidReservation(10 * time.Hour)}
	gw := &fakeGateway{}
	uc := newTestUseCase(resRepo, &fakeEquipmentRepo{}, &fakeProfileRepo{}, gw)

	resp, err := uc.Execute(context.Background(), &Request{ReservationID: 42, RequesterID: 7})
	require.NoError(t, err)

	assert.Equal(t, 50, resp.RefundPercentage)
	assert.Equal(t, 50.0, resp.RefundAmount)
	require.Len(t, gw.refunds, 1)
	assert.Equal(t, 50.0, gw.refunds[0].Amount)
}

func TestExecute_NoRefundInsideWindow(t *testing.T) {
	resRepo := &fakeReservationRepo{res: paidReservation(time.Hour)}
	gw := &fakeGateway{}
	uc := newTestUseCase(resRepo, &fakeEquipmentRepo{}, &fakeProfileRepo{}, gw)

	resp, err := uc.Execute(context.Background(), &Request{ReservationID: 42, RequesterID: 7})
	require.NoError(t, err)

	// Платеж помечается возвращенным, но шлюз не вызывается на нулевую сумму
	assert.Equal(t, 0, resp.RefundPercentage)
	assert.Equal(t, 0.0, resp.RefundAmount)
	assert.Empty(t, gw.refunds)
	assert.Equal(t, domain.PaymentRefunded, resRepo.cancelledPay)
}

func TestExecute_PendingPaymentNoGatewayCall(t *testing.T) {
	res := paidReservation(30 * time.Hour)
	res.Status = domain.StatusPending
	res.PaymentStatus = domain.PaymentPending
	resRepo := &fakeReservationRepo{res: res}
	gw := &fakeGateway{}
	uc := newTestUseCase(resRepo, &fakeEquipmentRepo{}, &fakeProfileRepo{}, gw)

	resp, err := uc.Execute(context.Background(), &Request{ReservationID: 42, RequesterID: 7})
	require.NoError(t, err)

	assert.Equal(t, 100, resp.RefundPercentage)
	assert.Equal(t, 0.0, resp.RefundAmount)
	assert.Empty(t, gw.refunds)
	assert.Equal(t, domain.PaymentPending, resRepo.cancelledPay)
}

func TestExecute_TerminalStatusFails(t *testing.T) {
	for _, status := range []domain.ReservationStatus{
		domain.StatusCancelled,
		domain.StatusCompleted,
		domain.StatusNoShow,
		domain.StatusFailed,
	} {
		res := paidReservation(30 * time.Hour)
		res.Status = status
		resRepo := &fakeReservationRepo{res: res}
		profRepo := &fakeProfileRepo{}
		uc := newTestUseCase(resRepo, &fakeEquipmentRepo{}, profRepo, &fakeGateway{})

		_, err := uc.Execute(context.Background(), &Request{ReservationID: 42, RequesterID: 7})
		assert.ErrorIs(t, err, ErrAlreadyCancelled, "status=%s", status)
		assert.Zero(t, resRepo.cancelledID)
		assert.Zero(t, profRepo.calls)
	}
}

func TestExecute_AccessDeniedForOtherUser(t *testing.T) {
	resRepo := &fakeReservationRepo{res: paidReservation(30 * time.Hour)}
	uc := newTestUseCase(resRepo, &fakeEquipmentRepo{}, &fakeProfileRepo{}, &fakeGateway{})

	_, err := uc.Execute(context.Background(), &Request{ReservationID: 42, RequesterID: 99})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_AdminCanCancelOtherUsers(t *testing.T) {
	resRepo := &fakeReservationRepo{res: paidReservation(30 * time.Hour)}
	uc := newTestUseCase(resRepo, &fakeEquipmentRepo{}, &fakeProfileRepo{}, &fakeGateway{})

	_, err := uc.Execute(context.Background(), &Request{ReservationID: 42, RequesterID: 99, IsAdmin: true})
	assert.NoError(t, err)
}

func TestExecute_NotFound(t *testing.T) {
	uc := newTestUseCase(&fakeReservationRepo{}, &fakeEquipmentRepo{}, &fakeProfileRepo{}, &fakeGateway{})

	_, err := uc.Execute(context.Background(), &Request{ReservationID: 42, RequesterID: 7})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}
