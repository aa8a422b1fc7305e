package service

import (
	"context"
	"testing"
	"time"

	"bondpay/events"
	"bondpay/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type paymentServiceFixture struct {
	service     PaymentService
	uow         *MockUnitOfWork
	eventRepo   *MockPaymentEventRepository
	holdingRepo *MockMemberHoldingRepository
	recordRepo  *MockMemberPaymentRecordRepository
}

func setupPaymentService(t *testing.T) *paymentServiceFixture {
	t.Helper()

	eventRepo := new(MockPaymentEventRepository)
	holdingRepo := new(MockMemberHoldingRepository)
	recordRepo := new(MockMemberPaymentRecordRepository)

	uow := new(MockUnitOfWork)
	uow.SetRepositories(new(MockBondIssueRepository), holdingRepo, eventRepo, recordRepo)

	factory := new(MockUnitOfWorkFactory)
	factory.On("Create").Return(uow)

	return &paymentServiceFixture{
		service:     NewPaymentService(factory),
		uow:         uow,
		eventRepo:   eventRepo,
		holdingRepo: holdingRepo,
		recordRepo:  recordRepo,
	}
}

func couponEvent(id, bondID int64) *models.PaymentEvent {
	return &models.PaymentEvent{
		ID:                 id,
		BondID:             bondID,
		EventType:          models.EventTypeCoupon,
		PaymentDate:        time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		BaseRate:           decimal.RequireFromString("0.10"),
		WithholdingTaxRate: decimal.RequireFromString("0.15"),
		BOZFeeRate:         decimal.RequireFromString("0.01"),
		CoopFeeRate:        decimal.RequireFromString("0.02"),
		BOZAwardAmount:     decimal.Zero,
	}
}

func maturityEvent(id, bondID int64, awardAmount string) *models.PaymentEvent {
	event := couponEvent(id, bondID)
	event.EventType = models.EventTypeMaturity
	event.BOZAwardAmount = decimal.RequireFromString(awardAmount)
	return event
}

func TestPaymentService_Preview(t *testing.T) {
	f := setupPaymentService(t)
	ctx := context.Background()
	event := couponEvent(1, 10)

	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.eventRepo.On("GetByID", ctx, int64(1)).Return(event, nil)
	f.holdingRepo.On("GetByBondAsOf", ctx, int64(10), event.PaymentDate).Return([]*models.MemberHolding{
		holding(1, "6000", "6000.00"),
		holding(2, "4000", "4000.00"),
	}, nil)

	result, err := f.service.Preview(ctx, 1)

	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Equal(t, event, result.Event)

	// 6000 * 0.05 = 300 gross, net 246; 4000 * 0.05 = 200 gross, net 164
	assert.Equal(t, "300.00", result.Records[0].CouponBaseAmount.StringFixed(2))
	assert.Equal(t, "246.00", result.Records[0].NetCouponPayment.StringFixed(2))
	assert.Equal(t, "164.00", result.Records[1].NetCouponPayment.StringFixed(2))
	assert.Equal(t, "410.00", result.TotalNetCoupon.StringFixed(2))

	// Preview never persists or commits
	f.uow.AssertNotCalled(t, "Commit")
	f.recordRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	f.uow.AssertExpectations(t)
}

func TestPaymentService_Preview_EventNotFound(t *testing.T) {
	f := setupPaymentService(t)
	ctx := context.Background()

	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.eventRepo.On("GetByID", ctx, int64(99)).Return(nil, nil)

	_, err := f.service.Preview(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPaymentService_Generate(t *testing.T) {
	f := setupPaymentService(t)
	ctx := context.Background()
	event := maturityEvent(1, 10, "1000.00")

	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.uow.On("Commit").Return(nil)
	f.eventRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(event, nil)
	f.recordRepo.On("CountByEvent", ctx, int64(1)).Return(int64(0), nil)
	f.holdingRepo.On("GetByBondAsOf", ctx, int64(10), event.PaymentDate).Return([]*models.MemberHolding{
		holding(1, "6000", "6000.00"),
		holding(2, "4000", "4000.00"),
	}, nil)

	var inserted []*models.MemberPaymentRecord
	f.recordRepo.On("CreateBatch", ctx, mock.Anything).Run(func(args mock.Arguments) {
		inserted = args.Get(1).([]*models.MemberPaymentRecord)
	}).Return(nil)

	count, err := f.service.Generate(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, inserted, 2)

	// Award slices are proportional and sum to the BOZ award exactly
	assert.Equal(t, "600.00", inserted[0].BOZAwardValue.StringFixed(2))
	assert.Equal(t, "400.00", inserted[1].BOZAwardValue.StringFixed(2))

	published := f.uow.PublishedEvents()
	require.Len(t, published, 1)
	generated, ok := published[0].(events.RecordsGeneratedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(1), generated.PaymentEventID)
	assert.Equal(t, 2, generated.RecordCount)

	f.uow.AssertExpectations(t)
	f.recordRepo.AssertExpectations(t)
}

func TestPaymentService_Generate_AlreadyGenerated(t *testing.T) {
	f := setupPaymentService(t)
	ctx := context.Background()
	event := couponEvent(1, 10)

	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.eventRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(event, nil)
	f.recordRepo.On("CountByEvent", ctx, int64(1)).Return(int64(5), nil)

	_, err := f.service.Generate(ctx, 1)

	assert.ErrorIs(t, err, ErrAlreadyGenerated)
	f.uow.AssertNotCalled(t, "Commit")
	f.recordRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestPaymentService_Generate_EventNotFound(t *testing.T) {
	f := setupPaymentService(t)
	ctx := context.Background()

	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.eventRepo.On("GetByIDForUpdate", ctx, int64(42)).Return(nil, nil)

	_, err := f.service.Generate(ctx, 42)

	assert.ErrorIs(t, err, ErrNotFound)
	f.uow.AssertNotCalled(t, "Commit")
}

func TestPaymentService_Generate_NoHoldings(t *testing.T) {
	f := setupPaymentService(t)
	ctx := context.Background()
	event := couponEvent(1, 10)

	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.eventRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(event, nil)
	f.recordRepo.On("CountByEvent", ctx, int64(1)).Return(int64(0), nil)
	f.holdingRepo.On("GetByBondAsOf", ctx, int64(10), event.PaymentDate).Return([]*models.MemberHolding{}, nil)

	_, err := f.service.Generate(ctx, 1)

	assert.ErrorIs(t, err, ErrNoHoldings)
	f.uow.AssertNotCalled(t, "Commit")
}

func TestPaymentService_Recalculate(t *testing.T) {
	f := setupPaymentService(t)
	ctx := context.Background()
	event := couponEvent(1, 10)

	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.uow.On("Commit").Return(nil)
	f.eventRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(event, nil)
	f.holdingRepo.On("GetByBondAsOf", ctx, int64(10), event.PaymentDate).Return([]*models.MemberHolding{
		holding(1, "6000", "6000.00"),
		holding(2, "4000", "4000.00"),
		holding(3, "1000", "1000.00"),
	}, nil)
	f.recordRepo.On("DeleteByEvent", ctx, int64(1)).Return(int64(2), nil)
	f.recordRepo.On("CreateBatch", ctx, mock.Anything).Return(nil)

	count, err := f.service.Recalculate(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, 3, count)

	published := f.uow.PublishedEvents()
	require.Len(t, published, 1)
	recalculated, ok := published[0].(events.RecordsRecalculatedEvent)
	require.True(t, ok)
	assert.Equal(t, 3, recalculated.RecordCount)

	f.uow.AssertExpectations(t)
	f.recordRepo.AssertExpectations(t)
}

func TestPaymentService_Recalculate_EventNotFound(t *testing.T) {
	f := setupPaymentService(t)
	ctx := context.Background()

	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Rollback").Return(nil)
	f.eventRepo.On("GetByIDForUpdate", ctx, int64(7)).Return(nil, nil)

	_, err := f.service.Recalculate(ctx, 7)

	assert.ErrorIs(t, err, ErrNotFound)
	f.uow.AssertNotCalled(t, "Commit")
	f.recordRepo.AssertNotCalled(t, "DeleteByEvent", mock.Anything, mock.Anything)
}
