package service

import (
	"context"
	"time"

	"bondpay/events"
	"bondpay/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockBondIssueRepository is a mock implementation of BondIssueRepository
type MockBondIssueRepository struct {
	mock.Mock
}

func (m *MockBondIssueRepository) GetByID(ctx context.Context, id int64) (*models.BondIssue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BondIssue), args.Error(1)
}

func (m *MockBondIssueRepository) Create(ctx context.Context, issue *models.BondIssue) error {
	args := m.Called(ctx, issue)
	return args.Error(0)
}

func (m *MockBondIssueRepository) GetAll(ctx context.Context) ([]*models.BondIssue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BondIssue), args.Error(1)
}

// MockMemberHoldingRepository is a mock implementation of MemberHoldingRepository
type MockMemberHoldingRepository struct {
	mock.Mock
}

func (m *MockMemberHoldingRepository) Upsert(ctx context.Context, holding *models.MemberHolding) error {
	args := m.Called(ctx, holding)
	return args.Error(0)
}

func (m *MockMemberHoldingRepository) GetByBondAsOf(ctx context.Context, bondID int64, asOf time.Time) ([]*models.MemberHolding, error) {
	args := m.Called(ctx, bondID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MemberHolding), args.Error(1)
}

// MockPaymentEventRepository is a mock implementation of PaymentEventRepository
type MockPaymentEventRepository struct {
	mock.Mock
}

func (m *MockPaymentEventRepository) Create(ctx context.Context, event *models.PaymentEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPaymentEventRepository) GetByID(ctx context.Context, id int64) (*models.PaymentEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentEvent), args.Error(1)
}

func (m *MockPaymentEventRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.PaymentEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentEvent), args.Error(1)
}

func (m *MockPaymentEventRepository) GetAll(ctx context.Context) ([]*models.PaymentEvent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PaymentEvent), args.Error(1)
}

func (m *MockPaymentEventRepository) GetIDsWithRecords(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockPaymentEventRepository) UpdateExpectedTotals(ctx context.Context, id int64, netMaturity, netCoupon decimal.Decimal) error {
	args := m.Called(ctx, id, netMaturity, netCoupon)
	return args.Error(0)
}

// MockMemberPaymentRecordRepository is a mock implementation of MemberPaymentRecordRepository
type MockMemberPaymentRecordRepository struct {
	mock.Mock
}

func (m *MockMemberPaymentRecordRepository) CreateBatch(ctx context.Context, records []*models.MemberPaymentRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockMemberPaymentRecordRepository) GetByEvent(ctx context.Context, eventID int64) ([]*models.MemberPaymentRecord, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MemberPaymentRecord), args.Error(1)
}

func (m *MockMemberPaymentRecordRepository) CountByEvent(ctx context.Context, eventID int64) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberPaymentRecordRepository) DeleteByEvent(ctx context.Context, eventID int64) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberPaymentRecordRepository) SumNetByEvent(ctx context.Context, eventID int64) (*models.RecordTotals, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecordTotals), args.Error(1)
}

// MockEventPublisher records published events for assertions
type MockEventPublisher struct {
	Published []events.Event
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Published = append(m.Published, event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	bondIssueRepo     BondIssueRepository
	holdingRepo       MemberHoldingRepository
	paymentEventRepo  PaymentEventRepository
	paymentRecordRepo MemberPaymentRecordRepository
	eventPublisher    *MockEventPublisher
}

// SetRepositories wires the repositories the unit of work hands out
func (m *MockUnitOfWork) SetRepositories(
	bondIssueRepo BondIssueRepository,
	holdingRepo MemberHoldingRepository,
	paymentEventRepo PaymentEventRepository,
	paymentRecordRepo MemberPaymentRecordRepository,
) {
	m.bondIssueRepo = bondIssueRepo
	m.holdingRepo = holdingRepo
	m.paymentEventRepo = paymentEventRepo
	m.paymentRecordRepo = paymentRecordRepo
	m.eventPublisher = &MockEventPublisher{}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) BondIssueRepository() BondIssueRepository {
	return m.bondIssueRepo
}

func (m *MockUnitOfWork) MemberHoldingRepository() MemberHoldingRepository {
	return m.holdingRepo
}

func (m *MockUnitOfWork) PaymentEventRepository() PaymentEventRepository {
	return m.paymentEventRepo
}

func (m *MockUnitOfWork) MemberPaymentRecordRepository() MemberPaymentRecordRepository {
	return m.paymentRecordRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventPublisher
}

// PublishedEvents returns the events published through this unit of work
func (m *MockUnitOfWork) PublishedEvents() []events.Event {
	return m.eventPublisher.Published
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
