package service

import (
	"context"
	"io"
	"time"

	"bondpay/events"
	"bondpay/models"

	"github.com/shopspring/decimal"
)

// BondIssueRepository defines the interface for bond issue data access
type BondIssueRepository interface {
	// GetByID retrieves a bond issue by its ID
	GetByID(ctx context.Context, id int64) (*models.BondIssue, error)

	// Create creates a new bond issue
	Create(ctx context.Context, issue *models.BondIssue) error

	// GetAll returns all bond issues
	GetAll(ctx context.Context) ([]*models.BondIssue, error)
}

// MemberHoldingRepository defines the interface for holdings snapshot access
type MemberHoldingRepository interface {
	// Upsert creates or replaces one member's snapshot for a bond and date
	Upsert(ctx context.Context, holding *models.MemberHolding) error

	// GetByBondAsOf returns, per member, the newest snapshot at or before
	// asOf for the bond, restricted to positive share counts
	GetByBondAsOf(ctx context.Context, bondID int64, asOf time.Time) ([]*models.MemberHolding, error)
}

// PaymentEventRepository defines the interface for payment event data access
type PaymentEventRepository interface {
	// Create creates a new payment event
	Create(ctx context.Context, event *models.PaymentEvent) error

	// GetByID retrieves a payment event by its ID
	GetByID(ctx context.Context, id int64) (*models.PaymentEvent, error)

	// GetByIDForUpdate retrieves a payment event and takes a row lock on
	// it, serializing concurrent generate/recalculate calls for the event.
	// Only valid inside a transaction.
	GetByIDForUpdate(ctx context.Context, id int64) (*models.PaymentEvent, error)

	// GetAll returns all payment events
	GetAll(ctx context.Context) ([]*models.PaymentEvent, error)

	// GetIDsWithRecords returns the ids of events that have generated
	// payment records
	GetIDsWithRecords(ctx context.Context) ([]int64, error)

	// UpdateExpectedTotals sets the event's statement-supplied expected
	// net totals
	UpdateExpectedTotals(ctx context.Context, id int64, netMaturity, netCoupon decimal.Decimal) error
}

// MemberPaymentRecordRepository defines the interface for computed payment
// record data access. Records are owned entirely by the payment lifecycle:
// generate creates them, recalculate replaces them, nothing else writes.
type MemberPaymentRecordRepository interface {
	// CreateBatch inserts all records in one bulk operation
	CreateBatch(ctx context.Context, records []*models.MemberPaymentRecord) error

	// GetByEvent returns all records for an event ordered by member id
	GetByEvent(ctx context.Context, eventID int64) ([]*models.MemberPaymentRecord, error)

	// CountByEvent returns the number of records for an event
	CountByEvent(ctx context.Context, eventID int64) (int64, error)

	// DeleteByEvent deletes all records for an event, returning the count
	DeleteByEvent(ctx context.Context, eventID int64) (int64, error)

	// SumNetByEvent aggregates the event's persisted net figures
	SumNetByEvent(ctx context.Context, eventID int64) (*models.RecordTotals, error)
}

// PaymentService defines the payment event lifecycle operations
type PaymentService interface {
	// Preview computes every eligible member's result without persisting
	// anything. Safe to call any number of times in any state.
	Preview(ctx context.Context, eventID int64) (*models.PreviewResult, error)

	// Generate computes and persists one record per eligible member.
	// Fails with ErrAlreadyGenerated if records already exist.
	Generate(ctx context.Context, eventID int64) (int, error)

	// Recalculate atomically replaces all of the event's records with a
	// fresh computation. A failure partway leaves the prior rows intact.
	Recalculate(ctx context.Context, eventID int64) (int, error)
}

// AuditService defines the reconciliation operations
type AuditService interface {
	// Audit compares calculated and expected totals for the given events,
	// or for all events with generated records when eventIDs is empty
	Audit(ctx context.Context, eventIDs []int64) (*models.AuditReport, error)
}

// StatementImportResult summarizes one expected-totals upload
type StatementImportResult struct {
	RowsProcessed int
	RowsApplied   int
	Errors        []RowError
}

// StatementService defines the expected-totals ingestion operations
type StatementService interface {
	// ImportExpectedTotals reads CSV rows of
	// event_id,expected_total_net_maturity,expected_total_net_coupon and
	// applies each valid row to its event. Malformed rows are collected
	// into the result without aborting the batch.
	ImportExpectedTotals(ctx context.Context, r io.Reader) (*StatementImportResult, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	BondIssueRepository() BondIssueRepository
	MemberHoldingRepository() MemberHoldingRepository
	PaymentEventRepository() PaymentEventRepository
	MemberPaymentRecordRepository() MemberPaymentRecordRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
