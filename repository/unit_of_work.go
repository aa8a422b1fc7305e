package repository

import (
	"context"
	"fmt"

	"bondpay/database"
	"bondpay/events"
	"bondpay/service"
	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	bondIssueRepo    service.BondIssueRepository
	holdingRepo      service.MemberHoldingRepository
	paymentEventRepo service.PaymentEventRepository
	paymentRecordRepo service.MemberPaymentRecordRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories bound to the transaction
	u.bondIssueRepo = newBondIssueRepositoryWithTx(tx)
	u.holdingRepo = newMemberHoldingRepositoryWithTx(tx)
	u.paymentEventRepo = newPaymentEventRepositoryWithTx(tx)
	u.paymentRecordRepo = newMemberPaymentRecordRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events only after a successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// BondIssueRepository returns the bond issue repository for this unit of work
func (u *unitOfWork) BondIssueRepository() service.BondIssueRepository {
	if u.bondIssueRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.bondIssueRepo
}

// MemberHoldingRepository returns the member holding repository for this unit of work
func (u *unitOfWork) MemberHoldingRepository() service.MemberHoldingRepository {
	if u.holdingRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.holdingRepo
}

// PaymentEventRepository returns the payment event repository for this unit of work
func (u *unitOfWork) PaymentEventRepository() service.PaymentEventRepository {
	if u.paymentEventRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.paymentEventRepo
}

// MemberPaymentRecordRepository returns the payment record repository for this unit of work
func (u *unitOfWork) MemberPaymentRecordRepository() service.MemberPaymentRecordRepository {
	if u.paymentRecordRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.paymentRecordRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
