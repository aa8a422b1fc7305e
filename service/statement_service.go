package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"bondpay/events"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type statementService struct {
	uowFactory UnitOfWorkFactory
}

// NewStatementService creates a new expected-totals ingestion service
func NewStatementService(uowFactory UnitOfWorkFactory) StatementService {
	return &statementService{
		uowFactory: uowFactory,
	}
}

// ImportExpectedTotals reads CSV rows of
// event_id,expected_total_net_maturity,expected_total_net_coupon and sets
// each event's expected totals. A header row is skipped when present.
// Malformed rows and unknown event ids are collected as row errors and the
// remaining rows still apply; all applied rows commit together.
func (s *statementService) ImportExpectedTotals(ctx context.Context, r io.Reader) (*StatementImportResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := &StatementImportResult{}
	line := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.RowsProcessed++
			result.Errors = append(result.Errors, RowError{Line: line, Err: err})
			continue
		}

		// A leading header row is allowed
		if line == 1 && len(row) > 0 {
			if _, err := strconv.ParseInt(row[0], 10, 64); err != nil {
				continue
			}
		}

		result.RowsProcessed++
		if rowErr := s.applyRow(ctx, uow, row); rowErr != nil {
			result.Errors = append(result.Errors, RowError{Line: line, Err: rowErr})
			continue
		}
		result.RowsApplied++
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"rowsProcessed": result.RowsProcessed,
		"rowsApplied":   result.RowsApplied,
		"rowErrors":     len(result.Errors),
	}).Info("Imported expected totals statement")

	return result, nil
}

func (s *statementService) applyRow(ctx context.Context, uow UnitOfWork, row []string) error {
	if len(row) != 3 {
		return fmt.Errorf("expected 3 columns, got %d", len(row))
	}

	eventID, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid event id %q: %w", row[0], err)
	}

	netMaturity, err := decimal.NewFromString(row[1])
	if err != nil {
		return fmt.Errorf("invalid expected net maturity %q: %w", row[1], err)
	}

	netCoupon, err := decimal.NewFromString(row[2])
	if err != nil {
		return fmt.Errorf("invalid expected net coupon %q: %w", row[2], err)
	}

	event, err := uow.PaymentEventRepository().GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to get payment event: %w", err)
	}
	if event == nil {
		return fmt.Errorf("payment event %d: %w", eventID, ErrNotFound)
	}

	if err := uow.PaymentEventRepository().UpdateExpectedTotals(ctx, eventID, netMaturity, netCoupon); err != nil {
		return err
	}

	uow.EventBus().Publish(events.ExpectedTotalsUpdatedEvent{
		PaymentEventID:      eventID,
		ExpectedNetMaturity: netMaturity,
		ExpectedNetCoupon:   netCoupon,
	})

	return nil
}
