package service

import (
	"context"
	"fmt"

	"bondpay/events"
	"bondpay/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type auditService struct {
	uowFactory UnitOfWorkFactory
	tolerance  decimal.Decimal
}

// NewAuditService creates a new reconciliation service. tolerance is the
// maximum |calculated - expected| absorbed as rounding noise.
func NewAuditService(uowFactory UnitOfWorkFactory, tolerance decimal.Decimal) AuditService {
	return &auditService{
		uowFactory: uowFactory,
		tolerance:  tolerance,
	}
}

// Audit compares each event's calculated net totals against the
// statement-supplied expected totals. Events without generated records are
// reported with zero calculated totals, never skipped, so a missing
// generation is visible as a discrepancy whenever anything was expected.
func (s *auditService) Audit(ctx context.Context, eventIDs []int64) (*models.AuditReport, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if len(eventIDs) == 0 {
		var err error
		eventIDs, err = uow.PaymentEventRepository().GetIDsWithRecords(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list events with records: %w", err)
		}
	}

	report := &models.AuditReport{
		PerEvent: make([]*models.EventAuditReport, 0, len(eventIDs)),
	}

	for _, eventID := range eventIDs {
		eventReport, err := s.auditEvent(ctx, uow, eventID)
		if err != nil {
			return nil, err
		}

		report.PerEvent = append(report.PerEvent, eventReport)
		report.Summary.EventCount++
		report.Summary.TotalCalculatedNet = report.Summary.TotalCalculatedNet.
			Add(eventReport.CalculatedNetMaturity).Add(eventReport.CalculatedNetCoupon)
		report.Summary.TotalExpectedNet = report.Summary.TotalExpectedNet.
			Add(eventReport.ExpectedNetMaturity).Add(eventReport.ExpectedNetCoupon)
		report.Summary.TotalDifference = report.Summary.TotalDifference.
			Add(eventReport.MaturityDifference).Add(eventReport.CouponDifference)

		if eventReport.HasDiscrepancy {
			report.Summary.DiscrepancyCount++

			uow.EventBus().Publish(events.DiscrepancyFoundEvent{
				PaymentEventID:     eventID,
				MaturityDifference: eventReport.MaturityDifference,
				CouponDifference:   eventReport.CouponDifference,
			})
		}
	}

	report.Summary.HasOverallDiscrepancy = report.Summary.DiscrepancyCount > 0

	// Commit the read-only transaction so discrepancy events flush
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"eventCount":       report.Summary.EventCount,
		"discrepancyCount": report.Summary.DiscrepancyCount,
	}).Info("Audit completed")

	return report, nil
}

func (s *auditService) auditEvent(ctx context.Context, uow UnitOfWork, eventID int64) (*models.EventAuditReport, error) {
	event, err := uow.PaymentEventRepository().GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("payment event %d: %w", eventID, ErrNotFound)
	}

	totals, err := uow.MemberPaymentRecordRepository().SumNetByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum records for event %d: %w", eventID, err)
	}

	// An expected total never uploaded counts as zero, so calculated
	// figures without a statement always surface
	expectedMaturity := decimal.Zero
	if event.ExpectedTotalNetMaturity.Valid {
		expectedMaturity = event.ExpectedTotalNetMaturity.Decimal
	}
	expectedCoupon := decimal.Zero
	if event.ExpectedTotalNetCoupon.Valid {
		expectedCoupon = event.ExpectedTotalNetCoupon.Decimal
	}

	maturityDiff := totals.NetMaturity.Sub(expectedMaturity)
	couponDiff := totals.NetCoupon.Sub(expectedCoupon)

	return &models.EventAuditReport{
		EventID:               event.ID,
		EventType:             event.EventType,
		RecordCount:           totals.RecordCount,
		CalculatedNetMaturity: totals.NetMaturity,
		CalculatedNetCoupon:   totals.NetCoupon,
		ExpectedNetMaturity:   expectedMaturity,
		ExpectedNetCoupon:     expectedCoupon,
		MaturityDifference:    maturityDiff,
		CouponDifference:      couponDiff,
		HasDiscrepancy: maturityDiff.Abs().GreaterThan(s.tolerance) ||
			couponDiff.Abs().GreaterThan(s.tolerance),
	}, nil
}
