package service

import (
	"context"
	"fmt"

	"bondpay/events"
	"bondpay/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type paymentService struct {
	uowFactory UnitOfWorkFactory
}

// NewPaymentService creates a new payment lifecycle service
func NewPaymentService(uowFactory UnitOfWorkFactory) PaymentService {
	return &paymentService{
		uowFactory: uowFactory,
	}
}

// Preview computes every eligible member's result without persisting
// anything
func (s *paymentService) Preview(ctx context.Context, eventID int64) (*models.PreviewResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // Read-only, never committed

	event, err := uow.PaymentEventRepository().GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("payment event %d: %w", eventID, ErrNotFound)
	}

	records, err := s.computeRecords(ctx, uow, event)
	if err != nil {
		return nil, err
	}

	return buildPreviewResult(event, records), nil
}

// Generate computes and persists one record per eligible member. It takes
// an exclusive lock on the event row, so a concurrent generate or
// recalculate for the same event waits or conflicts, never interleaves.
func (s *paymentService) Generate(ctx context.Context, eventID int64) (int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	event, err := uow.PaymentEventRepository().GetByIDForUpdate(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to lock payment event: %w", err)
	}
	if event == nil {
		return 0, fmt.Errorf("payment event %d: %w", eventID, ErrNotFound)
	}

	existing, err := uow.MemberPaymentRecordRepository().CountByEvent(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to count existing records: %w", err)
	}
	if existing > 0 {
		return 0, fmt.Errorf("payment event %d has %d records: %w", eventID, existing, ErrAlreadyGenerated)
	}

	records, err := s.computeRecords(ctx, uow, event)
	if err != nil {
		return 0, err
	}

	if err := uow.MemberPaymentRecordRepository().CreateBatch(ctx, records); err != nil {
		return 0, err
	}

	uow.EventBus().Publish(events.RecordsGeneratedEvent{
		PaymentEventID: event.ID,
		EventType:      event.EventType,
		RecordCount:    len(records),
		TotalNet:       sumNet(event.EventType, records),
	})

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"eventID":     eventID,
		"eventType":   event.EventType,
		"recordCount": len(records),
	}).Info("Generated payment records")

	return len(records), nil
}

// Recalculate atomically replaces all of the event's records. The fresh
// rows are computed in full before the old rows are touched, and the
// delete+insert commits as one transaction, so a failure partway leaves
// the prior rows intact.
func (s *paymentService) Recalculate(ctx context.Context, eventID int64) (int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	event, err := uow.PaymentEventRepository().GetByIDForUpdate(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to lock payment event: %w", err)
	}
	if event == nil {
		return 0, fmt.Errorf("payment event %d: %w", eventID, ErrNotFound)
	}

	records, err := s.computeRecords(ctx, uow, event)
	if err != nil {
		return 0, err
	}

	deleted, err := uow.MemberPaymentRecordRepository().DeleteByEvent(ctx, eventID)
	if err != nil {
		return 0, err
	}

	if err := uow.MemberPaymentRecordRepository().CreateBatch(ctx, records); err != nil {
		return 0, err
	}

	uow.EventBus().Publish(events.RecordsRecalculatedEvent{
		PaymentEventID: event.ID,
		EventType:      event.EventType,
		RecordCount:    len(records),
		TotalNet:       sumNet(event.EventType, records),
	})

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"eventID":      eventID,
		"eventType":    event.EventType,
		"deletedCount": deleted,
		"recordCount":  len(records),
	}).Info("Recalculated payment records")

	return len(records), nil
}

// computeRecords runs the allocation engine and deduction cascade for every
// eligible member of the event's bond
func (s *paymentService) computeRecords(ctx context.Context, uow UnitOfWork, event *models.PaymentEvent) ([]*models.MemberPaymentRecord, error) {
	holdings, err := uow.MemberHoldingRepository().GetByBondAsOf(ctx, event.BondID, event.PaymentDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get holdings: %w", err)
	}

	totalAward := decimal.Zero
	if event.EventType == models.EventTypeMaturity {
		totalAward = event.BOZAwardAmount
	}

	shares, err := AllocateHoldings(holdings, totalAward)
	if err != nil {
		return nil, fmt.Errorf("bond %d as of %s: %w",
			event.BondID, event.PaymentDate.Format("2006-01-02"), err)
	}

	rates := event.Rates()
	records := make([]*models.MemberPaymentRecord, len(shares))
	for i, share := range shares {
		rec := &models.MemberPaymentRecord{
			PaymentEventID:  event.ID,
			MemberID:        share.MemberID,
			Shares:          share.Shares,
			FaceValue:       share.FaceValue,
			PercentageShare: share.PercentageShare,
		}

		switch event.EventType {
		case models.EventTypeMaturity:
			res := ComputeMaturity(share.FaceValue, share.AwardValue, rates)
			rec.BOZAwardValue = res.AwardValue
			rec.DiscountValue = res.DiscountValue
			rec.CoopDiscountFee = res.CoopDiscountFee
			rec.NetDiscountValue = res.NetDiscountValue
			rec.GrossCoupon = res.GrossCoupon
			rec.WithholdingTax = res.WithholdingTax
			rec.BOZFee = res.BOZFee
			rec.NetMaturityCoupon = res.NetMaturityCoupon
		case models.EventTypeCoupon:
			res := ComputeCoupon(share.FaceValue, rates)
			rec.CouponBaseAmount = res.BaseAmount
			rec.WithholdingTax = res.WithholdingTax
			rec.BOZFee = res.BOZFee
			rec.CoopFee = res.CoopFee
			rec.NetCouponPayment = res.NetCouponPayment
		default:
			return nil, fmt.Errorf("unknown event type %q", event.EventType)
		}

		records[i] = rec
	}

	return records, nil
}

func buildPreviewResult(event *models.PaymentEvent, records []*models.MemberPaymentRecord) *models.PreviewResult {
	result := &models.PreviewResult{
		Event:   event,
		Records: records,
	}
	for _, rec := range records {
		result.TotalNetMaturity = result.TotalNetMaturity.Add(rec.NetDiscountValue).Add(rec.NetMaturityCoupon)
		result.TotalNetCoupon = result.TotalNetCoupon.Add(rec.NetCouponPayment)
		result.TotalAward = result.TotalAward.Add(rec.BOZAwardValue)
	}
	return result
}

func sumNet(eventType models.EventType, records []*models.MemberPaymentRecord) decimal.Decimal {
	total := decimal.Zero
	for _, rec := range records {
		total = total.Add(rec.NetTotal(eventType))
	}
	return total
}
