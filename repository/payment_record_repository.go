package repository

import (
	"context"
	"fmt"

	"bondpay/database"
	"bondpay/models"
	"bondpay/service"
	"github.com/jackc/pgx/v5"
)

// MemberPaymentRecordRepository implements the MemberPaymentRecordRepository interface
type MemberPaymentRecordRepository struct {
	q Queryable
}

// NewMemberPaymentRecordRepository creates a new member payment record repository
func NewMemberPaymentRecordRepository(db *database.DB) *MemberPaymentRecordRepository {
	return &MemberPaymentRecordRepository{q: db.Pool}
}

// newMemberPaymentRecordRepositoryWithTx creates a new member payment record repository with a transaction
func newMemberPaymentRecordRepositoryWithTx(tx Queryable) *MemberPaymentRecordRepository {
	return &MemberPaymentRecordRepository{q: tx}
}

var memberPaymentRecordColumns = []string{
	"payment_event_id",
	"member_id",
	"shares",
	"face_value",
	"percentage_share",
	"boz_award_value",
	"discount_value",
	"coop_discount_fee",
	"net_discount_value",
	"gross_coupon",
	"net_maturity_coupon",
	"coupon_base_amount",
	"coop_fee",
	"net_coupon_payment",
	"withholding_tax",
	"boz_fee",
}

// CreateBatch bulk-inserts all records via COPY. A unique violation on
// (member_id, payment_event_id) means a concurrent writer got there first
// and is reported as ErrConcurrentModification.
func (r *MemberPaymentRecordRepository) CreateBatch(ctx context.Context, records []*models.MemberPaymentRecord) error {
	if len(records) == 0 {
		return nil
	}

	_, err := r.q.CopyFrom(ctx,
		pgx.Identifier{"member_payment_records"},
		memberPaymentRecordColumns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			rec := records[i]
			return []any{
				rec.PaymentEventID,
				rec.MemberID,
				rec.Shares,
				rec.FaceValue,
				rec.PercentageShare,
				rec.BOZAwardValue,
				rec.DiscountValue,
				rec.CoopDiscountFee,
				rec.NetDiscountValue,
				rec.GrossCoupon,
				rec.NetMaturityCoupon,
				rec.CouponBaseAmount,
				rec.CoopFee,
				rec.NetCouponPayment,
				rec.WithholdingTax,
				rec.BOZFee,
			}, nil
		}),
	)

	if isUniqueViolation(err) {
		return fmt.Errorf("records for event %d already being written: %w",
			records[0].PaymentEventID, service.ErrConcurrentModification)
	}
	if err != nil {
		return fmt.Errorf("failed to insert payment records for event %d: %w",
			records[0].PaymentEventID, err)
	}

	return nil
}

// GetByEvent returns all records for an event ordered by member id
func (r *MemberPaymentRecordRepository) GetByEvent(ctx context.Context, eventID int64) ([]*models.MemberPaymentRecord, error) {
	query := `
		SELECT id, payment_event_id, member_id, shares, face_value, percentage_share,
		       boz_award_value, discount_value, coop_discount_fee, net_discount_value,
		       gross_coupon, net_maturity_coupon, coupon_base_amount, coop_fee,
		       net_coupon_payment, withholding_tax, boz_fee, created_at
		FROM member_payment_records
		WHERE payment_event_id = $1
		ORDER BY member_id
	`

	rows, err := r.q.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment records for event %d: %w", eventID, err)
	}
	defer rows.Close()

	var records []*models.MemberPaymentRecord
	for rows.Next() {
		var rec models.MemberPaymentRecord
		err := rows.Scan(
			&rec.ID,
			&rec.PaymentEventID,
			&rec.MemberID,
			&rec.Shares,
			&rec.FaceValue,
			&rec.PercentageShare,
			&rec.BOZAwardValue,
			&rec.DiscountValue,
			&rec.CoopDiscountFee,
			&rec.NetDiscountValue,
			&rec.GrossCoupon,
			&rec.NetMaturityCoupon,
			&rec.CouponBaseAmount,
			&rec.CoopFee,
			&rec.NetCouponPayment,
			&rec.WithholdingTax,
			&rec.BOZFee,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment record: %w", err)
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

// CountByEvent returns the number of records for an event
func (r *MemberPaymentRecordRepository) CountByEvent(ctx context.Context, eventID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM member_payment_records WHERE payment_event_id = $1`

	var count int64
	if err := r.q.QueryRow(ctx, query, eventID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count payment records for event %d: %w", eventID, err)
	}

	return count, nil
}

// DeleteByEvent deletes all records for an event, returning the count deleted
func (r *MemberPaymentRecordRepository) DeleteByEvent(ctx context.Context, eventID int64) (int64, error) {
	query := `DELETE FROM member_payment_records WHERE payment_event_id = $1`

	tag, err := r.q.Exec(ctx, query, eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete payment records for event %d: %w", eventID, err)
	}

	return tag.RowsAffected(), nil
}

// SumNetByEvent aggregates the event's persisted net figures. An event with
// no records yields zero totals, never an error, so a missing generation
// stays visible to the audit.
func (r *MemberPaymentRecordRepository) SumNetByEvent(ctx context.Context, eventID int64) (*models.RecordTotals, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(net_discount_value + net_maturity_coupon), 0),
		       COALESCE(SUM(net_coupon_payment), 0)
		FROM member_payment_records
		WHERE payment_event_id = $1
	`

	var totals models.RecordTotals
	err := r.q.QueryRow(ctx, query, eventID).Scan(
		&totals.RecordCount,
		&totals.NetMaturity,
		&totals.NetCoupon,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sum payment records for event %d: %w", eventID, err)
	}

	return &totals, nil
}
