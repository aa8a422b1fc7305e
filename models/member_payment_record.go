package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MemberPaymentRecord is one member's computed result for one payment event,
// holding every intermediate figure so audited totals are reproducible from
// the stored line items. Exactly one record exists per (member, event) pair,
// enforced by a uniqueness constraint.
//
// Maturity events fill the award/discount and maturity-coupon columns;
// coupon events fill the coupon columns. The unused side stays zero.
type MemberPaymentRecord struct {
	ID              int64           `db:"id"`
	PaymentEventID  int64           `db:"payment_event_id"`
	MemberID        int64           `db:"member_id"`
	Shares          decimal.Decimal `db:"shares"`
	FaceValue       decimal.Decimal `db:"face_value"`
	PercentageShare decimal.Decimal `db:"percentage_share"`

	// Maturity figures
	BOZAwardValue     decimal.Decimal `db:"boz_award_value"`
	DiscountValue     decimal.Decimal `db:"discount_value"`
	CoopDiscountFee   decimal.Decimal `db:"coop_discount_fee"`
	NetDiscountValue  decimal.Decimal `db:"net_discount_value"`
	GrossCoupon       decimal.Decimal `db:"gross_coupon"`
	NetMaturityCoupon decimal.Decimal `db:"net_maturity_coupon"`

	// Coupon figures
	CouponBaseAmount decimal.Decimal `db:"coupon_base_amount"`
	CoopFee          decimal.Decimal `db:"coop_fee"`
	NetCouponPayment decimal.Decimal `db:"net_coupon_payment"`

	// Shared deductions
	WithholdingTax decimal.Decimal `db:"withholding_tax"`
	BOZFee         decimal.Decimal `db:"boz_fee"`

	CreatedAt time.Time `db:"created_at"`
}

// NetTotal returns the record's contribution to the event's net totals:
// both maturity nets for maturity events, the net coupon payment otherwise.
func (r *MemberPaymentRecord) NetTotal(eventType EventType) decimal.Decimal {
	if eventType == EventTypeMaturity {
		return r.NetDiscountValue.Add(r.NetMaturityCoupon)
	}
	return r.NetCouponPayment
}

// RecordTotals aggregates the persisted records of one event
type RecordTotals struct {
	RecordCount int64           `db:"record_count"`
	NetMaturity decimal.Decimal `db:"net_maturity"`
	NetCoupon   decimal.Decimal `db:"net_coupon"`
}
