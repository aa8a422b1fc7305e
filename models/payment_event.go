package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType distinguishes the two kinds of payment events
type EventType string

const (
	EventTypeMaturity EventType = "maturity"
	EventTypeCoupon   EventType = "coupon"
)

// PaymentEvent represents a single monetary event against a bond issue.
// The rate fields are a point-in-time copy taken from the bond issue when
// the event is created, so later edits to the issue never retroactively
// change an already-created event.
//
// The expected totals start unset and are only filled in by the BOZ
// statement upload; the audit compares calculated totals against them.
type PaymentEvent struct {
	ID                       int64               `db:"id"`
	BondID                   int64               `db:"bond_id"`
	EventType                EventType           `db:"event_type"`
	PaymentDate              time.Time           `db:"payment_date"`
	CalculationPeriod        string              `db:"calculation_period"`
	BaseRate                 decimal.Decimal     `db:"base_rate"`
	WithholdingTaxRate       decimal.Decimal     `db:"withholding_tax_rate"`
	BOZFeeRate               decimal.Decimal     `db:"boz_fee_rate"`
	CoopFeeRate              decimal.Decimal     `db:"coop_fee_rate"`
	BOZAwardAmount           decimal.Decimal     `db:"boz_award_amount"`
	ExpectedTotalNetMaturity decimal.NullDecimal `db:"expected_total_net_maturity"`
	ExpectedTotalNetCoupon   decimal.NullDecimal `db:"expected_total_net_coupon"`
	CreatedAt                time.Time           `db:"created_at"`
	UpdatedAt                time.Time           `db:"updated_at"`
}

// Rates returns the deduction rates frozen on this event
func (e *PaymentEvent) Rates() DeductionRates {
	return DeductionRates{
		BaseRate:           e.BaseRate,
		WithholdingTaxRate: e.WithholdingTaxRate,
		BOZFeeRate:         e.BOZFeeRate,
		CoopFeeRate:        e.CoopFeeRate,
	}
}

// DeductionRates carries the rate set used by the deduction cascade.
// Rates are always passed explicitly; nothing reads them from global state.
type DeductionRates struct {
	BaseRate           decimal.Decimal
	WithholdingTaxRate decimal.Decimal
	BOZFeeRate         decimal.Decimal
	CoopFeeRate        decimal.Decimal
}
