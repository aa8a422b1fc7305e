package service

import (
	"bondpay/models"

	"github.com/shopspring/decimal"
)

// LineItem is one deduction produced by the cascade
type LineItem struct {
	Label  string
	Amount decimal.Decimal
}

// CascadeResult is the outcome of running the deduction cascade for one
// member. The concrete type depends on the event type, so a consumer can
// never read a figure that does not apply to the event.
type CascadeResult interface {
	EventType() models.EventType

	// Gross returns the base amount the deductions were taken from
	Gross() decimal.Decimal

	// Deductions returns the ordered deduction line items
	Deductions() []LineItem

	// Net returns the amount payable after all deductions
	Net() decimal.Decimal
}

// MaturityResult holds the two net figures a maturity event produces: the
// net discount value on the principal side and the net maturity coupon on
// the BOZ coupon side.
type MaturityResult struct {
	AwardValue        decimal.Decimal
	DiscountValue     decimal.Decimal
	CoopDiscountFee   decimal.Decimal
	NetDiscountValue  decimal.Decimal
	GrossCoupon       decimal.Decimal
	WithholdingTax    decimal.Decimal
	BOZFee            decimal.Decimal
	NetMaturityCoupon decimal.Decimal
}

func (r MaturityResult) EventType() models.EventType {
	return models.EventTypeMaturity
}

func (r MaturityResult) Gross() decimal.Decimal {
	return r.DiscountValue.Add(r.GrossCoupon)
}

func (r MaturityResult) Deductions() []LineItem {
	return []LineItem{
		{Label: "co-op discount fee", Amount: r.CoopDiscountFee},
		{Label: "withholding tax", Amount: r.WithholdingTax},
		{Label: "BOZ fee", Amount: r.BOZFee},
	}
}

func (r MaturityResult) Net() decimal.Decimal {
	return r.NetDiscountValue.Add(r.NetMaturityCoupon)
}

// CouponResult holds the figures of a semi-annual coupon payment
type CouponResult struct {
	BaseAmount       decimal.Decimal
	WithholdingTax   decimal.Decimal
	BOZFee           decimal.Decimal
	CoopFee          decimal.Decimal
	NetCouponPayment decimal.Decimal
}

func (r CouponResult) EventType() models.EventType {
	return models.EventTypeCoupon
}

func (r CouponResult) Gross() decimal.Decimal {
	return r.BaseAmount
}

func (r CouponResult) Deductions() []LineItem {
	return []LineItem{
		{Label: "withholding tax", Amount: r.WithholdingTax},
		{Label: "BOZ fee", Amount: r.BOZFee},
		{Label: "co-op fee", Amount: r.CoopFee},
	}
}

func (r CouponResult) Net() decimal.Decimal {
	return r.NetCouponPayment
}

var two = decimal.NewFromInt(2)

// ComputeMaturity runs the maturity deduction cascade for one member.
// The discount side nets the member's award slice against face value and
// takes the co-op fee from the discount; the coupon side applies the
// event's maturity coupon rate to face value and deducts withholding tax
// and the BOZ fee. Every line item is rounded to 2 decimal places as it is
// produced, so the stored figures reproduce the nets exactly.
func ComputeMaturity(faceValue, awardValue decimal.Decimal, rates models.DeductionRates) MaturityResult {
	discountValue := faceValue.Sub(awardValue)
	coopDiscountFee := discountValue.Mul(rates.CoopFeeRate).Round(2)
	netDiscountValue := discountValue.Sub(coopDiscountFee)

	grossCoupon := faceValue.Mul(rates.BaseRate).Round(2)
	withholdingTax := grossCoupon.Mul(rates.WithholdingTaxRate).Round(2)
	bozFee := grossCoupon.Mul(rates.BOZFeeRate).Round(2)
	netMaturityCoupon := grossCoupon.Sub(withholdingTax).Sub(bozFee)

	return MaturityResult{
		AwardValue:        awardValue,
		DiscountValue:     discountValue,
		CoopDiscountFee:   coopDiscountFee,
		NetDiscountValue:  netDiscountValue,
		GrossCoupon:       grossCoupon,
		WithholdingTax:    withholdingTax,
		BOZFee:            bozFee,
		NetMaturityCoupon: netMaturityCoupon,
	}
}

// ComputeCoupon runs the semi-annual coupon deduction cascade for one
// member. The annual base rate is halved for the period, and withholding
// tax, BOZ fee and co-op fee all come off the period's base amount. Every
// line item is rounded to 2 decimal places as it is produced.
func ComputeCoupon(faceValue decimal.Decimal, rates models.DeductionRates) CouponResult {
	periodRate := rates.BaseRate.Div(two)
	baseAmount := faceValue.Mul(periodRate).Round(2)
	withholdingTax := baseAmount.Mul(rates.WithholdingTaxRate).Round(2)
	bozFee := baseAmount.Mul(rates.BOZFeeRate).Round(2)
	coopFee := baseAmount.Mul(rates.CoopFeeRate).Round(2)
	netCouponPayment := baseAmount.Sub(withholdingTax).Sub(bozFee).Sub(coopFee)

	return CouponResult{
		BaseAmount:       baseAmount,
		WithholdingTax:   withholdingTax,
		BOZFee:           bozFee,
		CoopFee:          coopFee,
		NetCouponPayment: netCouponPayment,
	}
}
