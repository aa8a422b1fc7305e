package testutil

import (
	"time"

	"bondpay/models"

	"github.com/shopspring/decimal"
)

// CreateTestBondIssue creates a bond issue with typical rates
func CreateTestBondIssue(name string) *models.BondIssue {
	return &models.BondIssue{
		Name:               name,
		CouponRate:         decimal.RequireFromString("0.10"),
		DiscountRate:       decimal.RequireFromString("0.08"),
		WithholdingTaxRate: decimal.RequireFromString("0.15"),
		BOZFeeRate:         decimal.RequireFromString("0.01"),
		CoopFeeRate:        decimal.RequireFromString("0.02"),
		IssueDate:          time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
		MaturityDate:       time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

// CreateTestHolding creates a holdings snapshot for a member
func CreateTestHolding(memberID, bondID int64, asOf time.Time, shares, faceValue string) *models.MemberHolding {
	return &models.MemberHolding{
		MemberID:  memberID,
		BondID:    bondID,
		AsOfDate:  asOf,
		Shares:    decimal.RequireFromString(shares),
		FaceValue: decimal.RequireFromString(faceValue),
	}
}

// CreateTestMaturityEvent creates a maturity payment event with the bond's rates
func CreateTestMaturityEvent(bond *models.BondIssue, paymentDate time.Time, awardAmount string) *models.PaymentEvent {
	return &models.PaymentEvent{
		BondID:             bond.ID,
		EventType:          models.EventTypeMaturity,
		PaymentDate:        paymentDate,
		CalculationPeriod:  paymentDate.Format("2006-01"),
		BaseRate:           bond.CouponRate,
		WithholdingTaxRate: bond.WithholdingTaxRate,
		BOZFeeRate:         bond.BOZFeeRate,
		CoopFeeRate:        bond.CoopFeeRate,
		BOZAwardAmount:     decimal.RequireFromString(awardAmount),
	}
}

// CreateTestCouponEvent creates a semi-annual coupon payment event with the bond's rates
func CreateTestCouponEvent(bond *models.BondIssue, paymentDate time.Time) *models.PaymentEvent {
	return &models.PaymentEvent{
		BondID:             bond.ID,
		EventType:          models.EventTypeCoupon,
		PaymentDate:        paymentDate,
		CalculationPeriod:  paymentDate.Format("2006-01"),
		BaseRate:           bond.CouponRate,
		WithholdingTaxRate: bond.WithholdingTaxRate,
		BOZFeeRate:         bond.BOZFeeRate,
		CoopFeeRate:        bond.CoopFeeRate,
		BOZAwardAmount:     decimal.Zero,
	}
}

// CreateTestPaymentRecord creates a payment record with only the identity
// and share columns filled in
func CreateTestPaymentRecord(eventID, memberID int64, shares, faceValue, percentage string) *models.MemberPaymentRecord {
	return &models.MemberPaymentRecord{
		PaymentEventID:  eventID,
		MemberID:        memberID,
		Shares:          decimal.RequireFromString(shares),
		FaceValue:       decimal.RequireFromString(faceValue),
		PercentageShare: decimal.RequireFromString(percentage),
	}
}
