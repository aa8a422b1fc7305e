package models

import "github.com/shopspring/decimal"

// AllocationShare is one member's proportional slice of a bond, as computed
// by the allocation engine from the holdings snapshot.
type AllocationShare struct {
	MemberID        int64
	Shares          decimal.Decimal
	FaceValue       decimal.Decimal
	PercentageShare decimal.Decimal
	// AwardValue is the member's slice of the BOZ award amount. Zero for
	// coupon events, where the cascade works from face value directly.
	AwardValue decimal.Decimal
}

// PreviewResult is the in-memory outcome of a stateless preview: the full
// record list plus the aggregate sums a caller would otherwise get from
// the audit after generating.
type PreviewResult struct {
	Event            *PaymentEvent
	Records          []*MemberPaymentRecord
	TotalNetMaturity decimal.Decimal
	TotalNetCoupon   decimal.Decimal
	TotalAward       decimal.Decimal
}
