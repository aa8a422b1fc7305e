package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BondIssue represents a cooperative bond batch. Its rate fields are the
// defaults copied onto payment events at creation time; once events exist
// against an issue it is treated as immutable and rate changes require a
// new issue.
type BondIssue struct {
	ID                 int64           `db:"id"`
	Name               string          `db:"name"`
	CouponRate         decimal.Decimal `db:"coupon_rate"`
	DiscountRate       decimal.Decimal `db:"discount_rate"`
	WithholdingTaxRate decimal.Decimal `db:"withholding_tax_rate"`
	BOZFeeRate         decimal.Decimal `db:"boz_fee_rate"`
	CoopFeeRate        decimal.Decimal `db:"coop_fee_rate"`
	IssueDate          time.Time       `db:"issue_date"`
	MaturityDate       time.Time       `db:"maturity_date"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
}
