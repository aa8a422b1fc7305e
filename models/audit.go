package models

import "github.com/shopspring/decimal"

// EventAuditReport compares one event's calculated net totals against the
// expected totals supplied by the BOZ statement upload. Differences are
// signed (calculated - expected) so the direction of drift is visible.
type EventAuditReport struct {
	EventID               int64
	EventType             EventType
	RecordCount           int64
	CalculatedNetMaturity decimal.Decimal
	CalculatedNetCoupon   decimal.Decimal
	ExpectedNetMaturity   decimal.Decimal
	ExpectedNetCoupon     decimal.Decimal
	MaturityDifference    decimal.Decimal
	CouponDifference      decimal.Decimal
	HasDiscrepancy        bool
}

// AuditSummary aggregates the per-event reports of one audit run
type AuditSummary struct {
	EventCount            int
	DiscrepancyCount      int
	TotalCalculatedNet    decimal.Decimal
	TotalExpectedNet      decimal.Decimal
	TotalDifference       decimal.Decimal
	HasOverallDiscrepancy bool
}

// AuditReport is the full output of an audit run
type AuditReport struct {
	PerEvent []*EventAuditReport
	Summary  AuditSummary
}
