package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"bondpay/service"

	"github.com/google/subcommands"
)

// auditCmd holds the flags for the 'audit' subcommand
type auditCmd struct {
	audit    service.AuditService
	eventIDs string
}

func (*auditCmd) Name() string     { return "audit" }
func (*auditCmd) Synopsis() string { return "reconcile calculated totals against expected totals" }
func (*auditCmd) Usage() string {
	return `bondpay audit [-events <id,id,...>]

  Compares each event's calculated net totals against the expected totals
  from the BOZ statement and prints a discrepancy report. Without -events,
  audits every event that has generated records.
`
}

func (c *auditCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.eventIDs, "events", "", "Comma-separated payment event ids (default: all with records)")
}

func (c *auditCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var ids []int64
	if c.eventIDs != "" {
		for _, part := range strings.Split(c.eventIDs, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: invalid event id %q\n", part)
				return subcommands.ExitUsageError
			}
			ids = append(ids, id)
		}
	}

	report, err := c.audit.Audit(ctx, ids)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running audit: %v\n", err)
		return subcommands.ExitFailure
	}

	for _, ev := range report.PerEvent {
		status := "ok"
		if ev.HasDiscrepancy {
			status = "DISCREPANCY"
		}
		fmt.Printf("event %-6d %-8s records %-5d calc maturity %-14s calc coupon %-14s diff maturity %-12s diff coupon %-12s %s\n",
			ev.EventID,
			ev.EventType,
			ev.RecordCount,
			ev.CalculatedNetMaturity.StringFixed(2),
			ev.CalculatedNetCoupon.StringFixed(2),
			ev.MaturityDifference.StringFixed(2),
			ev.CouponDifference.StringFixed(2),
			status,
		)
	}

	s := report.Summary
	fmt.Printf("%d events audited, %d with discrepancies; calculated %s vs expected %s (difference %s)\n",
		s.EventCount,
		s.DiscrepancyCount,
		s.TotalCalculatedNet.StringFixed(2),
		s.TotalExpectedNet.StringFixed(2),
		s.TotalDifference.StringFixed(2),
	)

	if s.HasOverallDiscrepancy {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
