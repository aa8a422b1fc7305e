package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"bondpay/service"

	"github.com/google/subcommands"
)

// previewCmd holds the flags for the 'preview' subcommand
type previewCmd struct {
	payments service.PaymentService
	eventID  int64
}

func (*previewCmd) Name() string     { return "preview" }
func (*previewCmd) Synopsis() string { return "compute a payment event without persisting anything" }
func (*previewCmd) Usage() string {
	return `bondpay preview -event <id>

  Runs the allocation and deduction cascade for every eligible member of
  the event and prints the results. Writes nothing.
`
}

func (c *previewCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.eventID, "event", 0, "Payment event id")
}

func (c *previewCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.eventID == 0 {
		fmt.Fprintln(os.Stderr, "Error: -event is required")
		return subcommands.ExitUsageError
	}

	result, err := c.payments.Preview(ctx, c.eventID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error previewing event: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Event %d (%s): %d members\n", result.Event.ID, result.Event.EventType, len(result.Records))
	for _, rec := range result.Records {
		fmt.Printf("  member %-8d share %s  net maturity %s  net coupon %s\n",
			rec.MemberID,
			rec.PercentageShare.Round(6),
			rec.NetDiscountValue.Add(rec.NetMaturityCoupon).StringFixed(2),
			rec.NetCouponPayment.StringFixed(2),
		)
	}
	fmt.Printf("Total award: %s  total net maturity: %s  total net coupon: %s\n",
		result.TotalAward.StringFixed(2),
		result.TotalNetMaturity.StringFixed(2),
		result.TotalNetCoupon.StringFixed(2),
	)

	return subcommands.ExitSuccess
}
