package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"bondpay/service"

	"github.com/google/subcommands"
)

// recalculateCmd holds the flags for the 'recalculate' subcommand
type recalculateCmd struct {
	payments service.PaymentService
	eventID  int64
}

func (*recalculateCmd) Name() string { return "recalculate" }
func (*recalculateCmd) Synopsis() string {
	return "atomically replace a payment event's member records"
}
func (*recalculateCmd) Usage() string {
	return `bondpay recalculate -event <id>

  Deletes the event's existing payment records and persists a fresh
  computation in one transaction.
`
}

func (c *recalculateCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.eventID, "event", 0, "Payment event id")
}

func (c *recalculateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.eventID == 0 {
		fmt.Fprintln(os.Stderr, "Error: -event is required")
		return subcommands.ExitUsageError
	}

	count, err := c.payments.Recalculate(ctx, c.eventID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recalculating records: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Recalculated %d payment records for event %d\n", count, c.eventID)
	return subcommands.ExitSuccess
}
