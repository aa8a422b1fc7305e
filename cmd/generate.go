package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"bondpay/service"

	"github.com/google/subcommands"
)

// generateCmd holds the flags for the 'generate' subcommand
type generateCmd struct {
	payments service.PaymentService
	eventID  int64
}

func (*generateCmd) Name() string     { return "generate" }
func (*generateCmd) Synopsis() string { return "compute and persist a payment event's member records" }
func (*generateCmd) Usage() string {
	return `bondpay generate -event <id>

  Computes and persists one payment record per eligible member. Fails if
  the event already has records; use recalculate instead.
`
}

func (c *generateCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.eventID, "event", 0, "Payment event id")
}

func (c *generateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.eventID == 0 {
		fmt.Fprintln(os.Stderr, "Error: -event is required")
		return subcommands.ExitUsageError
	}

	count, err := c.payments.Generate(ctx, c.eventID)
	if errors.Is(err, service.ErrAlreadyGenerated) {
		fmt.Fprintf(os.Stderr, "Event %d already has records; use recalculate\n", c.eventID)
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating records: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Created %d payment records for event %d\n", count, c.eventID)
	return subcommands.ExitSuccess
}
