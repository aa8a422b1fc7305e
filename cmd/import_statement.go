package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"bondpay/service"

	"github.com/google/subcommands"
)

// importStatementCmd holds the flags for the 'import-statement' subcommand
type importStatementCmd struct {
	statements service.StatementService
	file       string
}

func (*importStatementCmd) Name() string     { return "import-statement" }
func (*importStatementCmd) Synopsis() string { return "import expected totals from a BOZ statement CSV" }
func (*importStatementCmd) Usage() string {
	return `bondpay import-statement -file <path>

  Reads CSV rows of event_id,expected_total_net_maturity,
  expected_total_net_coupon and sets each event's expected totals.
  Malformed rows are reported and skipped; the rest still apply.
`
}

func (c *importStatementCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "Path to the statement CSV")
}

func (c *importStatementCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		fmt.Fprintln(os.Stderr, "Error: -file is required")
		return subcommands.ExitUsageError
	}

	file, err := os.Open(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening statement: %v\n", err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	result, err := c.statements.ImportExpectedTotals(ctx, file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing statement: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Applied %d of %d rows\n", result.RowsApplied, result.RowsProcessed)
	for _, rowErr := range result.Errors {
		fmt.Fprintf(os.Stderr, "  %v\n", rowErr)
	}

	if len(result.Errors) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
