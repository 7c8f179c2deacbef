package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/brokerage"
	"github.com/google/subcommands"
)

// taxesCmd holds the flags for the 'taxes' subcommand.
type taxesCmd struct{}

func (*taxesCmd) Name() string     { return "taxes" }
func (*taxesCmd) Synopsis() string { return "display the tax due on the account's dividend income" }
func (*taxesCmd) Usage() string {
	return `brokerstat taxes

  Lists every dividend of the reconciled period with the tax withheld at
  the source and the residual tax due in the residence jurisdiction.
`
}

func (*taxesCmd) SetFlags(f *flag.FlagSet) {}

func (c *taxesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	statement, err := readStatement()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading statements: %v\n", err)
		return subcommands.ExitFailure
	}

	residence := brokerage.Residence()
	for _, dividend := range statement.Dividends {
		due := residence.TaxToPay(dividend.Amount, dividend.PaidTax)
		fmt.Printf("%s  %-8s gross %s, withheld %s, due %s\n",
			dividend.Date, dividend.Issuer, dividend.Amount, dividend.PaidTax, due)
	}
	if len(statement.Dividends) == 0 {
		fmt.Println("No dividend income in the statement period.")
	}
	return subcommands.ExitSuccess
}
