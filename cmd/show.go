package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// showCmd holds the flags for the 'show' subcommand.
type showCmd struct{}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display the reconciled account statement" }
func (*showCmd) Usage() string {
	return `brokerstat show

  Reads all statement files of the account, reconciles them and displays
  the resulting activity summary.
`
}

func (*showCmd) SetFlags(f *flag.FlagSet) {}

func (c *showCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	statement, err := readStatement()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading statements: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("%s statement %s\n\n", statement.Broker.Name, statement.Period)

	if len(statement.CashFlows) > 0 {
		fmt.Println("Deposits & Withdrawals:")
		for _, flow := range statement.CashFlows {
			fmt.Printf("  %s  %s\n", flow.Date, flow.Amount)
		}
		fmt.Println()
	}

	if len(statement.StockBuys) > 0 || len(statement.StockSells) > 0 {
		fmt.Println("Trades:")
		for _, buy := range statement.StockBuys {
			fmt.Printf("  %s  buy  %s %s @ %s (commission %s)\n",
				buy.ConclusionDate, buy.Quantity, buy.Symbol, buy.Price, buy.Commission)
		}
		for _, sell := range statement.StockSells {
			fmt.Printf("  %s  sell %s %s @ %s (commission %s)\n",
				sell.ConclusionDate, sell.Quantity, sell.Symbol, sell.Price, sell.Commission)
		}
		fmt.Println()
	}

	if len(statement.Dividends) > 0 {
		fmt.Println("Dividends:")
		for _, dividend := range statement.Dividends {
			fmt.Printf("  %s  %s  %s (tax withheld %s)\n",
				dividend.Date, dividend.Issuer, dividend.Amount, dividend.PaidTax)
		}
		fmt.Println()
	}

	if len(statement.IdleCashInterest) > 0 {
		fmt.Println("Idle cash interest:")
		for _, interest := range statement.IdleCashInterest {
			fmt.Printf("  %s  %s\n", interest.Date, interest.Amount)
		}
		fmt.Println()
	}

	fmt.Println("Ending cash:")
	for _, currency := range statement.CashAssets.Currencies() {
		fmt.Printf("  %s\n", statement.CashAssets.Balance(currency))
	}
	return subcommands.ExitSuccess
}
