package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/brokerage"
	"github.com/google/subcommands"
)

// sellCmd holds the flags for the 'sell' subcommand.
type sellCmd struct {
	symbol   string
	quantity string
	price    string
	currency string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "emulate a sell order on the reconciled statement" }
func (*sellCmd) Usage() string {
	return `brokerstat sell -s <symbol> -q <quantity> -p <price> [-c <currency>]

  Appends a what-if sell order concluded today and displays its impact on
  the cash balance. The broker's commission schedule is applied.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Symbol to sell")
	f.StringVar(&c.quantity, "q", "", "Quantity to sell")
	f.StringVar(&c.price, "p", "", "Unit price of the emulated order")
	f.StringVar(&c.currency, "c", "USD", "Currency of the price")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.quantity == "" || c.price == "" {
		fmt.Fprintln(os.Stderr, "sell requires -s, -q and -p")
		return subcommands.ExitUsageError
	}
	quantity, err := brokerage.ParseQuantity(c.quantity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quantity: %v\n", err)
		return subcommands.ExitUsageError
	}
	price, err := brokerage.ParseMoney(c.price, c.currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing price: %v\n", err)
		return subcommands.ExitUsageError
	}

	statement, err := readStatement()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading statements: %v\n", err)
		return subcommands.ExitFailure
	}

	held := statement.OpenPositions[c.symbol]
	if quantity.GreaterThan(held) {
		fmt.Fprintf(os.Stderr, "Cannot sell %s %s: only %s held\n", quantity, c.symbol, held)
		return subcommands.ExitFailure
	}
	if err := statement.EmulateSell(c.symbol, quantity, price); err != nil {
		fmt.Fprintf(os.Stderr, "Error emulating sell: %v\n", err)
		return subcommands.ExitFailure
	}

	sell := statement.StockSells[len(statement.StockSells)-1]
	fmt.Printf("Emulated sell of %s %s @ %s (commission %s)\n",
		sell.Quantity, sell.Symbol, sell.Price, sell.Commission)
	fmt.Println("Resulting cash:")
	for _, currency := range statement.CashAssets.Currencies() {
		fmt.Printf("  %s\n", statement.CashAssets.Balance(currency))
	}
	return subcommands.ExitSuccess
}
