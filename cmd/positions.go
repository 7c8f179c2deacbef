package cmd

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/etnz/brokerage"
	"github.com/google/subcommands"
)

// positionsCmd holds the flags for the 'positions' subcommand.
type positionsCmd struct {
	update bool
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display the account's open positions" }
func (*positionsCmd) Usage() string {
	return `brokerstat positions [-u]

  Displays the open positions at the end of the reconciled period,
  optionally with their latest market price.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.update, "u", false, "fetch current market prices for the open positions")
}

func (c *positionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	statement, err := readStatement()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading statements: %v\n", err)
		return subcommands.ExitFailure
	}

	prices := map[string]brokerage.Money{}
	if c.update {
		quotes := brokerage.NewQuotes(*quotesURL)
		statement.BatchQuotes(quotes)
		if prices, err = quotes.Fetch(); err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching quotes: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	for _, symbol := range slices.Sorted(maps.Keys(statement.OpenPositions)) {
		quantity := statement.OpenPositions[symbol]
		name, err := statement.InstrumentName(symbol)
		if err != nil {
			name = symbol
		}
		if price, ok := prices[symbol]; ok {
			fmt.Printf("%-40s %10s  last %s\n", name, quantity, price)
			continue
		}
		fmt.Printf("%-40s %10s\n", name, quantity)
	}
	return subcommands.ExitSuccess
}
