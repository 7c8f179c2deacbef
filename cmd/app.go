// Package cmd implements the CLI application to read and reconcile broker
// statements.
package cmd

import (
	"flag"
	"fmt"

	"github.com/etnz/brokerage"
	"github.com/etnz/brokerage/firstrade"
	"github.com/etnz/brokerage/ib"
	"github.com/etnz/brokerage/vantage"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&showCmd{}, "reports")
	c.Register(&positionsCmd{}, "reports")
	c.Register(&taxesCmd{}, "reports")
	c.Register(&exportCmd{}, "reports")
	c.Register(&sellCmd{}, "what-if")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var brokerName = flag.String("broker", "ib", "Broker format of the statements (firstrade, ib, vantage)")
var statementsDir = flag.String("statements-dir", "statements", "Path to the folder containing the account's statement files")
var quotesURL = flag.String("quotes-url", "", "Override the quote service base URL")

// newReader builds the statement reader for the selected broker format.
func newReader() (brokerage.StatementReader, error) {
	switch *brokerName {
	case "firstrade":
		return firstrade.NewReader(brokerage.BrokerInfo{Name: "Firstrade"}), nil
	case "ib":
		return ib.NewReader(brokerage.BrokerInfo{Name: "Interactive Brokers"}), nil
	case "vantage":
		return vantage.NewReader(brokerage.BrokerInfo{
			Name:     "Vantage Securities",
			Schedule: brokerage.FixedCommission{Fee: brokerage.M(1, "USD")},
		}), nil
	default:
		return nil, fmt.Errorf("unknown broker %q", *brokerName)
	}
}

// readStatement reads and reconciles all statement files of the account.
func readStatement() (*brokerage.Statement, error) {
	reader, err := newReader()
	if err != nil {
		return nil, err
	}
	return brokerage.ReadStatementDir(reader, *statementsDir)
}
