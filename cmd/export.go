package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/brokerage"
	"github.com/google/subcommands"
)

// exportCmd holds the flags for the 'export' subcommand.
type exportCmd struct{}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the reconciled statement as JSON" }
func (*exportCmd) Usage() string {
	return `brokerstat export

  Writes the reconciled statement to stdout as a single JSON document.
`
}

func (*exportCmd) SetFlags(f *flag.FlagSet) {}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	statement, err := readStatement()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading statements: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := brokerage.EncodeStatement(os.Stdout, statement); err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting statement: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
