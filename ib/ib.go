// Package ib reads Activity Statement exports: header-keyed delimited
// tables where each row's first field names a section and second field is
// the row kind.
//
// A "Header" row declares the column schema for the data rows that follow
// it. Sections interleave freely in the export, so the parse loop is a
// small state machine that re-dispatches on every section change instead of
// treating it as end-of-file. Unrecognized sections are skipped (the broker
// adds disclosure sections that carry no financial meaning here), but
// unrecognized fields within a modeled record are not tolerated.
package ib

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/etnz/brokerage"
)

// Reader reads Activity Statement csv exports for one account.
type Reader struct {
	broker brokerage.BrokerInfo
}

// NewReader creates a statement reader for the broker.
func NewReader(broker brokerage.BrokerInfo) *Reader {
	return &Reader{broker: broker}
}

// IsStatement reports whether the file name looks like an activity export.
func (r *Reader) IsStatement(fileName string) bool {
	return strings.HasSuffix(fileName, ".csv")
}

// Read parses one statement file into a partial statement.
func (r *Reader) Read(path string) (*brokerage.PartialStatement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p := &statementParser{statement: brokerage.NewPartialStatement(r.broker)}
	if err := p.parse(f); err != nil {
		return nil, err
	}
	return p.statement, nil
}

// recordParser handles the data rows of one section.
type recordParser interface {
	// dataTypes is the allow-list of row kinds; nil allows any.
	dataTypes() []string
	// skipDataTypes is the deny-list of row kinds silently skipped.
	skipDataTypes() []string
	// skipTotals requests that rows whose first data column starts with
	// "Total" (aggregate footer rows) be skipped.
	skipTotals() bool
	parse(p *statementParser, r *record) error
}

// sections is the registry mapping section names to their handlers. A name
// missing from the registry gets a no-op handler: brokers add disclosure
// sections over time and they must not break the parse.
var sections = map[string]func() recordParser{
	"Statement":                        func() recordParser { return &statementInfoParser{} },
	"Account Information":              func() recordParser { return &accountInformationParser{} },
	"Change in NAV":                    func() recordParser { return &changeInNavParser{} },
	"Cash Report":                      func() recordParser { return &cashReportParser{} },
	"Deposits & Withdrawals":           func() recordParser { return &depositsAndWithdrawalsParser{} },
	"Trades":                           func() recordParser { return &tradesParser{} },
	"Open Positions":                   func() recordParser { return &openPositionsParser{} },
	"Dividends":                        func() recordParser { return &dividendsParser{} },
	"Withholding Tax":                  func() recordParser { return &withholdingTaxParser{} },
	"Interest":                         func() recordParser { return &interestParser{} },
	"Financial Instrument Information": func() recordParser { return &instrumentInfoParser{} },
}

func sectionParser(name string) recordParser {
	if newParser, ok := sections[name]; ok {
		return newParser()
	}
	return &unknownRecordParser{}
}

// parse states. The loop owns at most one read-ahead row at a time; the
// state says how to interpret it.
type parseState int

const (
	stateNone   parseState = iota // no pending row, read the next one
	stateRecord                   // pending row of an unknown kind
	stateHeader                   // pending row is a section header
)

type statementParser struct {
	statement *brokerage.PartialStatement

	baseCurrency        string
	baseCurrencySummary *brokerage.Money
}

func (p *statementParser) parse(r io.Reader) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var row []string
	state := stateNone

loop:
	for {
		switch state {
		case stateNone:
			next, err := reader.Read()
			if errors.Is(err, io.EOF) {
				break loop
			}
			if err != nil {
				return fmt.Errorf("reading statement: %w", err)
			}
			row, state = next, stateRecord

		case stateRecord:
			if len(row) < 2 {
				return fmt.Errorf("invalid record: %s", formatRecord(row))
			}
			switch row[1] {
			case "Header":
				state = stateHeader
			case "":
				// A row to skip.
				state = stateNone
			default:
				return fmt.Errorf("invalid record: %s", formatRecord(row))
			}

		case stateHeader:
			spec := parseHeader(row)
			parser := sectionParser(spec.name)

			dataTypes := parser.dataTypes()
			skipDataTypes := parser.skipDataTypes()
			skipTotals := parser.skipTotals()

			for {
				next, err := reader.Read()
				if errors.Is(err, io.EOF) {
					break loop
				}
				if err != nil {
					return fmt.Errorf("reading statement: %w", err)
				}
				if len(next) < 3 {
					return fmt.Errorf("invalid record: %s", formatRecord(next))
				}

				// Sections interleave freely: on a section change or a new
				// header, hand the row back to the dispatch states.
				if next[0] != spec.name {
					row, state = next, stateRecord
					continue loop
				}
				if next[1] == "Header" {
					row, state = next, stateHeader
					continue loop
				}

				if slices.Contains(skipDataTypes, next[1]) {
					continue
				}
				if dataTypes != nil && !slices.Contains(dataTypes, next[1]) {
					return fmt.Errorf("invalid data record type: %s", formatRecord(next))
				}
				// Matches aggregate footer rows. For example:
				// * Deposits & Withdrawals,Data,Total,,,1000
				// * Interest,Data,Total Interest in USD,,,100
				if skipTotals && strings.HasPrefix(next[2], "Total") {
					continue
				}

				if err := parser.parse(p, &record{spec: spec, row: next}); err != nil {
					return fmt.Errorf("failed to parse (%s) record: %w", formatRecord(next), err)
				}
			}
		}
	}

	// When the statement has no non-base currency activity it contains only
	// the base currency summary, which is then the only source of cash
	// assets info.
	if p.statement.CashAssets.IsEmpty() {
		if p.baseCurrencySummary == nil {
			return fmt.Errorf("unable to find base currency summary")
		}
		p.statement.CashAssets.Deposit(*p.baseCurrencySummary)
	}

	return p.statement.Validate()
}

// parseHeader turns "Section,Header,Field A,Field B,..." into a recordSpec.
func parseHeader(row []string) *recordSpec {
	const offset = 2
	name := row[0]
	fields := row[offset:]
	return newRecordSpec(name, fields, offset)
}
