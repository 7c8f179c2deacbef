package ib

import (
	"fmt"
	"strings"
	"time"

	"github.com/etnz/brokerage"
	"github.com/shopspring/decimal"
)

// baseParser carries the default section options: plain "Data" rows, no
// deny-list, no totals skipping.
type baseParser struct{}

func (baseParser) dataTypes() []string     { return []string{"Data"} }
func (baseParser) skipDataTypes() []string { return nil }
func (baseParser) skipTotals() bool        { return false }

// unknownRecordParser ignores every row of an unmodeled section.
type unknownRecordParser struct{}

func (unknownRecordParser) dataTypes() []string     { return nil }
func (unknownRecordParser) skipDataTypes() []string { return nil }
func (unknownRecordParser) skipTotals() bool        { return false }
func (unknownRecordParser) parse(p *statementParser, r *record) error {
	return nil
}

// statementInfoParser reads the "Statement" field/value section, looking
// for the declared statement period.
type statementInfoParser struct{ baseParser }

func (statementInfoParser) parse(p *statementParser, r *record) error {
	name, err := r.get("Field Name")
	if err != nil {
		return err
	}
	if name != "Period" {
		return nil
	}
	value, err := r.get("Field Value")
	if err != nil {
		return err
	}
	period, err := parsePeriod(value)
	if err != nil {
		return err
	}
	return p.statement.SetPeriod(period)
}

// periodDateFormat is the long date layout of the "Period" field.
const periodDateFormat = "January 2, 2006"

// parsePeriod reads "January 1, 2024 - January 31, 2024" (or a single date
// for one-day statements) into the half-open statement period.
func parsePeriod(value string) (brokerage.Range, error) {
	parse := func(s string) (brokerage.Date, error) {
		t, err := timeParse(periodDateFormat, strings.TrimSpace(s))
		if err != nil {
			return brokerage.Date{}, fmt.Errorf("invalid period date %q: %w", s, err)
		}
		return t, nil
	}

	first, second, ranged := strings.Cut(value, " - ")
	start, err := parse(first)
	if err != nil {
		return brokerage.Range{}, err
	}
	end := start
	if ranged {
		if end, err = parse(second); err != nil {
			return brokerage.Range{}, err
		}
	}
	if end.Before(start) {
		return brokerage.Range{}, fmt.Errorf("invalid statement period: %q", value)
	}
	// The export names the last covered day; the period is half-open.
	return brokerage.Range{From: start, To: end.Add(1)}, nil
}

// accountInformationParser checks the account type and remembers the base
// currency for the cash report fallback.
type accountInformationParser struct{ baseParser }

func (accountInformationParser) parse(p *statementParser, r *record) error {
	name, err := r.get("Field Name")
	if err != nil {
		return err
	}
	value, err := r.get("Field Value")
	if err != nil {
		return err
	}
	switch name {
	case "Account Type":
		if value != "Cash" {
			return fmt.Errorf("unsupported account type: %q", value)
		}
	case "Base Currency":
		p.baseCurrency = value
	}
	return nil
}

// changeInNavParser derives the starting-assets flag from the account's
// starting value.
type changeInNavParser struct{ baseParser }

func (changeInNavParser) parse(p *statementParser, r *record) error {
	name, err := r.get("Field Name")
	if err != nil {
		return err
	}
	if name != "Starting Value" {
		return nil
	}
	value, err := r.get("Field Value")
	if err != nil {
		return err
	}
	starting, err := decimal.NewFromString(cleanNumber(value))
	if err != nil {
		return fmt.Errorf("invalid starting value %q: %w", value, err)
	}
	return p.statement.SetStartingAssets(!starting.IsZero())
}

// cashReportParser reads the ending cash snapshot, one row per currency.
// The "Base Currency Summary" row is kept aside: it only becomes the cash
// assets when no per-currency row exists.
type cashReportParser struct{ baseParser }

func (cashReportParser) parse(p *statementParser, r *record) error {
	summary, err := r.get("Currency Summary")
	if err != nil {
		return err
	}
	if summary != "Ending Cash" {
		return nil
	}
	currency, err := r.get("Currency")
	if err != nil {
		return err
	}
	if currency == "Base Currency Summary" {
		if p.baseCurrency == "" {
			return fmt.Errorf("got a base currency summary before the base currency declaration")
		}
		amount, err := r.parseAmount("Total", p.baseCurrency)
		if err != nil {
			return err
		}
		p.baseCurrencySummary = &amount
		return nil
	}
	amount, err := r.parseAmount("Total", currency)
	if err != nil {
		return err
	}
	p.statement.CashAssets.Deposit(amount)
	return nil
}

// depositsAndWithdrawalsParser reads the external cash flows.
type depositsAndWithdrawalsParser struct{ baseParser }

func (depositsAndWithdrawalsParser) skipTotals() bool { return true }

func (depositsAndWithdrawalsParser) parse(p *statementParser, r *record) error {
	currency, err := r.get("Currency")
	if err != nil {
		return err
	}
	date, err := r.parseDate("Settle Date")
	if err != nil {
		return err
	}
	amount, err := r.parseAmount("Amount", currency)
	if err != nil {
		return err
	}
	if amount, err = brokerage.CheckAmount("cash flow amount", amount, brokerage.NonZero); err != nil {
		return err
	}
	p.statement.CashFlows = append(p.statement.CashFlows, brokerage.CashFlow{Date: date, Amount: amount})
	return nil
}

// instrumentInfoParser maps symbols to their display names.
type instrumentInfoParser struct{ baseParser }

func (instrumentInfoParser) parse(p *statementParser, r *record) error {
	symbol, err := r.get("Symbol")
	if err != nil {
		return err
	}
	description, err := r.get("Description")
	if err != nil {
		return err
	}
	p.statement.InstrumentNames[symbol] = description
	return nil
}

// timeParse parses a date cell with a time layout and truncates it to a day.
func timeParse(layout, value string) (brokerage.Date, error) {
	t, err := time.Parse(layout, value)
	if err != nil {
		return brokerage.Date{}, err
	}
	return brokerage.NewDate(t.Date()), nil
}
