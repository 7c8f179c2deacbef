package ib

import "github.com/etnz/brokerage"

// withholdingTaxParser accumulates withholding-tax adjustments under
// (date, description). The same operation may be adjusted several times
// across statement files (withheld, refunded, withheld again); the merge
// collapses them to one net tax once all files are read.
type withholdingTaxParser struct{ baseParser }

func (withholdingTaxParser) skipTotals() bool { return true }

func (withholdingTaxParser) parse(p *statementParser, r *record) error {
	currency, err := r.get("Currency")
	if err != nil {
		return err
	}
	date, err := r.parseDate("Date")
	if err != nil {
		return err
	}
	description, err := r.get("Description")
	if err != nil {
		return err
	}

	amount, err := r.parseAmount("Amount", currency)
	if err != nil {
		return err
	}
	if amount, err = brokerage.CheckAmount("withheld tax amount", amount, brokerage.NonZero); err != nil {
		return err
	}

	// Withholdings are exported as a negative cash impact, refunds as a
	// positive one; the accumulator keeps withheld tax positive.
	p.statement.AddTaxChange(brokerage.TaxID{Date: date, Description: description}, amount.Neg())
	return nil
}
