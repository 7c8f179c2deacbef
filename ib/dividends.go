package ib

import (
	"fmt"
	"regexp"

	"github.com/etnz/brokerage"
)

// issuerRe extracts the issuer symbol from a dividend description like
// "VZ(US92343V1044) Cash Dividend USD 0.6775 per Share".
var issuerRe = regexp.MustCompile(`^([A-Z][A-Z0-9]*) ?\(`)

// taxDescriptionSuffix is appended by the broker to the dividend
// description on the matching withholding-tax rows.
const taxDescriptionSuffix = " - US Tax"

// dividendsParser reads dividend payments. The withholding tax is reported
// in a separate section, possibly in a later statement file, so dividends
// are deferred and resolved by the merge.
type dividendsParser struct{ baseParser }

func (dividendsParser) skipTotals() bool { return true }

func (dividendsParser) parse(p *statementParser, r *record) error {
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

	match := issuerRe.FindStringSubmatch(description)
	if match == nil {
		return fmt.Errorf("unable to extract the issuer from the dividend description: %q", description)
	}
	issuer := match[1]

	amount, err := r.parseAmount("Amount", currency)
	if err != nil {
		return err
	}
	if amount, err = brokerage.CheckAmount("dividend amount", amount, brokerage.StrictlyPositive); err != nil {
		return err
	}

	p.statement.DeferredDividends = append(p.statement.DeferredDividends, brokerage.DeferredDividend{
		Date:           date,
		Issuer:         issuer,
		Amount:         amount,
		TaxDescription: description + taxDescriptionSuffix,
	})
	return nil
}
