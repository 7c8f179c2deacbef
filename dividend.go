package brokerage

import "fmt"

// Dividend is a dividend payment with its withholding tax resolved.
type Dividend struct {
	Date    Date
	Issuer  string
	Amount  Money // gross amount
	PaidTax Money // tax withheld at the source, same currency as Amount
}

// DeferredDividend is a dividend whose withholding tax is not yet known: the
// matching tax adjustment may live in a different statement file and is
// backfilled during the merge.
type DeferredDividend struct {
	Date   Date
	Issuer string
	Amount Money

	// TaxDescription is the free-text key under which the broker reports the
	// matching withholding adjustment.
	TaxDescription string
}

// resolve turns the deferred dividend into a final one, consuming its
// matching net tax from the accumulator. Absence of a matching entry means
// zero withholding.
func (d DeferredDividend) resolve(taxes map[TaxID]Money) (Dividend, error) {
	id := TaxID{Date: d.Date, Description: d.TaxDescription}
	paidTax, ok := taxes[id]
	if !ok {
		paidTax = M(0, d.Amount.Currency())
	} else {
		delete(taxes, id)
		if paidTax.Currency() != d.Amount.Currency() {
			return Dividend{}, fmt.Errorf(
				"%s dividend on %s is paid in %s but its tax is withheld in %s",
				d.Issuer, d.Date, d.Amount.Currency(), paidTax.Currency())
		}
	}
	return Dividend{Date: d.Date, Issuer: d.Issuer, Amount: d.Amount, PaidTax: paidTax}, nil
}

// IdleCashInterest is interest paid on the idle cash balance of the account.
type IdleCashInterest struct {
	Date   Date
	Amount Money
}
