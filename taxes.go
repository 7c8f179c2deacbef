package brokerage

import "fmt"

// TaxID identifies a withholding-tax operation the way brokers report it: by
// payment date and free-text description. Several statement files may carry
// adjustments (withholdings, refunds, corrections) for the same TaxID.
type TaxID struct {
	Date        Date
	Description string
}

func (id TaxID) String() string { return fmt.Sprintf("%s: %s", id.Date, id.Description) }

// TaxChanges accumulates the signed withholding adjustments recorded for one
// TaxID across all partial statements.
type TaxChanges struct {
	// withheld amounts are positive, refunds negative, in statement order.
	changes []Money
}

// Add records one more adjustment. A withholding is positive, a refund
// negative.
func (c *TaxChanges) Add(amount Money) {
	c.changes = append(c.changes, amount)
}

// Merge folds the adjustments of another accumulator into this one.
func (c *TaxChanges) Merge(other TaxChanges) {
	c.changes = append(c.changes, other.changes...)
}

// Result collapses the signed adjustments to the net withheld tax. A net
// refund in excess of what was withheld, or a mix of currencies, indicates a
// defective source export and is an error.
func (c TaxChanges) Result() (Money, error) {
	if len(c.changes) == 0 {
		return Money{}, fmt.Errorf("no tax changes accumulated")
	}
	currency := c.changes[0].Currency()
	total := M(0, currency)
	for _, change := range c.changes {
		if change.Currency() != currency {
			return Money{}, fmt.Errorf("mixed tax currencies: %s and %s", currency, change.Currency())
		}
		total = total.Add(change)
	}
	if total.IsNegative() {
		return Money{}, fmt.Errorf("got a negative net tax: %s", total)
	}
	return total, nil
}
