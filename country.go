package brokerage

import "github.com/shopspring/decimal"

// Country carries the jurisdiction parameters needed to compute withholding
// taxes: the income tax rate applied to dividends and the precision the tax
// authority rounds tax amounts to.
type Country struct {
	Currency string

	taxRate      decimal.Decimal
	taxPrecision int32
}

// NewCountry creates a jurisdiction with an arbitrary tax rate (as a
// fraction, 0.15 for 15%) and rounding precision (in decimal digits).
func NewCountry(currency string, taxRate decimal.Decimal, taxPrecision int32) Country {
	return Country{Currency: currency, taxRate: taxRate, taxPrecision: taxPrecision}
}

// Residence is the default jurisdiction of the account holder, used to
// compute the tax payable on realized income.
func Residence() Country {
	return NewCountry("EUR", decimal.New(28, -2), 2)
}

// UnitedStates is the default source-country jurisdiction for dividend
// withholding: the treaty rate applied to dividends paid to non-residents.
func UnitedStates() Country {
	return NewCountry("USD", decimal.New(15, -2), 2)
}

// RoundTax rounds a tax amount to the jurisdiction's precision.
func (c Country) RoundTax(tax Money) Money {
	return M(tax.value.Round(c.taxPrecision), tax.Currency())
}

// TaxToPay returns the tax due on the income, reduced (never below zero) by
// the tax already withheld abroad. Non-positive income bears no tax.
func (c Country) TaxToPay(income, alreadyPaid Money) Money {
	if !income.IsPositive() {
		return M(0, income.Currency())
	}
	tax := c.RoundTax(M(income.value.Mul(c.taxRate), income.Currency()))
	if alreadyPaid.IsZero() {
		return tax
	}
	if alreadyPaid.IsNegative() {
		panic("already paid tax must not be negative")
	}
	deduction := c.RoundTax(alreadyPaid)
	if deduction.LessThan(tax) {
		return tax.Sub(deduction)
	}
	return M(0, income.Currency())
}

// DeduceIncome inverts the withholding gross-up: given the net amount that
// reached the account, it returns the gross income before the jurisdiction's
// tax was withheld at the source.
func (c Country) DeduceIncome(netAmount Money) Money {
	one := decimal.New(1, 0)
	gross := netAmount.value.Div(one.Sub(c.taxRate))
	return c.RoundTax(M(gross, netAmount.Currency()))
}
