package brokerage

import (
	"maps"
	"slices"
	"strings"
)

// CashFlow is an external deposit or withdrawal of cash on the account.
//
// Internal transfers (sweep pairs, settlement moves between sub-accounts)
// never become CashFlow entries: only flows that cross the account boundary
// belong to the cash-flow ledger.
type CashFlow struct {
	Date   Date
	Amount Money
}

// CashAccount holds cash balances, one per currency. Balances in different
// currencies are never summed together; a total is always per-currency.
type CashAccount map[string]Money

// NewCashAccount creates an empty multi-currency cash account.
func NewCashAccount() CashAccount { return make(CashAccount) }

// Deposit adds the amount to the balance of its currency.
func (a CashAccount) Deposit(m Money) {
	a[m.Currency()] = a[m.Currency()].Add(m)
}

// Withdraw subtracts the amount from the balance of its currency.
func (a CashAccount) Withdraw(m Money) {
	a[m.Currency()] = a[m.Currency()].Sub(m)
}

// Balance returns the balance held in the given currency.
func (a CashAccount) Balance(currency string) Money {
	m, ok := a[currency]
	if !ok {
		return M(0, currency)
	}
	return m
}

// IsEmpty returns true when no balance has been recorded in any currency.
func (a CashAccount) IsEmpty() bool { return len(a) == 0 }

// Currencies returns the recorded currencies in lexical order.
func (a CashAccount) Currencies() []string {
	return slices.Sorted(maps.Keys(a))
}

// String formats the account as "1,000.00 USD + 250.00 EUR" for error messages.
func (a CashAccount) String() string {
	var parts []string
	for _, currency := range a.Currencies() {
		parts = append(parts, a[currency].String())
	}
	return strings.Join(parts, " + ")
}

// clone returns an independent copy of the account.
func (a CashAccount) clone() CashAccount {
	return maps.Clone(a)
}
