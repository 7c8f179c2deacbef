package brokerage

import "time"

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

func date(y, m, d int) Date { return NewDate(y, time.Month(m), d) }

// newPartial builds a valid empty partial statement covering [from, to).
func newPartial(from, to Date) *PartialStatement {
	p := NewPartialStatement(BrokerInfo{Name: "Test Broker"})
	if err := p.SetPeriod(NewRange(from, to)); err != nil {
		panic(err)
	}
	if err := p.SetStartingAssets(false); err != nil {
		panic(err)
	}
	return p
}
