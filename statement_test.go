package brokerage

import (
	"reflect"
	"strings"
	"testing"
)

func TestJoinContiguousStatements(t *testing.T) {
	p1 := newPartial(date(2024, 1, 1), date(2024, 2, 1))
	p1.StockBuys = append(p1.StockBuys,
		NewStockBuy("AAPL", Q(10), USD(100), USD(1000), USD(1), date(2024, 1, 10), date(2024, 1, 12)))
	p1.OpenPositions["AAPL"] = Q(10)
	p1.CashAssets.Deposit(USD(100))

	p2 := newPartial(date(2024, 2, 1), date(2024, 3, 1))
	p2.OpenPositions["AAPL"] = Q(10)
	p2.CashAssets.Deposit(USD(250))

	statement, err := Join([]*PartialStatement{p1, p2})
	if err != nil {
		t.Fatalf("Join() error: %v", err)
	}

	want := NewRange(date(2024, 1, 1), date(2024, 3, 1))
	if statement.Period != want {
		t.Errorf("period = %s, want %s", statement.Period, want)
	}
	if got := len(statement.StockBuys); got != 1 {
		t.Fatalf("got %d buys, want 1", got)
	}
	if got := statement.StockBuys[0].Unsold(); !got.Equal(Q(10)) {
		t.Errorf("unsold = %s, want 10", got)
	}
	if got := len(statement.StockSells); got != 0 {
		t.Errorf("got %d sells, want 0", got)
	}
	if got := statement.OpenPositions["AAPL"]; !got.Equal(Q(10)) {
		t.Errorf("AAPL open position = %s, want 10", got)
	}
	// The cash balance is a snapshot: the latest statement's wins.
	if got := statement.CashAssets.Balance("USD"); !got.Equal(USD(250)) {
		t.Errorf("cash balance = %s, want %s", got, USD(250))
	}
}

func TestJoinOrdersStatements(t *testing.T) {
	// Statement files arrive in arbitrary order.
	p1 := newPartial(date(2024, 1, 1), date(2024, 2, 1))
	p2 := newPartial(date(2024, 2, 1), date(2024, 3, 1))

	statement, err := Join([]*PartialStatement{p2, p1})
	if err != nil {
		t.Fatalf("Join() error: %v", err)
	}
	if want := NewRange(date(2024, 1, 1), date(2024, 3, 1)); statement.Period != want {
		t.Errorf("period = %s, want %s", statement.Period, want)
	}
}

func TestJoinRepeatable(t *testing.T) {
	// Several symbols bought the same day tie on both the conclusion and
	// the execution date; their order must not depend on the run.
	symbols := []string{"AAPL", "MSFT", "NVDA", "ORCL", "VZ"}
	build := func() []*PartialStatement {
		p1 := newPartial(date(2024, 1, 1), date(2024, 2, 1))
		for _, symbol := range symbols {
			p1.StockBuys = append(p1.StockBuys,
				NewStockBuy(symbol, Q(10), USD(100), USD(1000), USD(1), date(2024, 1, 10), date(2024, 1, 12)))
			p1.OpenPositions[symbol] = Q(10)
		}
		p2 := newPartial(date(2024, 2, 1), date(2024, 3, 1))
		p2.StockSells = append(p2.StockSells,
			NewStockSell("AAPL", Q(10), USD(150), USD(1500), USD(1), date(2024, 2, 10), date(2024, 2, 12)))
		for _, symbol := range symbols[1:] {
			p2.OpenPositions[symbol] = Q(10)
		}
		return []*PartialStatement{p1, p2}
	}

	first, err := Join(build())
	if err != nil {
		t.Fatalf("Join() error: %v", err)
	}
	for i, buy := range first.StockBuys {
		if buy.Symbol != symbols[i] {
			t.Fatalf("StockBuys[%d].Symbol = %s, want %s", i, buy.Symbol, symbols[i])
		}
	}
	for i := 0; i < 10; i++ {
		again, err := Join(build())
		if err != nil {
			t.Fatalf("Join() error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatal("joining the same statements twice gives different results")
		}
	}
}

func TestJoinErrors(t *testing.T) {
	tests := []struct {
		name     string
		partials func() []*PartialStatement
		wantErr  string
	}{
		{
			name:     "no statements",
			partials: func() []*PartialStatement { return nil },
			wantErr:  "no partial statements",
		},
		{
			name: "missing period",
			partials: func() []*PartialStatement {
				p := NewPartialStatement(BrokerInfo{})
				p.SetStartingAssets(false)
				return []*PartialStatement{p}
			},
			wantErr: "statement period is missing",
		},
		{
			name: "gap between periods",
			partials: func() []*PartialStatement {
				return []*PartialStatement{
					newPartial(date(2024, 1, 1), date(2024, 2, 1)),
					newPartial(date(2024, 2, 2), date(2024, 3, 1)),
				}
			},
			wantErr: "non-continuous periods",
		},
		{
			name: "overlapping periods",
			partials: func() []*PartialStatement {
				return []*PartialStatement{
					newPartial(date(2024, 1, 1), date(2024, 2, 1)),
					newPartial(date(2024, 1, 15), date(2024, 3, 1)),
				}
			},
			wantErr: "non-continuous periods",
		},
		{
			name: "first statement with starting assets",
			partials: func() []*PartialStatement {
				p := NewPartialStatement(BrokerInfo{})
				p.SetPeriod(NewRange(date(2024, 1, 1), date(2024, 2, 1)))
				p.SetStartingAssets(true)
				return []*PartialStatement{p}
			},
			wantErr: "the first statement has non-zero starting assets",
		},
		{
			name: "event outside the period",
			partials: func() []*PartialStatement {
				p := newPartial(date(2024, 1, 1), date(2024, 2, 1))
				p.CashFlows = append(p.CashFlows, CashFlow{Date: date(2024, 2, 15), Amount: USD(100)})
				return []*PartialStatement{p}
			},
			wantErr: "outside of the statement period",
		},
		{
			name: "buy settled out of order",
			partials: func() []*PartialStatement {
				p := newPartial(date(2024, 1, 1), date(2024, 2, 1))
				p.StockBuys = append(p.StockBuys,
					NewStockBuy("AAPL", Q(10), USD(100), USD(1000), USD(1), date(2024, 1, 5), date(2024, 1, 20)),
					NewStockBuy("AAPL", Q(10), USD(100), USD(1000), USD(1), date(2024, 1, 10), date(2024, 1, 12)))
				p.OpenPositions["AAPL"] = Q(20)
				return []*PartialStatement{p}
			},
			wantErr: "unexpected execution order for buy trades",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Join(test.partials())
			if err == nil {
				t.Fatal("Join() succeeded, want error")
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("Join() error %q, want it to contain %q", err, test.wantErr)
			}
		})
	}
}

func TestJoinResolvesDeferredDividends(t *testing.T) {
	// The dividend and its withholding tax live in different files.
	p1 := newPartial(date(2024, 1, 1), date(2024, 2, 1))
	p1.DeferredDividends = append(p1.DeferredDividends, DeferredDividend{
		Date:           date(2024, 1, 15),
		Issuer:         "VZ",
		Amount:         USD(100),
		TaxDescription: "VZ Cash Dividend - US Tax",
	})

	p2 := newPartial(date(2024, 2, 1), date(2024, 3, 1))
	p2.AddTaxChange(TaxID{Date: date(2024, 1, 15), Description: "VZ Cash Dividend - US Tax"}, USD(25))
	p2.AddTaxChange(TaxID{Date: date(2024, 1, 15), Description: "VZ Cash Dividend - US Tax"}, USD(-10))

	statement, err := Join([]*PartialStatement{p1, p2})
	if err != nil {
		t.Fatalf("Join() error: %v", err)
	}
	if got := len(statement.Dividends); got != 1 {
		t.Fatalf("got %d dividends, want 1", got)
	}
	dividend := statement.Dividends[0]
	if dividend.Issuer != "VZ" || !dividend.Amount.Equal(USD(100)) {
		t.Errorf("unexpected dividend: %+v", dividend)
	}
	// Net of the withholding and its partial refund.
	if !dividend.PaidTax.Equal(USD(15)) {
		t.Errorf("paid tax = %s, want %s", dividend.PaidTax, USD(15))
	}
}

func TestJoinDividendWithoutTax(t *testing.T) {
	p := newPartial(date(2024, 1, 1), date(2024, 2, 1))
	p.DeferredDividends = append(p.DeferredDividends, DeferredDividend{
		Date:           date(2024, 1, 15),
		Issuer:         "AAPL",
		Amount:         USD(20),
		TaxDescription: "AAPL Cash Dividend - US Tax",
	})

	statement := joinOne(t, p)
	if got := statement.Dividends[0].PaidTax; !got.Equal(USD(0)) {
		t.Errorf("paid tax = %s, want zero", got)
	}
}

func TestJoinUnconsumedTaxes(t *testing.T) {
	p := newPartial(date(2024, 1, 1), date(2024, 2, 1))
	p.AddTaxChange(TaxID{Date: date(2024, 1, 20), Description: "MSFT Cash Dividend - US Tax"}, USD(3))
	p.AddTaxChange(TaxID{Date: date(2024, 1, 15), Description: "VZ Cash Dividend - US Tax"}, USD(5))

	_, err := Join([]*PartialStatement{p})
	if err == nil {
		t.Fatal("Join() succeeded, want error")
	}
	message := err.Error()
	if !strings.Contains(message, "unable to find origin operations for the following taxes:") {
		t.Fatalf("Join() error %q, want unconsumed taxes", err)
	}
	// Listed in date order.
	vz := strings.Index(message, "VZ Cash Dividend")
	msft := strings.Index(message, "MSFT Cash Dividend")
	if vz < 0 || msft < 0 || vz > msft {
		t.Errorf("taxes are not listed in date order:\n%s", message)
	}
}

func TestInstrumentName(t *testing.T) {
	p := newPartial(date(2024, 1, 1), date(2024, 2, 1))
	p.InstrumentNames["AAPL"] = "APPLE INC"
	statement := joinOne(t, p)

	name, err := statement.InstrumentName("AAPL")
	if err != nil {
		t.Fatalf("InstrumentName() error: %v", err)
	}
	if want := "APPLE INC (AAPL)"; name != want {
		t.Errorf("InstrumentName() = %q, want %q", name, want)
	}
	if _, err := statement.InstrumentName("MSFT"); err == nil {
		t.Error("InstrumentName(MSFT) succeeded, want error")
	}
	if got := statement.Symbols(); len(got) != 1 || got[0] != "AAPL" {
		t.Errorf("Symbols() = %v, want [AAPL]", got)
	}
}

func TestEmulateSell(t *testing.T) {
	p := NewPartialStatement(BrokerInfo{Name: "Test Broker", Schedule: FixedCommission{Fee: USD(2)}})
	p.SetPeriod(NewRange(date(2024, 1, 1), date(2024, 2, 1)))
	p.SetStartingAssets(false)
	p.StockBuys = append(p.StockBuys,
		NewStockBuy("AAPL", Q(10), USD(100), USD(1000), USD(1), date(2024, 1, 10), date(2024, 1, 12)))
	p.OpenPositions["AAPL"] = Q(10)
	p.CashAssets.Deposit(USD(500))

	statement := joinOne(t, p)
	if err := statement.EmulateSell("AAPL", Q(4), USD(150)); err != nil {
		t.Fatalf("EmulateSell() error: %v", err)
	}

	if got := len(statement.StockSells); got != 1 {
		t.Fatalf("got %d sells, want 1", got)
	}
	sell := statement.StockSells[0]
	if sell.Symbol != "AAPL" || !sell.Quantity.Equal(Q(4)) ||
		!sell.Volume.Equal(USD(600)) || !sell.Commission.Equal(USD(2)) {
		t.Errorf("unexpected emulated sell: %+v", sell)
	}
	if got := statement.CashAssets.Balance("USD"); !got.Equal(USD(1098)) {
		t.Errorf("cash balance = %s, want %s", got, USD(1098))
	}
}
