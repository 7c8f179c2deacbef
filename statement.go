package brokerage

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Statement is the union of all of an account's partial statements: one
// continuous period and the date-sorted, cross-validated event lists.
//
// A Statement only exists in its validated form. Once Join returns it, it is
// immutable (except for order emulation, which is an explicit what-if
// mutation) and safe to share read-only across downstream consumers.
type Statement struct {
	Broker BrokerInfo
	Period Range

	CashFlows  []CashFlow
	CashAssets CashAccount

	StockBuys  []StockBuy
	StockSells []StockSell

	Dividends        []Dividend
	IdleCashInterest []IdleCashInterest

	OpenPositions map[string]Quantity

	instrumentNames map[string]string
}

// Join combines the partial statements of one account into a single
// validated Statement.
//
// The partial statements are sorted by period start; the first must declare
// zero starting assets and each subsequent period must begin exactly where
// the previous one ended. Withholding-tax fragments accumulated across all
// files are resolved against deferred dividends, trade matching attaches
// buy lots to every sell, and the recomputed open positions are checked
// against the declared snapshot.
func Join(partials []*PartialStatement) (*Statement, error) {
	if len(partials) == 0 {
		return nil, fmt.Errorf("no partial statements to join")
	}
	for _, partial := range partials {
		if err := partial.Validate(); err != nil {
			return nil, fmt.Errorf("invalid partial statement: %w", err)
		}
	}
	slices.SortStableFunc(partials, func(a, b *PartialStatement) int {
		return a.Period.From.Compare(b.Period.From)
	})

	joint, err := newEmptyFrom(partials[0])
	if err != nil {
		return nil, err
	}

	var deferred []DeferredDividend
	taxChanges := make(map[TaxID]TaxChanges)

	for _, partial := range partials {
		deferred = append(deferred, partial.DeferredDividends...)
		for id, changes := range partial.TaxChanges {
			accumulated := taxChanges[id]
			accumulated.Merge(changes)
			taxChanges[id] = accumulated
		}
		if err := joint.merge(partial); err != nil {
			return nil, fmt.Errorf("failed to merge broker statements: %w", err)
		}
	}

	// Collapse each accumulator to one net tax. A fragment with no
	// resolvable net means the accumulation itself is defective.
	taxes := make(map[TaxID]Money, len(taxChanges))
	for id, changes := range taxChanges {
		amount, err := changes.Result()
		if err != nil {
			return nil, fmt.Errorf("failed to process %s tax: %w", id, err)
		}
		taxes[id] = amount
	}

	for _, d := range deferred {
		dividend, err := d.resolve(taxes)
		if err != nil {
			return nil, err
		}
		joint.Dividends = append(joint.Dividends, dividend)
	}

	// Whatever tax remains was withheld against no identifiable operation.
	if len(taxes) > 0 {
		ids := slices.SortedFunc(maps.Keys(taxes), func(a, b TaxID) int {
			if c := a.Date.Compare(b.Date); c != 0 {
				return c
			}
			return strings.Compare(a.Description, b.Description)
		})
		var lines []string
		for _, id := range ids {
			lines = append(lines, "* "+id.String())
		}
		return nil, fmt.Errorf("unable to find origin operations for the following taxes:\n%s",
			strings.Join(lines, "\n"))
	}

	if err := joint.validate(); err != nil {
		return nil, err
	}
	if err := joint.matchTrades(); err != nil {
		return nil, err
	}
	return joint, nil
}

// newEmptyFrom seeds a Statement from the earliest partial statement: its
// period collapses to a single instant at the partial's start.
func newEmptyFrom(partial *PartialStatement) (*Statement, error) {
	starting, err := partial.StartingAssets()
	if err != nil {
		return nil, err
	}
	if starting {
		return nil, fmt.Errorf("invalid statement period: the first statement has non-zero starting assets")
	}
	return &Statement{
		Broker:          partial.Broker,
		Period:          Range{From: partial.Period.From, To: partial.Period.From},
		CashAssets:      NewCashAccount(),
		OpenPositions:   make(map[string]Quantity),
		instrumentNames: make(map[string]string),
	}, nil
}

// merge appends one partial statement, enforcing exact period continuity:
// no gap, no overlap.
func (s *Statement) merge(partial *PartialStatement) error {
	if partial.Period.From != s.Period.To {
		return fmt.Errorf("non-continuous periods: %s, %s", s.Period, partial.Period)
	}
	s.Period.To = partial.Period.To

	s.CashFlows = append(s.CashFlows, partial.CashFlows...)
	// Cash assets are a point-in-time balance, not a delta: the latest
	// snapshot replaces the previous one.
	s.CashAssets = partial.CashAssets.clone()

	s.StockBuys = append(s.StockBuys, partial.StockBuys...)
	s.StockSells = append(s.StockSells, partial.StockSells...)
	s.Dividends = append(s.Dividends, partial.Dividends...)
	s.IdleCashInterest = append(s.IdleCashInterest, partial.IdleCashInterest...)

	s.OpenPositions = maps.Clone(partial.OpenPositions)
	maps.Copy(s.instrumentNames, partial.InstrumentNames)

	return nil
}

// validate sorts the event lists and checks that every event falls within
// the statement period.
func (s *Statement) validate() error {
	slices.SortStableFunc(s.CashFlows, func(a, b CashFlow) int { return a.Date.Compare(b.Date) })
	slices.SortStableFunc(s.Dividends, func(a, b Dividend) int { return a.Date.Compare(b.Date) })
	slices.SortStableFunc(s.IdleCashInterest, func(a, b IdleCashInterest) int { return a.Date.Compare(b.Date) })

	if err := s.orderStockBuys(); err != nil {
		return err
	}
	if err := s.orderStockSells(); err != nil {
		return err
	}

	checkDate := func(name string, date Date) error {
		if date.Before(s.Period.From) || date.After(s.Period.LastDay()) {
			return fmt.Errorf("got a %s outside of the statement period: %s", name, date)
		}
		return nil
	}
	for _, flow := range s.CashFlows {
		if err := checkDate("cash flow", flow.Date); err != nil {
			return err
		}
	}
	for _, buy := range s.StockBuys {
		if err := checkDate("stock buy", buy.ConclusionDate); err != nil {
			return err
		}
	}
	for _, sell := range s.StockSells {
		if err := checkDate("stock sell", sell.ConclusionDate); err != nil {
			return err
		}
	}
	for _, dividend := range s.Dividends {
		if err := checkDate("dividend", dividend.Date); err != nil {
			return err
		}
	}
	for _, interest := range s.IdleCashInterest {
		if err := checkDate("idle cash interest", interest.Date); err != nil {
			return err
		}
	}
	return nil
}

// orderStockBuys sorts the buys by (conclusion date, execution date) and
// checks that execution dates come out non-decreasing. An out-of-order
// settlement is reported, not silently re-sorted away: it may indicate a
// data integrity problem upstream.
func (s *Statement) orderStockBuys() error {
	slices.SortStableFunc(s.StockBuys, func(a, b StockBuy) int {
		if c := a.ConclusionDate.Compare(b.ConclusionDate); c != 0 {
			return c
		}
		return a.ExecutionDate.Compare(b.ExecutionDate)
	})
	var prev Date
	for _, buy := range s.StockBuys {
		if buy.ExecutionDate.Before(prev) {
			return fmt.Errorf("got an unexpected execution order for buy trades")
		}
		prev = buy.ExecutionDate
	}
	return nil
}

func (s *Statement) orderStockSells() error {
	slices.SortStableFunc(s.StockSells, func(a, b StockSell) int {
		if c := a.ConclusionDate.Compare(b.ConclusionDate); c != 0 {
			return c
		}
		return a.ExecutionDate.Compare(b.ExecutionDate)
	})
	var prev Date
	for _, sell := range s.StockSells {
		if sell.ExecutionDate.Before(prev) {
			return fmt.Errorf("got an unexpected execution order for sell trades")
		}
		prev = sell.ExecutionDate
	}
	return nil
}

// InstrumentName returns the display name of a symbol held in the statement.
func (s *Statement) InstrumentName(symbol string) (string, error) {
	name, ok := s.instrumentNames[symbol]
	if !ok {
		return "", fmt.Errorf("unable to find %q instrument name in the broker statement", symbol)
	}
	return fmt.Sprintf("%s (%s)", name, symbol), nil
}

// Symbols returns all symbols the statement knows about, in lexical order.
func (s *Statement) Symbols() []string {
	return slices.Sorted(maps.Keys(s.instrumentNames))
}

// BatchQuotes registers all of the statement's symbols for a later batched
// price fetch. Quoting happens after reconciliation, never during it.
func (s *Statement) BatchQuotes(quotes *Quotes) {
	for _, symbol := range s.Symbols() {
		quotes.Batch(symbol)
	}
}

// EmulateSell appends a what-if sell order at the given price, as if it were
// concluded today, using the broker's commission schedule. The emulated
// trade must be matched again before the statement is reused.
func (s *Statement) EmulateSell(symbol string, quantity Quantity, price Money) error {
	today := Today()

	conclusion := today
	execution := today
	if n := len(s.StockSells); n > 0 {
		if last := s.StockSells[n-1]; last.ExecutionDate.After(today) {
			execution = last.ExecutionDate
		}
	}

	commission, err := s.Broker.TradeCommission(quantity, price)
	if err != nil {
		return fmt.Errorf("cannot compute %q trade commission: %w", s.Broker.Name, err)
	}

	volume := price.Mul(quantity)
	s.StockSells = append(s.StockSells,
		NewStockSell(symbol, quantity, price, volume, commission, conclusion, execution))
	s.CashAssets.Deposit(volume)
	s.CashAssets.Withdraw(commission)
	return nil
}
