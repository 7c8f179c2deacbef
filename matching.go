package brokerage

import (
	"fmt"
	"maps"
	"slices"
)

// matchTrades pairs every sell against the account's prior buy lots, oldest
// open lot first (FIFO). Each consumed fragment becomes a StockSellSource
// carrying the lot's price and a commission prorated by the consumed share
// of the lot.
//
// A sell that requests quantity for a symbol with no remaining open lots is
// an error: the export starts mid-position without a matching opening
// balance. After matching, the recomputed open positions must equal the
// snapshot declared by the statement; a mismatch indicates a parsing bug or
// an unsupported corporate action (split, merger).
func (s *Statement) matchTrades() error {
	if err := s.orderStockBuys(); err != nil {
		return err
	}
	if err := s.orderStockSells(); err != nil {
		return err
	}

	total := len(s.StockBuys)
	processed := make([]StockBuy, 0, total)
	open := make(map[string][]StockBuy)

	for _, buy := range s.StockBuys {
		if buy.IsSold() {
			processed = append(processed, buy)
			continue
		}
		open[buy.Symbol] = append(open[buy.Symbol], buy)
	}

	for i := range s.StockSells {
		sell := &s.StockSells[i]
		if sell.IsProcessed() {
			continue
		}

		queue := open[sell.Symbol]
		remaining := sell.Quantity
		var sources []StockSellSource

		for remaining.IsPositive() {
			if len(queue) == 0 {
				return fmt.Errorf("error while processing %s position closing: there are no open positions for it", sell.Symbol)
			}
			lot := &queue[0]

			consumed := remaining.Min(lot.Unsold())
			sources = append(sources, StockSellSource{
				Quantity:       consumed,
				Price:          lot.Price,
				Commission:     lot.Commission.Mul(consumed).Div(lot.Quantity),
				ConclusionDate: lot.ConclusionDate,
				ExecutionDate:  lot.ExecutionDate,
			})

			remaining = remaining.Sub(consumed)
			lot.sell(consumed)
			if lot.IsSold() {
				processed = append(processed, *lot)
				queue = queue[1:]
			}
		}
		open[sell.Symbol] = queue

		if err := sell.process(sources); err != nil {
			return err
		}
	}

	// Symbol order fixes the relative order of lots whose conclusion and
	// execution dates tie across symbols; the final stable sort keeps it.
	for _, symbol := range slices.Sorted(maps.Keys(open)) {
		processed = append(processed, open[symbol]...)
	}
	// Every lot must be accounted for, either consumed or still open.
	if len(processed) != total {
		return fmt.Errorf("trade matching accounted for %d buy lots, want %d", len(processed), total)
	}
	s.StockBuys = processed
	if err := s.orderStockBuys(); err != nil {
		return err
	}

	return s.validateOpenPositions()
}

// validateOpenPositions recomputes the open positions from the unsold lot
// quantities and compares them to the snapshot declared in the statement.
func (s *Statement) validateOpenPositions() error {
	recomputed := make(map[string]Quantity)
	for i := range s.StockBuys {
		buy := &s.StockBuys[i]
		if buy.IsSold() {
			continue
		}
		recomputed[buy.Symbol] = recomputed[buy.Symbol].Add(buy.Unsold())
	}

	if len(recomputed) != len(s.OpenPositions) {
		return fmt.Errorf("the calculated open positions don't match the declared ones: got %d symbols, want %d",
			len(recomputed), len(s.OpenPositions))
	}
	for symbol, quantity := range recomputed {
		declared, ok := s.OpenPositions[symbol]
		if !ok || !declared.Equal(quantity) {
			return fmt.Errorf("the calculated %s open position (%s) doesn't match the declared one (%s)",
				symbol, quantity, declared)
		}
	}
	return nil
}
