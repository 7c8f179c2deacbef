package brokerage

import "fmt"

// StockBuy is a purchase of a security, tracked as a lot until trade
// matching has consumed all of its quantity.
type StockBuy struct {
	Symbol     string
	Quantity   Quantity
	Price      Money // unit price
	Volume     Money // settlement volume, net of commission
	Commission Money

	ConclusionDate Date // when the trade was concluded
	ExecutionDate  Date // when the trade settled

	sold Quantity
}

// NewStockBuy creates a new, fully unsold buy lot.
func NewStockBuy(symbol string, quantity Quantity, price, volume, commission Money, conclusion, execution Date) StockBuy {
	return StockBuy{
		Symbol: symbol, Quantity: quantity, Price: price, Volume: volume, Commission: commission,
		ConclusionDate: conclusion, ExecutionDate: execution,
	}
}

// Unsold returns the quantity of the lot not yet consumed by matching sells.
func (b *StockBuy) Unsold() Quantity { return b.Quantity.Sub(b.sold) }

// IsSold returns true once the lot is fully consumed.
func (b *StockBuy) IsSold() bool { return b.sold.Equal(b.Quantity) }

// sell consumes a quantity from the lot. The caller guarantees the quantity
// does not exceed the unsold remainder.
func (b *StockBuy) sell(quantity Quantity) {
	if quantity.GreaterThan(b.Unsold()) {
		panic(fmt.Sprintf("selling %s from a %s lot with only %s unsold", quantity, b.Symbol, b.Unsold()))
	}
	b.sold = b.sold.Add(quantity)
}

// StockSell is a sale of a security. After trade matching it carries the
// list of buy lots that satisfied it.
type StockSell struct {
	Symbol     string
	Quantity   Quantity
	Price      Money // unit price
	Volume     Money // settlement volume, net of commission
	Commission Money

	ConclusionDate Date
	ExecutionDate  Date

	Sources []StockSellSource

	processed bool
}

// NewStockSell creates a new, unmatched sell.
func NewStockSell(symbol string, quantity Quantity, price, volume, commission Money, conclusion, execution Date) StockSell {
	return StockSell{
		Symbol: symbol, Quantity: quantity, Price: price, Volume: volume, Commission: commission,
		ConclusionDate: conclusion, ExecutionDate: execution,
	}
}

// IsProcessed returns true once trade matching attached sources to the sell.
func (s *StockSell) IsProcessed() bool { return s.processed }

// process attaches the matched sources. The sources must sum exactly to the
// sell's quantity.
func (s *StockSell) process(sources []StockSellSource) error {
	var total Quantity
	for _, source := range sources {
		total = total.Add(source.Quantity)
	}
	if !total.Equal(s.Quantity) {
		return fmt.Errorf("%s sell sources sum to %s, want %s", s.Symbol, total, s.Quantity)
	}
	s.Sources = sources
	s.processed = true
	return nil
}

// StockSellSource is the fragment of a sell satisfied by one historical buy
// lot: the consumed quantity at the lot's price, with the lot's commission
// prorated by the consumed share of the lot.
type StockSellSource struct {
	Quantity   Quantity
	Price      Money
	Commission Money

	ConclusionDate Date // the buy lot's conclusion date
	ExecutionDate  Date // the buy lot's execution date
}

// CostBasis returns the acquisition cost of the fragment including its share
// of the buy commission.
func (s StockSellSource) CostBasis() Money {
	return s.Price.Mul(s.Quantity).Add(s.Commission)
}
