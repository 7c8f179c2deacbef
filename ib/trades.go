package ib

import (
	"fmt"

	"github.com/etnz/brokerage"
)

// tradesParser reads stock trade executions. The row kind column only
// carries "Data"; the schema's DataDiscriminator field distinguishes order
// rows from the closed-lot detail rows that repeat the same trades.
type tradesParser struct{ baseParser }

func (tradesParser) skipDataTypes() []string { return []string{"SubTotal", "Total", "Notes"} }

func (tradesParser) parse(p *statementParser, r *record) error {
	discriminator, err := r.get("DataDiscriminator")
	if err != nil {
		return err
	}
	if discriminator != "Order" {
		// ClosedLot rows restate orders lot by lot.
		return nil
	}

	category, err := r.get("Asset Category")
	if err != nil {
		return err
	}
	switch category {
	case "Stocks":
	case "Forex":
		// Currency conversions don't open or close stock positions.
		return nil
	default:
		return fmt.Errorf("got an unsupported asset category: %q", category)
	}

	currency, err := r.get("Currency")
	if err != nil {
		return err
	}
	symbol, err := r.get("Symbol")
	if err != nil {
		return err
	}
	date, err := r.parseDateTime("Date/Time")
	if err != nil {
		return err
	}

	signedQuantity, err := r.parseQuantity("Quantity")
	if err != nil {
		return err
	}
	if signedQuantity.IsZero() {
		return fmt.Errorf("invalid trade quantity: 0")
	}
	buy := signedQuantity.IsPositive()
	quantity := signedQuantity.Abs()

	price, err := r.parseAmount("T. Price", currency)
	if err != nil {
		return err
	}
	if price, err = brokerage.CheckAmount("price", price, brokerage.StrictlyPositive); err != nil {
		return err
	}

	// Commissions are exported as a negative cash impact.
	fee, err := r.parseAmount("Comm/Fee", currency)
	if err != nil {
		return err
	}
	commission, err := brokerage.CheckAmount("commission", fee.Neg(), brokerage.PositiveOrZero)
	if err != nil {
		return err
	}

	// Proceeds are negative for buys and positive for sells, and exclude
	// the commission.
	proceeds, err := r.parseAmount("Proceeds", currency)
	if err != nil {
		return err
	}
	restriction := brokerage.StrictlyPositive
	if buy {
		restriction = brokerage.StrictlyNegative
	}
	if _, err := brokerage.CheckAmount("trade volume", proceeds, restriction); err != nil {
		return err
	}
	volume := proceeds.Abs()

	if !price.Mul(quantity).Round().Equal(volume.Round()) {
		return fmt.Errorf("%s trade volume %s doesn't match price %s x quantity %s",
			symbol, volume, price, quantity)
	}

	if buy {
		p.statement.StockBuys = append(p.statement.StockBuys,
			brokerage.NewStockBuy(symbol, quantity, price, volume, commission, date, date))
	} else {
		p.statement.StockSells = append(p.statement.StockSells,
			brokerage.NewStockSell(symbol, quantity, price, volume, commission, date, date))
	}
	return nil
}

// openPositionsParser reads the declared open-position snapshot.
type openPositionsParser struct{ baseParser }

func (openPositionsParser) skipDataTypes() []string { return []string{"Total"} }

func (openPositionsParser) parse(p *statementParser, r *record) error {
	discriminator, err := r.get("DataDiscriminator")
	if err != nil {
		return err
	}
	if discriminator != "Summary" {
		return nil
	}

	symbol, err := r.get("Symbol")
	if err != nil {
		return err
	}
	quantity, err := r.parseQuantity("Quantity")
	if err != nil {
		return err
	}
	if !quantity.IsPositive() {
		return fmt.Errorf("invalid %s open position: %s", symbol, quantity)
	}
	p.statement.OpenPositions[symbol] = quantity
	return nil
}
