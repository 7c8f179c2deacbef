// Package vantage reads Vantage Securities xlsx account statements.
//
// A statement is a single "Statement" sheet laid out as titled blocks:
// the statement period, the net assets carried into it, the closing cash
// balances and open positions, and the period's deposits, trades and
// dividends. Dividends come with their withholding already detailed, so no
// deferred resolution is needed.
package vantage

import (
	"fmt"
	"strings"

	"github.com/etnz/brokerage"
	"github.com/etnz/brokerage/xlsdoc"
)

const sheetName = "Statement"

// Reader parses Vantage Securities statement workbooks.
type Reader struct {
	broker brokerage.BrokerInfo
}

// NewReader creates a statement reader for the broker.
func NewReader(broker brokerage.BrokerInfo) *Reader {
	return &Reader{broker: broker}
}

// IsStatement recognizes statement files by their extension.
func (r *Reader) IsStatement(fileName string) bool {
	return strings.HasSuffix(strings.ToLower(fileName), ".xlsx")
}

// Read parses one statement workbook.
func (r *Reader) Read(path string) (*brokerage.PartialStatement, error) {
	p := &parser{statement: brokerage.NewPartialStatement(r.broker)}

	err := xlsdoc.Read(path, sheetName, []xlsdoc.Section{
		{Title: "Vantage Securities Statement", Prefix: true, Required: true},
		{Title: "Statement Period", Required: true, Parse: p.parsePeriod},
		{Title: "Opening Net Assets", Required: true, Parse: p.parseOpeningAssets},
		{Title: "Deposits & Withdrawals", Parse: p.parseCashFlows},
		{Title: "Trades", Parse: p.parseTrades},
		{Title: "Dividends", Parse: p.parseDividends},
		{Title: "Cash Balances", Required: true, Parse: p.parseCashBalances},
		{Title: "Open Positions", Parse: p.parseOpenPositions},
		{Title: "Instruments", Parse: p.parseInstruments},
	})
	if err != nil {
		return nil, err
	}
	if err := p.statement.Validate(); err != nil {
		return nil, err
	}
	return p.statement, nil
}

type parser struct {
	statement *brokerage.PartialStatement
}

// parsePeriod reads the Start and End rows. The end date names the last
// covered day.
func (p *parser) parsePeriod(rows [][]string) error {
	dates := make(map[string]brokerage.Date)
	for _, row := range rows {
		name := xlsdoc.Cell(row, 0)
		date, err := brokerage.ParseDate(xlsdoc.Cell(row, 1))
		if err != nil {
			return fmt.Errorf("%s date: %w", name, err)
		}
		dates[name] = date
	}
	start, ok := dates["Start"]
	if !ok {
		return fmt.Errorf("missing Start row")
	}
	end, ok := dates["End"]
	if !ok {
		return fmt.Errorf("missing End row")
	}
	return p.statement.SetPeriod(brokerage.NewRange(start, end.Add(1)))
}

// parseOpeningAssets reads the Total row declaring the net asset value
// carried into the period.
func (p *parser) parseOpeningAssets(rows [][]string) error {
	for _, row := range rows {
		if xlsdoc.Cell(row, 0) != "Total" {
			continue
		}
		total, err := brokerage.ParseMoney(xlsdoc.Cell(row, 1), xlsdoc.Cell(row, 2))
		if err != nil {
			return err
		}
		return p.statement.SetStartingAssets(!total.IsZero())
	}
	return fmt.Errorf("missing Total row")
}

func (p *parser) parseCashFlows(rows [][]string) error {
	rows, err := xlsdoc.Header(rows, "Date", "Description", "Amount", "Currency")
	if err != nil {
		return err
	}
	for _, row := range rows {
		date, err := brokerage.ParseDate(xlsdoc.Cell(row, 0))
		if err != nil {
			return err
		}
		amount, err := brokerage.ParseMoney(xlsdoc.Cell(row, 2), xlsdoc.Cell(row, 3))
		if err != nil {
			return err
		}
		if amount, err = brokerage.CheckAmount("cash flow amount", amount, brokerage.NonZero); err != nil {
			return err
		}
		p.statement.CashFlows = append(p.statement.CashFlows, brokerage.CashFlow{Date: date, Amount: amount})
	}
	return nil
}

func (p *parser) parseTrades(rows [][]string) error {
	rows, err := xlsdoc.Header(rows, "Date", "Settle Date", "Symbol", "Side", "Quantity", "Price", "Commission", "Currency")
	if err != nil {
		return err
	}
	for _, row := range rows {
		conclusion, err := brokerage.ParseDate(xlsdoc.Cell(row, 0))
		if err != nil {
			return err
		}
		execution, err := brokerage.ParseDate(xlsdoc.Cell(row, 1))
		if err != nil {
			return err
		}
		symbol := xlsdoc.Cell(row, 2)
		side := xlsdoc.Cell(row, 3)
		currency := xlsdoc.Cell(row, 7)

		quantity, err := brokerage.ParseQuantity(xlsdoc.Cell(row, 4))
		if err != nil {
			return err
		}
		if !quantity.IsPositive() {
			return fmt.Errorf("invalid %s trade quantity: %s", symbol, quantity)
		}
		price, err := brokerage.ParseMoney(xlsdoc.Cell(row, 5), currency)
		if err != nil {
			return err
		}
		if price, err = brokerage.CheckAmount("price", price, brokerage.StrictlyPositive); err != nil {
			return err
		}
		commission, err := brokerage.ParseMoney(xlsdoc.Cell(row, 6), currency)
		if err != nil {
			return err
		}
		if commission, err = brokerage.CheckAmount("commission", commission, brokerage.PositiveOrZero); err != nil {
			return err
		}
		volume := price.Mul(quantity)

		switch side {
		case "Buy":
			p.statement.StockBuys = append(p.statement.StockBuys,
				brokerage.NewStockBuy(symbol, quantity, price, volume, commission, conclusion, execution))
		case "Sell":
			p.statement.StockSells = append(p.statement.StockSells,
				brokerage.NewStockSell(symbol, quantity, price, volume, commission, conclusion, execution))
		default:
			return fmt.Errorf("unsupported %s trade side: %q", symbol, side)
		}
	}
	return nil
}

func (p *parser) parseDividends(rows [][]string) error {
	rows, err := xlsdoc.Header(rows, "Date", "Symbol", "Description", "Amount", "Withholding Tax", "Currency")
	if err != nil {
		return err
	}
	for _, row := range rows {
		date, err := brokerage.ParseDate(xlsdoc.Cell(row, 0))
		if err != nil {
			return err
		}
		symbol := xlsdoc.Cell(row, 1)
		currency := xlsdoc.Cell(row, 5)

		amount, err := brokerage.ParseMoney(xlsdoc.Cell(row, 3), currency)
		if err != nil {
			return err
		}
		if amount, err = brokerage.CheckAmount("dividend amount", amount, brokerage.StrictlyPositive); err != nil {
			return err
		}
		tax, err := brokerage.ParseMoney(xlsdoc.Cell(row, 4), currency)
		if err != nil {
			return err
		}
		if tax, err = brokerage.CheckAmount("withholding tax", tax, brokerage.PositiveOrZero); err != nil {
			return err
		}

		p.statement.Dividends = append(p.statement.Dividends, brokerage.Dividend{
			Date: date, Issuer: symbol, Amount: amount, PaidTax: tax,
		})
	}
	return nil
}

func (p *parser) parseCashBalances(rows [][]string) error {
	rows, err := xlsdoc.Header(rows, "Currency", "Amount")
	if err != nil {
		return err
	}
	for _, row := range rows {
		amount, err := brokerage.ParseMoney(xlsdoc.Cell(row, 1), xlsdoc.Cell(row, 0))
		if err != nil {
			return err
		}
		p.statement.CashAssets.Deposit(amount)
	}
	return nil
}

func (p *parser) parseOpenPositions(rows [][]string) error {
	rows, err := xlsdoc.Header(rows, "Symbol", "Quantity")
	if err != nil {
		return err
	}
	for _, row := range rows {
		symbol := xlsdoc.Cell(row, 0)
		quantity, err := brokerage.ParseQuantity(xlsdoc.Cell(row, 1))
		if err != nil {
			return err
		}
		if !quantity.IsPositive() {
			return fmt.Errorf("invalid %s open position: %s", symbol, quantity)
		}
		p.statement.OpenPositions[symbol] = quantity
	}
	return nil
}

func (p *parser) parseInstruments(rows [][]string) error {
	rows, err := xlsdoc.Header(rows, "Symbol", "Name")
	if err != nil {
		return err
	}
	for _, row := range rows {
		p.statement.InstrumentNames[xlsdoc.Cell(row, 0)] = xlsdoc.Cell(row, 1)
	}
	return nil
}
