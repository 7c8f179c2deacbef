package firstrade

import (
	"fmt"
	"log"
	"strings"

	"github.com/etnz/brokerage"
)

// Transfers between the cash account and the fully-paid securities lending
// program. They always compensate each other and never change the account
// balance.
const (
	xferFromLending = "XFER CASH FROM FFS"
	xferToLending   = "XFER FFS TO CASH"
)

// withheldDividendMemo marks dividends paid net of a withholding this parser
// cannot reconstruct.
const withheldDividendMemo = " NON-QUALIFIED DIVIDEND NON-RES TAX WITHHELD"

// parseTransactions reads the transaction list record: the statement period
// plus cash flows, trades and income events.
func (p *parser) parseTransactions(n *node, secs securities) error {
	list := newRec(n)
	start := list.Date("DTSTART")
	end := list.Date("DTEND")
	cashFlows := list.Each("INVBANKTRAN")
	stockBuys := list.Each("BUYSTOCK")
	otherBuys := list.Each("BUYOTHER")
	stockSells := list.Each("SELLSTOCK")
	income := list.Each("INCOME")
	if err := list.Err(); err != nil {
		return err
	}

	// The end date names the last covered day.
	if err := p.statement.SetPeriod(brokerage.NewRange(start, end.Add(1))); err != nil {
		return err
	}

	lendingBalance := brokerage.M[int](0, p.currency)
	for _, flow := range cashFlows {
		var err error
		lendingBalance, err = p.parseCashFlow(flow, lendingBalance)
		if err != nil {
			return err
		}
	}
	if !lendingBalance.IsZero() {
		return fmt.Errorf("got a non-zero securities lending balance: %s", lendingBalance)
	}

	for _, buy := range stockBuys {
		r := newRec(buy)
		kind := r.String("BUYTYPE")
		trade := r.Group("INVBUY")
		if err := r.Err(); err != nil {
			return err
		}
		if kind != "BUY" {
			return fmt.Errorf("got an unsupported type of stock purchase: %q", kind)
		}
		if err := p.parseTrade(trade, secs, true); err != nil {
			return err
		}
	}

	// Dividend reinvestments come as purchases of non-stock kinds.
	for _, buy := range otherBuys {
		r := newRec(buy)
		trade := r.Group("INVBUY")
		if err := r.Err(); err != nil {
			return err
		}
		if err := p.parseTrade(trade, secs, true); err != nil {
			return err
		}
	}

	for _, sell := range stockSells {
		r := newRec(sell)
		kind := r.String("SELLTYPE")
		trade := r.Group("INVSELL")
		if err := r.Err(); err != nil {
			return err
		}
		if kind != "SELL" {
			return fmt.Errorf("got an unsupported type of stock sell: %q", kind)
		}
		if err := p.parseTrade(trade, secs, false); err != nil {
			return err
		}
	}

	for _, event := range income {
		if err := p.parseIncome(event, secs); err != nil {
			return err
		}
	}

	return nil
}

// parseCashFlow handles one cash account movement. Securities lending
// transfers only shift the running lending balance; everything else must be
// an external deposit.
func (p *parser) parseCashFlow(n *node, lendingBalance brokerage.Money) (brokerage.Money, error) {
	r := newRec(n)
	txn := newRec(r.Group("STMTTRN"))
	subAccount := r.String("SUBACCTFUND")

	kind := txn.String("TRNTYPE")
	date := txn.Date("DTPOSTED")
	amount := txn.Amount("TRNAMT", p.currency)
	id := txn.String("FITID")
	name := txn.String("NAME")
	if err := txn.Err(); err != nil {
		return lendingBalance, err
	}
	if err := r.Err(); err != nil {
		return lendingBalance, err
	}

	if name == xferFromLending || name == xferToLending {
		return lendingBalance.Add(amount), nil
	}

	if kind != "CREDIT" {
		return lendingBalance, fmt.Errorf("got %q cash flow transaction of an unsupported type: %s", id, kind)
	}
	if err := validateSubAccount("SUBACCTFUND", subAccount); err != nil {
		return lendingBalance, err
	}
	amount, err := brokerage.CheckAmount("transaction amount", amount, brokerage.StrictlyPositive)
	if err != nil {
		return lendingBalance, err
	}

	p.statement.CashFlows = append(p.statement.CashFlows, brokerage.CashFlow{Date: date, Amount: amount})
	return lendingBalance, nil
}

// parseTrade handles one stock purchase or sell record.
func (p *parser) parseTrade(n *node, secs securities, buy bool) error {
	r := newRec(n)
	conclusion, execution, _, err := parseTransactionInfo(r.Group("INVTRAN"))
	if err != nil {
		return err
	}
	secID := r.Group("SECID")
	units := r.Quantity("UNITS")
	price := r.Amount("UNITPRICE", p.currency)
	commission := r.Amount("COMMISSION", p.currency)
	fees := r.Amount("FEES", p.currency)
	total := r.Amount("TOTAL", p.currency)
	subAccountTo := r.String("SUBACCTSEC")
	subAccountFrom := r.String("SUBACCTFUND")
	if err := r.Err(); err != nil {
		return err
	}

	if err := validateSubAccount("SUBACCTFUND", subAccountFrom); err != nil {
		return err
	}
	if err := validateSubAccount("SUBACCTSEC", subAccountTo); err != nil {
		return err
	}

	symbol, err := secs.stock(secID)
	if err != nil {
		return err
	}

	if buy && !units.IsPositive() || !buy && !units.IsNegative() {
		return fmt.Errorf("invalid trade quantity: %s", units)
	}
	quantity := units.Abs()

	if price, err = brokerage.CheckAmount("price", price, brokerage.StrictlyPositive); err != nil {
		return err
	}
	if commission, err = brokerage.CheckAmount("commission", commission, brokerage.PositiveOrZero); err != nil {
		return err
	}
	if fees, err = brokerage.CheckAmount("fees", fees, brokerage.PositiveOrZero); err != nil {
		return err
	}
	commission = commission.Add(fees)

	// The total is signed and includes the commission. The trade volume it
	// implies must match the price times the quantity.
	restriction := brokerage.StrictlyPositive
	if buy {
		restriction = brokerage.StrictlyNegative
	}
	if total, err = brokerage.CheckAmount("trade volume", total, restriction); err != nil {
		return err
	}
	volume := total.Abs()
	if buy {
		volume = volume.Sub(commission)
	} else {
		volume = volume.Add(commission)
	}
	if !volume.Round().Equal(price.Mul(quantity).Round()) {
		return fmt.Errorf("got an unexpected %s trade volume: %s vs %s", symbol, volume, price.Mul(quantity))
	}

	if buy {
		p.statement.StockBuys = append(p.statement.StockBuys,
			brokerage.NewStockBuy(symbol, quantity, price, volume, commission, conclusion, execution))
	} else {
		p.statement.StockSells = append(p.statement.StockSells,
			brokerage.NewStockSell(symbol, quantity, price, volume, commission, conclusion, execution))
	}
	return nil
}

// parseIncome handles one income record, dispatching on the income type and
// the kind of the security it references.
func (p *parser) parseIncome(n *node, secs securities) error {
	r := newRec(n)
	conclusion, execution, memo, err := parseTransactionInfo(r.Group("INVTRAN"))
	if err != nil {
		return err
	}
	secID := parseSecurityID(r.Group("SECID"))
	kind := r.String("INCOMETYPE")
	total := r.Amount("TOTAL", p.currency)
	subAccountTo := r.String("SUBACCTSEC")
	subAccountFrom := r.String("SUBACCTFUND")
	if err := r.Err(); err != nil {
		return err
	}

	if err := validateSubAccount("SUBACCTFUND", subAccountFrom); err != nil {
		return err
	}
	if err := validateSubAccount("SUBACCTSEC", subAccountTo); err != nil {
		return err
	}

	if execution != conclusion {
		return fmt.Errorf("got an unexpected %q income settlement date: %s -> %s", memo, conclusion, execution)
	}

	sec, ok := secs[secID]
	if !ok {
		return fmt.Errorf("unknown security id %q", secID)
	}

	switch {
	case kind == "MISC" && sec.kind == kindInterest:
		amount, err := brokerage.CheckAmount("idle cash interest amount", total, brokerage.NonZero)
		if err != nil {
			return err
		}
		p.statement.IdleCashInterest = append(p.statement.IdleCashInterest,
			brokerage.IdleCashInterest{Date: conclusion, Amount: amount})

	case kind == "DIV" && sec.kind == kindStock:
		amount, err := brokerage.CheckAmount("dividend amount", total, brokerage.StrictlyPositive)
		if err != nil {
			return err
		}
		return p.parseDividend(conclusion, sec.symbol, memo, amount)

	default:
		return fmt.Errorf("got an unsupported income: %q", memo)
	}

	return nil
}

// parseDividend records a dividend paid net of source-country withholding.
// The statement carries no withholding details, so the gross amount is
// deduced from the payer country's tax rate.
func (p *parser) parseDividend(date brokerage.Date, issuer, memo string, income brokerage.Money) error {
	if strings.HasSuffix(memo, withheldDividendMemo) {
		return fmt.Errorf("got an unexpected dividend description: %q", memo)
	}

	if !p.warnedDeducedDividends {
		log.Printf("There are no details for some dividends, deducing them approximately. First occurrence: %s at %s.", issuer, date)
		p.warnedDeducedDividends = true
	}

	country := brokerage.UnitedStates()
	amount := country.DeduceIncome(income)
	paidTax := amount.Sub(income)

	p.statement.Dividends = append(p.statement.Dividends, brokerage.Dividend{
		Date:    date,
		Issuer:  issuer,
		Amount:  amount,
		PaidTax: paidTax,
	})
	return nil
}

// parseTransactionInfo reads the common transaction header.
func parseTransactionInfo(n *node) (conclusion, execution brokerage.Date, memo string, err error) {
	r := newRec(n)
	r.Skip("FITID")
	conclusion = r.Date("DTTRADE")
	execution = r.Date("DTSETTLE")
	memo = r.String("MEMO")
	return conclusion, execution, memo, r.Err()
}
