package firstrade

import (
	"fmt"
	"os"
	"strings"

	"github.com/etnz/brokerage"
)

// Reader parses Firstrade account history exports.
type Reader struct {
	broker brokerage.BrokerInfo
}

// NewReader creates a statement reader for the broker.
func NewReader(broker brokerage.BrokerInfo) *Reader {
	return &Reader{broker: broker}
}

// IsStatement recognizes statement files by their extension.
func (r *Reader) IsStatement(fileName string) bool {
	return strings.HasSuffix(strings.ToLower(fileName), ".ofx")
}

// Read parses one statement file.
func (r *Reader) Read(path string) (*brokerage.PartialStatement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := parseDocument(f)
	if err != nil {
		return nil, err
	}
	if doc.name != "OFX" {
		return nil, fmt.Errorf("unexpected top-level record <%s>", doc.name)
	}

	p := &parser{statement: brokerage.NewPartialStatement(r.broker)}
	if err := p.parse(doc); err != nil {
		return nil, err
	}
	return p.statement, nil
}

// parser accumulates the statement while walking the document tree.
type parser struct {
	statement *brokerage.PartialStatement
	currency  string

	warnedDeducedDividends bool
}

func (p *parser) parse(doc *node) error {
	root := newRec(doc)
	root.Skip("SIGNONMSGSRSV1")
	stmtMsg := root.Group("INVSTMTMSGSRSV1")
	secMsg := root.Group("SECLISTMSGSRSV1")
	if err := root.Err(); err != nil {
		return err
	}

	secList := newRec(secMsg)
	secs, err := parseSecurities(secList.Group("SECLIST"))
	if err != nil {
		return err
	}
	if err := secList.Err(); err != nil {
		return err
	}

	msg := newRec(stmtMsg)
	response := newRec(msg.Group("INVSTMTTRNRS"))
	response.Skip("TRNUID")
	response.Skip("STATUS")
	result := newRec(response.Group("INVSTMTRS"))
	result.Skip("DTASOF")
	result.Skip("INVACCTFROM")
	p.currency = result.String("CURDEF")
	transactions := result.Group("INVTRANLIST")
	positions := result.Group("INVPOSLIST")
	balance := result.Group("INVBAL")
	for _, r := range []*rec{msg, response, result} {
		if err := r.Err(); err != nil {
			return err
		}
	}

	if err := p.parseTransactions(transactions, secs); err != nil {
		return err
	}
	if err := p.parsePositions(positions, secs); err != nil {
		return err
	}
	if err := p.parseBalance(balance); err != nil {
		return err
	}

	for symbol, name := range secs.names() {
		p.statement.InstrumentNames[symbol] = name
	}

	// History exports cover the account from its opening, so the first
	// covered day never carries assets from an earlier period.
	if err := p.statement.SetStartingAssets(false); err != nil {
		return err
	}
	return p.statement.Validate()
}

// parsePositions reads the open stock positions held at the end of the
// period.
func (p *parser) parsePositions(n *node, secs securities) error {
	list := newRec(n)
	stocks := list.Each("POSSTOCK")
	if err := list.Err(); err != nil {
		return err
	}

	for _, stock := range stocks {
		r := newRec(stock)
		pos := newRec(r.Group("INVPOS"))
		if err := r.Err(); err != nil {
			return err
		}

		secID := pos.Group("SECID")
		heldIn := pos.String("HELDINACCT")
		units := pos.Quantity("UNITS")
		pos.Skip("UNITPRICE")
		pos.Skip("MKTVAL")
		pos.Skip("DTPRICEASOF")
		if err := pos.Err(); err != nil {
			return err
		}

		if err := validateSubAccount("HELDINACCT", heldIn); err != nil {
			return err
		}
		symbol, err := secs.stock(secID)
		if err != nil {
			return err
		}
		if !units.IsPositive() {
			return fmt.Errorf("invalid %s open position: %s", symbol, units)
		}
		p.statement.OpenPositions[symbol] = units
	}
	return nil
}

// parseBalance reads the cash balance held at the end of the period.
func (p *parser) parseBalance(n *node) error {
	r := newRec(n)
	cash := r.Amount("AVAILCASH", p.currency)
	r.Skip("MARGINBALANCE")
	r.Skip("SHORTBALANCE")
	if err := r.Err(); err != nil {
		return err
	}
	p.statement.CashAssets.Deposit(cash)
	return nil
}
