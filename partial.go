package brokerage

import "fmt"

// PartialStatement is one statement file's worth of normalized events:
// a declared period and per-kind event lists, not yet validated against the
// account's other files. Each parser invocation produces exactly one
// PartialStatement, which is then consumed by the merge.
type PartialStatement struct {
	Broker BrokerInfo
	Period Range

	CashFlows  []CashFlow
	CashAssets CashAccount

	StockBuys  []StockBuy
	StockSells []StockSell

	Dividends         []Dividend
	DeferredDividends []DeferredDividend
	IdleCashInterest  []IdleCashInterest

	TaxChanges map[TaxID]TaxChanges

	OpenPositions   map[string]Quantity
	InstrumentNames map[string]string

	periodSet         bool
	startingAssets    bool
	startingAssetsSet bool
}

// NewPartialStatement creates an empty partial statement for the broker.
func NewPartialStatement(broker BrokerInfo) *PartialStatement {
	return &PartialStatement{
		Broker:          broker,
		CashAssets:      NewCashAccount(),
		TaxChanges:      make(map[TaxID]TaxChanges),
		OpenPositions:   make(map[string]Quantity),
		InstrumentNames: make(map[string]string),
	}
}

// SetPeriod declares the statement period. A statement declares its period
// exactly once; a second declaration reveals a malformed export.
func (s *PartialStatement) SetPeriod(period Range) error {
	if s.periodSet {
		return fmt.Errorf("duplicate statement period declaration")
	}
	s.Period, s.periodSet = period, true
	return nil
}

// SetStartingAssets declares whether the statement starts with assets on the
// account. Like the period, it is declared exactly once.
func (s *PartialStatement) SetStartingAssets(exists bool) error {
	if s.startingAssetsSet {
		return fmt.Errorf("duplicate starting assets declaration")
	}
	s.startingAssets, s.startingAssetsSet = exists, true
	return nil
}

// StartingAssets reports whether the statement declared starting assets.
func (s *PartialStatement) StartingAssets() (bool, error) {
	if !s.startingAssetsSet {
		return false, fmt.Errorf("statement does not declare its starting assets")
	}
	return s.startingAssets, nil
}

// AddTaxChange accumulates one signed withholding adjustment under its
// TaxID. A withholding is positive, a refund negative.
func (s *PartialStatement) AddTaxChange(id TaxID, amount Money) {
	changes := s.TaxChanges[id]
	changes.Add(amount)
	s.TaxChanges[id] = changes
}

// Validate checks that the parser filled the mandatory declarations.
func (s *PartialStatement) Validate() error {
	if !s.periodSet {
		return fmt.Errorf("statement period is missing")
	}
	if !s.startingAssetsSet {
		return fmt.Errorf("starting assets declaration is missing")
	}
	return nil
}
