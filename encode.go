package brokerage

import (
	"encoding/json"
	"fmt"
	"io"
)

// This file contains code to export a reconciled statement as a single
// human-readable JSON document, suitable for archiving next to the source
// statement files or for feeding downstream tools.

type jsource struct {
	Quantity   Quantity `json:"quantity"`
	Price      Money    `json:"price"`
	Commission Money    `json:"commission"`
	Concluded  Date     `json:"concluded"`
	Executed   Date     `json:"executed"`
}

type jtrade struct {
	Symbol     string   `json:"symbol"`
	Quantity   Quantity `json:"quantity"`
	Price      Money    `json:"price"`
	Volume     Money    `json:"volume"`
	Commission Money    `json:"commission"`
	Concluded  Date     `json:"concluded"`
	Executed   Date     `json:"executed"`

	Unsold  *Quantity `json:"unsold,omitempty"`
	Sources []jsource `json:"sources,omitempty"`
}

type jdividend struct {
	Date    Date   `json:"date"`
	Issuer  string `json:"issuer"`
	Amount  Money  `json:"amount"`
	PaidTax Money  `json:"paidTax"`
}

// EncodeStatement writes the reconciled statement as one indented JSON
// object, fields in reading order: the period first, then the event lists,
// then the closing snapshot.
func EncodeStatement(w io.Writer, s *Statement) error {
	obj := &jsonObjectWriter{}
	obj.Append("broker", s.Broker.Name)
	obj.Append("from", s.Period.From)
	obj.Append("to", s.Period.To)
	obj.Optional("cashFlows", s.CashFlows)

	buys := make([]jtrade, 0, len(s.StockBuys))
	for i := range s.StockBuys {
		buy := &s.StockBuys[i]
		t := jtrade{
			Symbol: buy.Symbol, Quantity: buy.Quantity, Price: buy.Price,
			Volume: buy.Volume, Commission: buy.Commission,
			Concluded: buy.ConclusionDate, Executed: buy.ExecutionDate,
		}
		if unsold := buy.Unsold(); !unsold.IsZero() {
			t.Unsold = &unsold
		}
		buys = append(buys, t)
	}
	obj.Optional("buys", buys)

	sells := make([]jtrade, 0, len(s.StockSells))
	for i := range s.StockSells {
		sell := &s.StockSells[i]
		t := jtrade{
			Symbol: sell.Symbol, Quantity: sell.Quantity, Price: sell.Price,
			Volume: sell.Volume, Commission: sell.Commission,
			Concluded: sell.ConclusionDate, Executed: sell.ExecutionDate,
		}
		for _, source := range sell.Sources {
			t.Sources = append(t.Sources, jsource{
				Quantity: source.Quantity, Price: source.Price, Commission: source.Commission,
				Concluded: source.ConclusionDate, Executed: source.ExecutionDate,
			})
		}
		sells = append(sells, t)
	}
	obj.Optional("sells", sells)

	dividends := make([]jdividend, 0, len(s.Dividends))
	for _, dividend := range s.Dividends {
		dividends = append(dividends, jdividend{
			Date: dividend.Date, Issuer: dividend.Issuer,
			Amount: dividend.Amount, PaidTax: dividend.PaidTax,
		})
	}
	obj.Optional("dividends", dividends)
	obj.Optional("idleCashInterest", s.IdleCashInterest)
	obj.Optional("openPositions", s.OpenPositions)
	obj.Optional("instruments", s.instrumentNames)

	cash := make(map[string]Money, len(s.CashAssets))
	for _, currency := range s.CashAssets.Currencies() {
		cash[currency] = s.CashAssets.Balance(currency)
	}
	obj.Append("cash", cash)

	raw, err := obj.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode statement: %w", err)
	}
	var indented json.RawMessage = raw
	out, err := json.MarshalIndent(indented, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode statement: %w", err)
	}
	if _, err := w.Write(append(out, '\n')); err != nil {
		return err
	}
	return nil
}
