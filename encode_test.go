package brokerage

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestEncodeStatement(t *testing.T) {
	p := newPartial(date(2024, 1, 1), date(2024, 2, 1))
	p.CashFlows = append(p.CashFlows, CashFlow{Date: date(2024, 1, 2), Amount: USD(1000)})
	p.StockBuys = append(p.StockBuys,
		NewStockBuy("AAPL", Q(10), USD(100), USD(1000), USD(1), date(2024, 1, 10), date(2024, 1, 12)))
	p.StockSells = append(p.StockSells,
		NewStockSell("AAPL", Q(4), USD(150), USD(600), USD(1), date(2024, 1, 20), date(2024, 1, 22)))
	p.OpenPositions["AAPL"] = Q(6)
	p.InstrumentNames["AAPL"] = "APPLE INC"
	p.CashAssets.Deposit(USD(580))
	statement := joinOne(t, p)

	var buf bytes.Buffer
	if err := EncodeStatement(&buf, statement); err != nil {
		t.Fatalf("EncodeStatement() error: %v", err)
	}

	var decoded struct {
		Broker string `json:"broker"`
		From   string `json:"from"`
		To     string `json:"to"`
		Buys   []struct {
			Symbol string `json:"symbol"`
			Unsold string `json:"unsold"`
		} `json:"buys"`
		Sells []struct {
			Sources []struct {
				Quantity string `json:"quantity"`
			} `json:"sources"`
		} `json:"sells"`
		OpenPositions map[string]string `json:"openPositions"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("exported statement is not valid JSON: %v\n%s", err, buf.String())
	}

	if decoded.Broker != "Test Broker" {
		t.Errorf("broker = %q, want %q", decoded.Broker, "Test Broker")
	}
	if decoded.From != "2024-01-01" || decoded.To != "2024-02-01" {
		t.Errorf("period = %s..%s, want 2024-01-01..2024-02-01", decoded.From, decoded.To)
	}
	if len(decoded.Buys) != 1 || decoded.Buys[0].Unsold != "6" {
		t.Errorf("unexpected buys: %+v", decoded.Buys)
	}
	if len(decoded.Sells) != 1 || len(decoded.Sells[0].Sources) != 1 || decoded.Sells[0].Sources[0].Quantity != "4" {
		t.Errorf("unexpected sells: %+v", decoded.Sells)
	}
	if decoded.OpenPositions["AAPL"] != "6" {
		t.Errorf("open positions = %v, want AAPL: 6", decoded.OpenPositions)
	}
}
