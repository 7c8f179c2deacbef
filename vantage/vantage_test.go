package vantage

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/brokerage"
	"github.com/xuri/excelize/v2"
)

var statementRows = [][]any{
	{"Vantage Securities Statement for account VG-123456"},
	{},
	{"Statement Period"},
	{"Start", "2021-01-01"},
	{"End", "2021-12-31"},
	{},
	{"Opening Net Assets"},
	{"Total", "0.00", "USD"},
	{},
	{"Deposits & Withdrawals"},
	{"Date", "Description", "Amount", "Currency"},
	{"2021-01-04", "Wire transfer", "5000", "USD"},
	{"2021-06-01", "Withdrawal", "-500", "USD"},
	{},
	{"Trades"},
	{"Date", "Settle Date", "Symbol", "Side", "Quantity", "Price", "Commission", "Currency"},
	{"2021-02-01", "2021-02-03", "AAPL", "Buy", "10", "100", "1", "USD"},
	{"2021-08-02", "2021-08-04", "AAPL", "Sell", "4", "150", "1", "USD"},
	{},
	{"Dividends"},
	{"Date", "Symbol", "Description", "Amount", "Withholding Tax", "Currency"},
	{"2021-05-14", "AAPL", "AAPL cash dividend", "20", "3", "USD"},
	{},
	{"Cash Balances"},
	{"Currency", "Amount"},
	{"USD", "4116"},
	{},
	{"Open Positions"},
	{"Symbol", "Quantity"},
	{"AAPL", "6"},
	{},
	{"Instruments"},
	{"Symbol", "Name"},
	{"AAPL", "Apple Inc."},
}

func writeStatement(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		t.Fatal(err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "statement.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func usd(value float64) brokerage.Money { return brokerage.M(value, "USD") }

func TestIsStatement(t *testing.T) {
	r := NewReader(brokerage.BrokerInfo{Name: "Vantage"})
	if !r.IsStatement("statement.xlsx") {
		t.Error("IsStatement(statement.xlsx) = false, want true")
	}
	if r.IsStatement("statement.csv") {
		t.Error("IsStatement(statement.csv) = true, want false")
	}
}

func TestRead(t *testing.T) {
	r := NewReader(brokerage.BrokerInfo{Name: "Vantage"})
	statement, err := r.Read(writeStatement(t, statementRows))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}

	wantPeriod := brokerage.NewRange(brokerage.NewDate(2021, 1, 1), brokerage.NewDate(2022, 1, 1))
	if statement.Period != wantPeriod {
		t.Errorf("period = %s, want %s", statement.Period, wantPeriod)
	}
	if starting, err := statement.StartingAssets(); err != nil || starting {
		t.Errorf("starting assets = %v, %v, want false", starting, err)
	}

	if got := len(statement.CashFlows); got != 2 {
		t.Fatalf("got %d cash flows, want 2", got)
	}
	if !statement.CashFlows[0].Amount.Equal(usd(5000)) || !statement.CashFlows[1].Amount.Equal(usd(-500)) {
		t.Errorf("unexpected cash flows: %v", statement.CashFlows)
	}

	if got := len(statement.StockBuys); got != 1 {
		t.Fatalf("got %d buys, want 1", got)
	}
	buy := statement.StockBuys[0]
	if buy.Symbol != "AAPL" || !buy.Quantity.Equal(brokerage.Q(10)) ||
		!buy.Price.Equal(usd(100)) || !buy.Volume.Equal(usd(1000)) || !buy.Commission.Equal(usd(1)) {
		t.Errorf("unexpected buy: %+v", buy)
	}
	if buy.ConclusionDate != brokerage.NewDate(2021, 2, 1) || buy.ExecutionDate != brokerage.NewDate(2021, 2, 3) {
		t.Errorf("unexpected buy dates: %s -> %s", buy.ConclusionDate, buy.ExecutionDate)
	}

	if got := len(statement.StockSells); got != 1 {
		t.Fatalf("got %d sells, want 1", got)
	}

	if got := len(statement.Dividends); got != 1 {
		t.Fatalf("got %d dividends, want 1", got)
	}
	dividend := statement.Dividends[0]
	if dividend.Issuer != "AAPL" || !dividend.Amount.Equal(usd(20)) || !dividend.PaidTax.Equal(usd(3)) {
		t.Errorf("unexpected dividend: %+v", dividend)
	}

	if got := statement.CashAssets.Balance("USD"); !got.Equal(usd(4116)) {
		t.Errorf("cash balance = %s, want %s", got, usd(4116))
	}
	if got := statement.OpenPositions["AAPL"]; !got.Equal(brokerage.Q(6)) {
		t.Errorf("AAPL open position = %s, want 6", got)
	}
	if got := statement.InstrumentNames["AAPL"]; got != "Apple Inc." {
		t.Errorf("AAPL name = %q, want %q", got, "Apple Inc.")
	}
}

func TestReadErrors(t *testing.T) {
	mutate := func(from, to string) [][]any {
		rows := make([][]any, len(statementRows))
		for i, row := range statementRows {
			cells := make([]any, len(row))
			for j, cell := range row {
				if s, ok := cell.(string); ok && s == from {
					cells[j] = to
				} else {
					cells[j] = cell
				}
			}
			rows[i] = cells
		}
		return rows
	}

	tests := []struct {
		name    string
		rows    [][]any
		wantErr string
	}{
		{
			name:    "missing required section",
			rows:    mutate("Cash Balances", "Closing Balances"),
			wantErr: `missing "Cash Balances" section`,
		},
		{
			name:    "unsupported trade side",
			rows:    mutate("Sell", "Short"),
			wantErr: "unsupported AAPL trade side",
		},
		{
			name:    "wrong trade header",
			rows:    mutate("Settle Date", "Settlement"),
			wantErr: "unexpected header column",
		},
		{
			name:    "negative price",
			rows:    mutate("150", "-150"),
			wantErr: "price",
		},
	}

	r := NewReader(brokerage.BrokerInfo{Name: "Vantage"})
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := r.Read(writeStatement(t, test.rows))
			if err == nil {
				t.Fatal("Read() succeeded, want error")
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("Read() error %q, want it to contain %q", err, test.wantErr)
			}
		})
	}
}

func TestReadStartingAssets(t *testing.T) {
	rows := make([][]any, len(statementRows))
	copy(rows, statementRows)
	rows[7] = []any{"Total", "1250.00", "USD"}

	r := NewReader(brokerage.BrokerInfo{Name: "Vantage"})
	statement, err := r.Read(writeStatement(t, rows))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if starting, err := statement.StartingAssets(); err != nil || !starting {
		t.Errorf("starting assets = %v, %v, want true", starting, err)
	}
}
