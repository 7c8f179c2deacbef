package brokerage

import (
	"strings"
	"testing"
)

func TestTaxChangesResult(t *testing.T) {
	tests := []struct {
		name    string
		changes []Money
		want    Money
		wantErr string
	}{
		{
			name:    "single withholding",
			changes: []Money{USD(15)},
			want:    USD(15),
		},
		{
			name:    "withholding with refund",
			changes: []Money{USD(25), USD(-10)},
			want:    USD(15),
		},
		{
			name:    "fully refunded",
			changes: []Money{USD(25), USD(-25)},
			want:    USD(0),
		},
		{
			name:    "no changes",
			wantErr: "no tax changes",
		},
		{
			name:    "mixed currencies",
			changes: []Money{USD(25), EUR(-10)},
			wantErr: "mixed tax currencies",
		},
		{
			name:    "refund exceeds withholding",
			changes: []Money{USD(10), USD(-25)},
			wantErr: "negative net tax",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var changes TaxChanges
			for _, change := range test.changes {
				changes.Add(change)
			}
			got, err := changes.Result()
			if test.wantErr != "" {
				if err == nil {
					t.Fatal("Result() succeeded, want error")
				}
				if !strings.Contains(err.Error(), test.wantErr) {
					t.Errorf("Result() error %q, want it to contain %q", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Result() error: %v", err)
			}
			if !got.Equal(test.want) {
				t.Errorf("Result() = %s, want %s", got, test.want)
			}
		})
	}
}

func TestTaxChangesMerge(t *testing.T) {
	var a, b TaxChanges
	a.Add(USD(25))
	b.Add(USD(-10))
	a.Merge(b)

	got, err := a.Result()
	if err != nil {
		t.Fatalf("Result() error: %v", err)
	}
	if !got.Equal(USD(15)) {
		t.Errorf("Result() = %s, want %s", got, USD(15))
	}
}

func TestTaxIDString(t *testing.T) {
	id := TaxID{Date: date(2024, 5, 14), Description: "VZ Cash Dividend - US Tax"}
	if got, want := id.String(), "2024-05-14: VZ Cash Dividend - US Tax"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
