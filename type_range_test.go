package brokerage

import "testing"

func TestRangeContains(t *testing.T) {
	r := NewRange(date(2024, 1, 1), date(2024, 2, 1))
	tests := []struct {
		date Date
		want bool
	}{
		{date(2023, 12, 31), false},
		{date(2024, 1, 1), true},
		{date(2024, 1, 15), true},
		{date(2024, 1, 31), true},
		// The end bound is excluded: it is the next statement's first day.
		{date(2024, 2, 1), false},
	}
	for _, test := range tests {
		if got := r.Contains(test.date); got != test.want {
			t.Errorf("Contains(%s) = %v, want %v", test.date, got, test.want)
		}
	}
}

func TestRangeLastDay(t *testing.T) {
	r := NewRange(date(2024, 1, 1), date(2024, 2, 1))
	if got := r.LastDay(); got != date(2024, 1, 31) {
		t.Errorf("LastDay() = %s, want 2024-01-31", got)
	}
}

func TestNewRangeSwaps(t *testing.T) {
	r := NewRange(date(2024, 2, 1), date(2024, 1, 1))
	if r.From != date(2024, 1, 1) || r.To != date(2024, 2, 1) {
		t.Errorf("NewRange did not swap: %s", r)
	}
}
