package brokerage

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		str     string
		want    Date
		wantErr bool
	}{
		{str: "2024-01-15", want: date(2024, 1, 15)},
		{str: "2024-1-5", want: date(2024, 1, 5)},
		{str: " 2024-01-15 ", want: date(2024, 1, 15)},
		{str: "15/01/2024", wantErr: true},
		{str: "", wantErr: true},
	}
	for _, test := range tests {
		got, err := ParseDate(test.str)
		if test.wantErr {
			if err == nil {
				t.Errorf("ParseDate(%q) succeeded, want error", test.str)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDate(%q) error: %v", test.str, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseDate(%q) = %s, want %s", test.str, got, test.want)
		}
	}
}

func TestParseCompact(t *testing.T) {
	tests := []struct {
		str     string
		want    Date
		wantErr bool
	}{
		{str: "20240115", want: date(2024, 1, 15)},
		// Timestamps carry a time and zone suffix to ignore.
		{str: "20240115120000.000[-5:EST]", want: date(2024, 1, 15)},
		{str: "2024011", wantErr: true},
		{str: "2024-01-15", wantErr: true},
	}
	for _, test := range tests {
		got, err := ParseCompact(test.str)
		if test.wantErr {
			if err == nil {
				t.Errorf("ParseCompact(%q) succeeded, want error", test.str)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCompact(%q) error: %v", test.str, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseCompact(%q) = %s, want %s", test.str, got, test.want)
		}
	}
}

func TestDateAdd(t *testing.T) {
	if got := date(2024, 1, 31).Add(1); got != date(2024, 2, 1) {
		t.Errorf("Add(1) = %s, want 2024-02-01", got)
	}
	if got := date(2024, 3, 1).Add(-1); got != date(2024, 2, 29) {
		t.Errorf("Add(-1) = %s, want 2024-02-29", got)
	}
}

func TestDateOrdering(t *testing.T) {
	a, b := date(2024, 1, 15), date(2024, 2, 1)
	if !a.Before(b) || b.Before(a) {
		t.Error("Before() is inconsistent")
	}
	if !b.After(a) {
		t.Error("After() is inconsistent")
	}
	if a.Compare(b) >= 0 || b.Compare(a) <= 0 || a.Compare(a) != 0 {
		t.Error("Compare() is inconsistent")
	}
}

func TestNewDateNormalizes(t *testing.T) {
	if got := NewDate(2024, time.January, 32); got != date(2024, 2, 1) {
		t.Errorf("NewDate(2024, 1, 32) = %s, want 2024-02-01", got)
	}
}
