package brokerage

import "fmt"

// Range represents a statement period as a half-open date interval [From, To).
//
// Broker statements declare the day after their last covered day as the end
// of the period, which makes consecutive statements share an exact boundary
// date: a January statement is [Jan 1, Feb 1) and the February statement
// that continues it is [Feb 1, Mar 1).
type Range struct{ From, To Date }

// NewRange creates a new date range. If 'from' is after 'to', they are swapped.
func NewRange(from, to Date) Range {
	if from.After(to) {
		from, to = to, from
	}
	return Range{From: from, To: to}
}

// Contains returns true if date is included in the half-open range.
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && date.Before(r.To) }

// LastDay returns the last day covered by the range.
func (r Range) LastDay() Date { return r.To.Add(-1) }

// IsZero returns true if the range is the zero value.
func (r Range) IsZero() bool { return r.From.IsZero() && r.To.IsZero() }

// String formats the range as "2024-01-01 - 2024-02-01".
func (r Range) String() string { return fmt.Sprintf("%s - %s", r.From, r.To) }
