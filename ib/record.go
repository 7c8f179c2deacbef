package ib

import (
	"fmt"
	"strings"

	"github.com/etnz/brokerage"
)

// recordSpec is the column schema declared by a section's header row: the
// section name and the positional field names that follow the two leading
// (section, row kind) columns.
type recordSpec struct {
	name   string
	fields map[string]int // field name -> absolute column index
	offset int
}

func newRecordSpec(name string, fieldNames []string, offset int) *recordSpec {
	fields := make(map[string]int, len(fieldNames))
	for i, field := range fieldNames {
		fields[field] = offset + i
	}
	return &recordSpec{name: name, fields: fields, offset: offset}
}

// record is one data row interpreted through its section's schema.
type record struct {
	spec *recordSpec
	row  []string
}

// get resolves a value by its header-declared column name.
func (r *record) get(field string) (string, error) {
	index, ok := r.spec.fields[field]
	if !ok {
		return "", fmt.Errorf("%q section has no %q field", r.spec.name, field)
	}
	if index >= len(r.row) {
		return "", fmt.Errorf("record is too short to hold the %q field", field)
	}
	return r.row[index], nil
}

const (
	dateFormat     = "2006-01-02"
	dateTimeFormat = "2006-01-02, 15:04:05"
)

func (r *record) parseDate(field string) (brokerage.Date, error) {
	value, err := r.get(field)
	if err != nil {
		return brokerage.Date{}, err
	}
	return brokerage.ParseDate(value)
}

// parseDateTime keeps the day part of a "2024-01-15, 09:30:00" cell.
func (r *record) parseDateTime(field string) (brokerage.Date, error) {
	value, err := r.get(field)
	if err != nil {
		return brokerage.Date{}, err
	}
	day, _, _ := strings.Cut(value, ",")
	return brokerage.ParseDate(day)
}

func (r *record) parseAmount(field, currency string) (brokerage.Money, error) {
	value, err := r.get(field)
	if err != nil {
		return brokerage.Money{}, err
	}
	return brokerage.ParseMoney(cleanNumber(value), currency)
}

func (r *record) parseQuantity(field string) (brokerage.Quantity, error) {
	value, err := r.get(field)
	if err != nil {
		return brokerage.Quantity{}, err
	}
	return brokerage.ParseQuantity(cleanNumber(value))
}

// cleanNumber strips the thousands separators ("-2,290" -> "-2290").
func cleanNumber(s string) string {
	return strings.ReplaceAll(s, ",", "")
}

// formatRecord renders a raw row for error messages.
func formatRecord(row []string) string {
	return strings.Join(row, ",")
}
