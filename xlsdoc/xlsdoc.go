// Package xlsdoc reads sectioned spreadsheet documents: sheets laid out as
// titled blocks of rows separated by blank rows, the way brokers export
// account statements to xlsx.
//
// A section starts at a row whose first cell carries its title and runs
// until the next blank row or the next section title. Rows outside of any
// declared section (banners, footers) are ignored.
package xlsdoc

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Section declares one titled block and how to consume its rows.
type Section struct {
	// Title of the block, matched against the first cell of each row.
	Title string
	// Prefix matches rows that merely start with Title.
	Prefix bool
	// Required fails the read when the block is missing from the sheet.
	Required bool
	// Parse consumes the block's rows, title row excluded.
	Parse func(rows [][]string) error
}

func (s *Section) matches(cell string) bool {
	if s.Prefix {
		return strings.HasPrefix(cell, s.Title)
	}
	return cell == s.Title
}

// Read opens the workbook and feeds each declared section its rows.
func Read(path, sheet string, sections []Section) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("unable to read sheet %q: %w", sheet, err)
	}
	return parse(rows, sections)
}

func parse(rows [][]string, sections []Section) error {
	seen := make([]bool, len(sections))

	for at := 0; at < len(rows); {
		section := match(rows[at], sections)
		if section < 0 {
			at++
			continue
		}
		if seen[section] {
			return fmt.Errorf("duplicate %q section", sections[section].Title)
		}
		seen[section] = true

		end := at + 1
		for end < len(rows) && !blank(rows[end]) && match(rows[end], sections) < 0 {
			end++
		}
		if parse := sections[section].Parse; parse != nil {
			if err := parse(rows[at+1 : end]); err != nil {
				return fmt.Errorf("%q section: %w", sections[section].Title, err)
			}
		}
		at = end
	}

	for i, section := range sections {
		if section.Required && !seen[i] {
			return fmt.Errorf("missing %q section", section.Title)
		}
	}
	return nil
}

func match(row []string, sections []Section) int {
	if blank(row) {
		return -1
	}
	for i := range sections {
		if sections[i].matches(row[0]) {
			return i
		}
	}
	return -1
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Cell returns the named column of a row, tolerating the short rows the
// reader produces when trailing cells are empty.
func Cell(row []string, index int) string {
	if index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

// Header checks that a block's first row declares the expected column
// headers and returns the remaining rows.
func Header(rows [][]string, columns ...string) ([][]string, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("missing %q header row", strings.Join(columns, ", "))
	}
	for i, column := range columns {
		if got := Cell(rows[0], i); got != column {
			return nil, fmt.Errorf("unexpected header column %q, want %q", got, column)
		}
	}
	return rows[1:], nil
}
