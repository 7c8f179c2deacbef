package brokerage

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// StatementReader reads one broker export format. Each broker subpackage
// provides an implementation.
type StatementReader interface {
	// IsStatement reports whether the file name looks like a statement of
	// this format.
	IsStatement(fileName string) bool
	// Read parses one statement file into a partial statement.
	Read(path string) (*PartialStatement, error)
}

// ReadStatementDir reads every statement file found in an account directory
// and joins them into one validated Statement.
func ReadStatementDir(reader StatementReader, dir string) (*Statement, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error while reading %q: %w", dir, err)
	}

	var fileNames []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if reader.IsStatement(entry.Name()) {
			fileNames = append(fileNames, entry.Name())
		}
	}
	if len(fileNames) == 0 {
		return nil, fmt.Errorf("%q doesn't contain any broker statement", dir)
	}
	slices.Sort(fileNames)

	partials := make([]*PartialStatement, 0, len(fileNames))
	for _, fileName := range fileNames {
		path := filepath.Join(dir, fileName)
		partial, err := reader.Read(path)
		if err != nil {
			return nil, fmt.Errorf("error while reading broker statement %q: %w", path, err)
		}
		partials = append(partials, partial)
	}

	return Join(partials)
}
