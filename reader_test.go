package brokerage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// stubReader serves canned partial statements keyed by file name.
type stubReader struct {
	statements map[string]*PartialStatement
}

func (r *stubReader) IsStatement(fileName string) bool {
	return strings.HasSuffix(fileName, ".stmt")
}

func (r *stubReader) Read(path string) (*PartialStatement, error) {
	return r.statements[filepath.Base(path)], nil
}

func writeFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestReadStatementDir(t *testing.T) {
	// File names sort in period order; the non-statement file is skipped.
	dir := writeFiles(t, "2024-02.stmt", "2024-01.stmt", "notes.txt")

	reader := &stubReader{statements: map[string]*PartialStatement{
		"2024-01.stmt": newPartial(date(2024, 1, 1), date(2024, 2, 1)),
		"2024-02.stmt": newPartial(date(2024, 2, 1), date(2024, 3, 1)),
	}}

	statement, err := ReadStatementDir(reader, dir)
	if err != nil {
		t.Fatalf("ReadStatementDir() error: %v", err)
	}
	if want := NewRange(date(2024, 1, 1), date(2024, 3, 1)); statement.Period != want {
		t.Errorf("period = %s, want %s", statement.Period, want)
	}
}

func TestReadStatementDirEmpty(t *testing.T) {
	dir := writeFiles(t, "notes.txt")
	_, err := ReadStatementDir(&stubReader{}, dir)
	if err == nil {
		t.Fatal("ReadStatementDir() succeeded, want error")
	}
	if !strings.Contains(err.Error(), "doesn't contain any broker statement") {
		t.Errorf("ReadStatementDir() error %q, want no-statement error", err)
	}
}
