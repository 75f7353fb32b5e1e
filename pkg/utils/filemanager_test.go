package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/idrall/ledger-ingest/internal/ledger"
)

func newTestFileManager(t *testing.T) *FileManager {
	t.Helper()
	base := t.TempDir()
	fm := NewFileManager(
		filepath.Join(base, "input"),
		filepath.Join(base, "output"),
		filepath.Join(base, "archive"),
	)
	if err := fm.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	return fm
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverWorkbooks(t *testing.T) {
	fm := newTestFileManager(t)

	touch(t, filepath.Join(fm.InputDir, "ventas.xlsx"))
	touch(t, filepath.Join(fm.InputDir, "acumulado.xlsx"))
	touch(t, filepath.Join(fm.InputDir, "notas.txt"))
	// Office lock file: skipped.
	touch(t, filepath.Join(fm.InputDir, "~$ventas.xlsx"))

	files, err := fm.DiscoverWorkbooks()
	if err != nil {
		t.Fatalf("DiscoverWorkbooks failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("found %d workbooks, want 2: %v", len(files), files)
	}
	for _, f := range files {
		if strings.HasPrefix(filepath.Base(f), "~$") {
			t.Errorf("lock file was not skipped: %s", f)
		}
	}
}

func TestArchiveWorkbook(t *testing.T) {
	fm := newTestFileManager(t)
	src := filepath.Join(fm.InputDir, "ventas.xlsx")
	touch(t, src)

	archived, err := fm.ArchiveWorkbook(src)
	if err != nil {
		t.Fatalf("ArchiveWorkbook failed: %v", err)
	}

	if FileExists(src) {
		t.Error("original workbook still present after archival")
	}
	if !FileExists(archived) {
		t.Errorf("archived workbook missing: %s", archived)
	}
	if filepath.Dir(archived) != fm.InputArchiveDir {
		t.Errorf("archived to %s, want %s", filepath.Dir(archived), fm.InputArchiveDir)
	}
}

func TestArchiveWorkbookDisabled(t *testing.T) {
	fm := newTestFileManager(t)
	fm.ArchiveOnSuccess = false
	src := filepath.Join(fm.InputDir, "ventas.xlsx")
	touch(t, src)

	archived, err := fm.ArchiveWorkbook(src)
	if err != nil {
		t.Fatalf("ArchiveWorkbook failed: %v", err)
	}
	if archived != src || !FileExists(src) {
		t.Error("disabled archival must leave the workbook in place")
	}
}

func TestWriteResultJSON(t *testing.T) {
	fm := newTestFileManager(t)

	result := &ledger.ParseResult{
		Dialect: ledger.DialectSingleLedger,
		Errors:  []ledger.ParseError{},
	}

	path, err := WriteResultJSON(result, "/somewhere/ventas.xlsx", fm.OutputDir, "run-1")
	if err != nil {
		t.Fatalf("WriteResultJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"SINGLE_LEDGER"`) {
		t.Error("result JSON does not carry the dialect")
	}
	if base := filepath.Base(path); base != "ventas_run-1.json" {
		t.Errorf("result file name = %s, want ventas_run-1.json", base)
	}
}

func TestWriteErrorLog(t *testing.T) {
	fm := newTestFileManager(t)

	// No entries, no file.
	path, err := WriteErrorLog(nil, fm.OutputDir, "run-1")
	if err != nil {
		t.Fatalf("WriteErrorLog failed: %v", err)
	}
	if path != "" {
		t.Errorf("empty error log created at %s", path)
	}

	entries := []ErrorLogEntry{
		{FileName: "ventas.xlsx", Error: ledger.ParseError{Row: 4, Message: "missing client name", Raw: []string{"1001"}}},
	}
	path, err = WriteErrorLog(entries, fm.OutputDir, "run-1")
	if err != nil {
		t.Fatalf("WriteErrorLog failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	for _, want := range []string{"ventas.xlsx", "missing client name", "Row:     4", "1001"} {
		if !strings.Contains(content, want) {
			t.Errorf("error log missing %q", want)
		}
	}
}

func TestWriteSummaryLog(t *testing.T) {
	fm := newTestFileManager(t)

	summary := RunSummary{
		RunID:             "run-1",
		StartTime:         time.Now().Add(-time.Minute),
		EndTime:           time.Now(),
		TotalFiles:        2,
		SuccessfulFiles:   1,
		FailedFiles:       1,
		TotalTransactions: 10,
		ProcessedFiles: []ProcessedFileInfo{
			{InputFile: "ventas.xlsx", ResultFile: "ventas_run-1.json", Dialect: ledger.DialectSingleLedger, Transactions: 10},
		},
		FailedFilesList: []FailedFileInfo{
			{InputFile: "roto.xlsx", ErrorMessage: "workbook has no usable sheet"},
		},
	}

	path, err := WriteSummaryLog(summary, fm.OutputDir)
	if err != nil {
		t.Fatalf("WriteSummaryLog failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	for _, want := range []string{"run-1", "ventas.xlsx", "roto.xlsx", "workbook has no usable sheet"} {
		if !strings.Contains(content, want) {
			t.Errorf("summary log missing %q", want)
		}
	}
}

func TestNewRunIDUnique(t *testing.T) {
	if NewRunID() == NewRunID() {
		t.Error("NewRunID returned the same id twice")
	}
}
