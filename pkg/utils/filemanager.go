// =============================================================================
// Ledger Ingest - File Manager Utility
// =============================================================================
//
// This module provides file management for the ingestion CLI, including:
//   - Workbook discovery and scanning
//   - Workbook archival (moving processed files)
//   - Normalized result, error log, and run summary generation
//   - Directory management
//
// ARCHIVAL STRATEGY:
//   - Input workbooks are moved to input_archive after successful ingestion
//   - Failed workbooks remain in their original location
//   - Reports are created in the output directory, keyed by run id so
//     repeated runs over the same inputs never clobber each other
//
// =============================================================================

package utils

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/idrall/ledger-ingest/internal/ledger"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the ingestion CLI.
type FileManager struct {
	// InputDir is the directory where workbooks are placed.
	InputDir string

	// OutputDir is the directory where reports are placed.
	OutputDir string

	// InputArchiveDir is the directory for archived workbooks.
	InputArchiveDir string

	// ArchiveOnSuccess determines whether workbooks are archived after
	// successful ingestion.
	ArchiveOnSuccess bool
}

// NewFileManager creates a FileManager over the configured directories.
func NewFileManager(inputDir, outputDir, inputArchiveDir string) *FileManager {
	return &FileManager{
		InputDir:         inputDir,
		OutputDir:        outputDir,
		InputArchiveDir:  inputArchiveDir,
		ArchiveOnSuccess: true,
	}
}

// EnsureDirectories creates all required directories if they don't exist.
func (fm *FileManager) EnsureDirectories() error {
	dirs := []string{fm.InputDir, fm.OutputDir, fm.InputArchiveDir}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// =============================================================================
// WORKBOOK DISCOVERY
// =============================================================================

// DiscoverWorkbooks scans the input directory for .xlsx workbooks.
// Office lock files ("~$...") are skipped; a workbook open in Excel on a
// shared drive leaves one behind and it is never valid input.
func (fm *FileManager) DiscoverWorkbooks() ([]string, error) {
	pattern := filepath.Join(fm.InputDir, "*.xlsx")

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var files []string
	for _, file := range matches {
		if strings.HasPrefix(filepath.Base(file), "~$") {
			continue
		}
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			files = append(files, file)
		}
	}

	return files, nil
}

// =============================================================================
// WORKBOOK ARCHIVAL
// =============================================================================

// ArchiveWorkbook moves a processed workbook to the archive directory and
// returns the archived path.
func (fm *FileManager) ArchiveWorkbook(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return filePath, nil
	}

	archivePath := filepath.Join(fm.InputArchiveDir, filepath.Base(filePath))

	if err := os.MkdirAll(fm.InputArchiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	// Rename fails across devices; fall back to copy and delete.
	if err := os.Rename(filePath, archivePath); err != nil {
		if err := copyFile(filePath, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy workbook to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original workbook: %w", err)
		}
	}

	return archivePath, nil
}

// =============================================================================
// RUN IDENTIFICATION
// =============================================================================

// NewRunID generates a unique id for one CLI run. Run ids appear only in
// report file names and log lines, never inside the normalized result, so
// ingesting the same workbook twice still yields identical results.
func NewRunID() string {
	return uuid.New().String()
}

// =============================================================================
// RESULT OUTPUT
// =============================================================================

// WriteResultJSON writes the normalized parse result of one workbook as
// indented JSON and returns the report path.
func WriteResultJSON(result *ledger.ParseResult, sourceFile, outputDir, runID string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(sourceFile), filepath.Ext(sourceFile))
	resultPath := filepath.Join(outputDir, fmt.Sprintf("%s_%s.json", base, runID))

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := os.WriteFile(resultPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write result file: %w", err)
	}

	return resultPath, nil
}

// =============================================================================
// ERROR LOG GENERATION
// =============================================================================

// ErrorLogEntry is a single row error attributed to its source workbook.
type ErrorLogEntry struct {
	FileName string
	Error    ledger.ParseError
}

// WriteErrorLog writes row errors collected across a run to a log file and
// returns its path. No errors means no file.
func WriteErrorLog(entries []ErrorLogEntry, outputDir, runID string) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	logPath := filepath.Join(outputDir, fmt.Sprintf("error_log_%s.txt", runID))

	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	header := fmt.Sprintf("Ledger Ingest - Error Log\n"+
		"Generated: %s\n"+
		"Total Errors: %d\n"+
		"================================================================================\n\n",
		time.Now().Format("2006-01-02 15:04:05"),
		len(entries))
	writer.WriteString(header)

	for i, entry := range entries {
		entryStr := fmt.Sprintf("Error #%d\n"+
			"  File:    %s\n"+
			"  Row:     %d\n"+
			"  Message: %s\n",
			i+1,
			entry.FileName,
			entry.Error.Row,
			entry.Error.Message)

		if len(entry.Error.Raw) > 0 {
			entryStr += fmt.Sprintf("  Raw:     %s\n", strings.Join(entry.Error.Raw, " | "))
		}

		entryStr += "\n"
		writer.WriteString(entryStr)
	}

	footer := "================================================================================\n" +
		"End of Error Log\n"
	writer.WriteString(footer)

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush error log: %w", err)
	}

	return logPath, nil
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary contains summary information about one CLI run.
type RunSummary struct {
	RunID             string
	StartTime         time.Time
	EndTime           time.Time
	TotalFiles        int
	SuccessfulFiles   int
	FailedFiles       int
	TotalTransactions int
	TotalSummaryRows  int
	TotalInvalidRows  int
	TotalExcludedRows int
	ProcessedFiles    []ProcessedFileInfo
	FailedFilesList   []FailedFileInfo
}

// ProcessedFileInfo describes a successfully ingested workbook.
type ProcessedFileInfo struct {
	InputFile    string
	ResultFile   string
	ArchivePath  string
	Dialect      ledger.Dialect
	Transactions int
	SummaryRows  int
	InvalidRows  int
	ProcessTime  time.Duration
}

// FailedFileInfo describes a workbook that failed structurally.
type FailedFileInfo struct {
	InputFile    string
	ErrorMessage string
}

// WriteSummaryLog writes the run summary to a log file and returns its
// path.
func WriteSummaryLog(summary RunSummary, outputDir string) (string, error) {
	summaryPath := filepath.Join(outputDir, fmt.Sprintf("run_summary_%s.txt", summary.RunID))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	duration := summary.EndTime.Sub(summary.StartTime)
	header := fmt.Sprintf("Ledger Ingest - Run Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:     %s\n"+
		"  Start Time: %s\n"+
		"  End Time:   %s\n"+
		"  Duration:   %s\n\n"+
		"Statistics:\n"+
		"  Total Files:       %d\n"+
		"  Successful:        %d\n"+
		"  Failed:            %d\n"+
		"  Transactions:      %d\n"+
		"  Summary Rows:      %d\n"+
		"  Invalid Rows:      %d\n"+
		"  Excluded Rows:     %d\n\n",
		summary.RunID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.TotalFiles,
		summary.SuccessfulFiles,
		summary.FailedFiles,
		summary.TotalTransactions,
		summary.TotalSummaryRows,
		summary.TotalInvalidRows,
		summary.TotalExcludedRows)
	writer.WriteString(header)

	if len(summary.ProcessedFiles) > 0 {
		writer.WriteString("Successful Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, pf := range summary.ProcessedFiles {
			writer.WriteString(fmt.Sprintf("  Input:        %s\n", pf.InputFile))
			writer.WriteString(fmt.Sprintf("  Result:       %s\n", pf.ResultFile))
			writer.WriteString(fmt.Sprintf("  Dialect:      %s\n", pf.Dialect))
			writer.WriteString(fmt.Sprintf("  Transactions: %d\n", pf.Transactions))
			writer.WriteString(fmt.Sprintf("  Invalid Rows: %d\n", pf.InvalidRows))
			writer.WriteString(fmt.Sprintf("  Process Time: %s\n\n", pf.ProcessTime.String()))
		}
	}

	if len(summary.FailedFilesList) > 0 {
		writer.WriteString("Failed Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, ff := range summary.FailedFilesList {
			writer.WriteString(fmt.Sprintf("  File:  %s\n", ff.InputFile))
			writer.WriteString(fmt.Sprintf("  Error: %s\n\n", ff.ErrorMessage))
		}
	}

	footer := "================================================================================\n" +
		"End of Summary\n"
	writer.WriteString(footer)

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
