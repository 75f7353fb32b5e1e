// =============================================================================
// Ledger Ingest - Ingest Command
// =============================================================================
//
// This file defines the 'ingest' command, the main command for normalizing
// sales-ledger workbooks. It orchestrates the full pipeline.
//
// COMMAND USAGE:
//   ledger-ingest ingest [flags]
//
// FLAGS:
//   --dry-run : Parse and report without writing results or archiving
//   --single  : Ingest only a single workbook (specify with --file)
//   --file    : Path to a specific workbook (used with --single)
//
// PROCESSING PIPELINE:
//   1. Load configuration
//   2. Discover .xlsx workbooks in the input directory
//   3. For each workbook (concurrently):
//      a. Load the workbook into the cell model
//      b. Detect the schema dialect
//      c. Extract and validate the rows
//      d. Write the normalized result as JSON
//   4. Archive ingested workbooks
//   5. Generate error log and run summary
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/idrall/ledger-ingest/internal/ingest"
	"github.com/idrall/ledger-ingest/internal/ledger"
	"github.com/idrall/ledger-ingest/internal/workbook"
	"github.com/idrall/ledger-ingest/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun parses workbooks without writing results or archiving.
var dryRun bool

// singleFile indicates whether to ingest only a single workbook.
var singleFile bool

// filePath is the path to a specific workbook (used with --single).
var filePath string

// =============================================================================
// INGEST COMMAND DEFINITION
// =============================================================================

// ingestCmd represents the 'ingest' command.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest sales-ledger workbooks and normalize them",
	Long: `The ingest command scans the input directory for .xlsx workbooks, detects
which schema dialect each one follows, and normalizes them into the common
transaction format.

Workbooks are processed concurrently. Each workbook is independent; a
structural failure in one does not affect the others, and malformed rows
within a workbook are collected as row errors rather than aborting it.

On successful ingestion:
  - The normalized result is written to the output directory as JSON
  - The workbook is moved to the input archive
  - The run summary counts it as successful

On structural failure (no usable sheet, missing required headers):
  - The workbook remains in the input directory
  - The failure is recorded in the run summary
  - Processing continues for other workbooks`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest()
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Parse and report without writing results or archiving",
	)

	ingestCmd.Flags().BoolVar(
		&singleFile,
		"single",
		false,
		"Ingest only a single workbook (use with --file)",
	)

	ingestCmd.Flags().StringVar(
		&filePath,
		"file",
		"",
		"Path to a specific workbook to ingest (used with --single)",
	)
}

// =============================================================================
// RESULT TYPE
// =============================================================================

// fileResult is the per-workbook outcome collected from the worker
// goroutines.
type fileResult struct {
	InputFile   string
	Result      *ledger.ParseResult
	ResultFile  string
	ArchivePath string
	ProcessTime time.Duration
	Err         error
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runIngest orchestrates the ingestion pipeline.
func runIngest() error {
	startTime := time.Now()
	runID := utils.NewRunID()

	fmt.Println("=== Ledger Ingest ===")
	fmt.Println("Loading configuration...")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log.Infof("run %s started", runID)

	fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir)
	fm.ArchiveOnSuccess = !dryRun
	if err := fm.EnsureDirectories(); err != nil {
		return err
	}

	// =========================================================================
	// DISCOVER WORKBOOKS
	// =========================================================================

	var inputFiles []string
	if singleFile {
		if filePath == "" {
			return fmt.Errorf("--single requires --file")
		}
		if !utils.FileExists(filePath) {
			return fmt.Errorf("workbook not found: %s", filePath)
		}
		inputFiles = []string{filePath}
	} else {
		fmt.Println("Discovering workbooks...")
		inputFiles, err = fm.DiscoverWorkbooks()
		if err != nil {
			return fmt.Errorf("failed to discover workbooks: %w", err)
		}
	}

	if len(inputFiles) == 0 {
		fmt.Println("No workbooks found in the input directory.")
		return nil
	}

	fmt.Printf("Found %d workbook(s) to ingest\n", len(inputFiles))

	// =========================================================================
	// PROCESS WORKBOOKS CONCURRENTLY
	// =========================================================================

	fmt.Println("Ingesting workbooks...")

	ingestor := ingest.New(ingest.Options{
		Detection:  cfg.Detection,
		TargetYear: cfg.TargetYear,
		Logger:     log,
	})

	var wg sync.WaitGroup
	results := make(chan fileResult, len(inputFiles))

	// Semaphore bounding concurrent workbook loads. The extraction itself
	// is cheap; excelize parsing is the expensive part.
	sem := make(chan struct{}, cfg.MaxConcurrency)

	for _, file := range inputFiles {
		wg.Add(1)

		go func(inputFile string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results <- ingestOne(ingestor, fm, inputFile, runID)
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// =========================================================================
	// COLLECT RESULTS
	// =========================================================================

	summary := utils.RunSummary{
		RunID:      runID,
		StartTime:  startTime,
		TotalFiles: len(inputFiles),
	}
	var errorEntries []utils.ErrorLogEntry

	for res := range results {
		name := filepath.Base(res.InputFile)

		if res.Err != nil {
			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    res.InputFile,
				ErrorMessage: res.Err.Error(),
			})
			fmt.Printf("  ✗ %s: %v\n", name, res.Err)
			continue
		}

		stats := res.Result.Statistics
		summaryRows := 0
		for _, rows := range res.Result.Summaries {
			summaryRows += len(rows)
		}

		summary.SuccessfulFiles++
		summary.TotalTransactions += stats.TotalAccepted
		summary.TotalSummaryRows += summaryRows
		summary.TotalInvalidRows += stats.InvalidRows
		summary.TotalExcludedRows += stats.ExcludedCancelled + stats.ExcludedAggregate
		summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
			InputFile:    res.InputFile,
			ResultFile:   res.ResultFile,
			ArchivePath:  res.ArchivePath,
			Dialect:      res.Result.Dialect,
			Transactions: stats.TotalAccepted,
			SummaryRows:  summaryRows,
			InvalidRows:  stats.InvalidRows,
			ProcessTime:  res.ProcessTime,
		})

		for _, parseErr := range res.Result.Errors {
			errorEntries = append(errorEntries, utils.ErrorLogEntry{
				FileName: name,
				Error:    parseErr,
			})
		}

		fmt.Printf("  ✓ %s [%s]: %d transaction(s), %d invalid row(s)\n",
			name, res.Result.Dialect, stats.TotalAccepted, stats.InvalidRows)
	}

	// =========================================================================
	// WRITE REPORTS AND PRINT SUMMARY
	// =========================================================================

	summary.EndTime = time.Now()

	if !dryRun {
		if len(errorEntries) > 0 {
			logPath, err := utils.WriteErrorLog(errorEntries, cfg.OutputDir, runID)
			if err != nil {
				log.Warnf("failed to write error log: %v", err)
			} else {
				fmt.Printf("\nRow errors logged to %s\n", logPath)
			}
		}

		if _, err := utils.WriteSummaryLog(summary, cfg.OutputDir); err != nil {
			log.Warnf("failed to write run summary: %v", err)
		}
	}

	elapsed := time.Since(startTime)
	fmt.Println("\n=== Ingestion Complete ===")
	fmt.Printf("Total workbooks: %d\n", summary.TotalFiles)
	fmt.Printf("Successful:      %d\n", summary.SuccessfulFiles)
	fmt.Printf("Failed:          %d\n", summary.FailedFiles)
	fmt.Printf("Transactions:    %d\n", summary.TotalTransactions)
	fmt.Printf("Invalid rows:    %d\n", summary.TotalInvalidRows)
	fmt.Printf("Time elapsed:    %s\n", elapsed)

	log.Infof("run %s finished: %d/%d workbooks ingested",
		runID, summary.SuccessfulFiles, summary.TotalFiles)

	if summary.FailedFiles > 0 && !cfg.ContinueOnError {
		return fmt.Errorf("%d workbook(s) failed", summary.FailedFiles)
	}
	return nil
}

// ingestOne runs the full pipeline for a single workbook.
func ingestOne(ingestor *ingest.Ingestor, fm *utils.FileManager, inputFile, runID string) fileResult {
	start := time.Now()
	res := fileResult{InputFile: inputFile}

	wb, err := workbook.Load(inputFile)
	if err != nil {
		res.Err = fmt.Errorf("failed to load workbook: %w", err)
		return res
	}

	result, err := ingestor.Run(wb)
	if err != nil {
		res.Err = err
		return res
	}
	res.Result = result

	if dryRun {
		res.ProcessTime = time.Since(start)
		return res
	}

	resultFile, err := utils.WriteResultJSON(result, inputFile, fm.OutputDir, runID)
	if err != nil {
		res.Err = err
		return res
	}
	res.ResultFile = resultFile

	archivePath, err := fm.ArchiveWorkbook(inputFile)
	if err != nil {
		// The result is already written; losing the archive move is worth
		// a warning, not a failure.
		log.Warnf("failed to archive %s: %v", inputFile, err)
		archivePath = inputFile
	}
	res.ArchivePath = archivePath

	res.ProcessTime = time.Since(start)
	return res
}
