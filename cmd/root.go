// =============================================================================
// Ledger Ingest - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All subcommands
// ('ingest', 'detect', 'version') are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (ledger-ingest)
//   ├── ingestCmd  (ledger-ingest ingest)
//   ├── detectCmd  (ledger-ingest detect)
//   └── versionCmd (ledger-ingest version)
//
// The root command owns the global flags (--config, --verbose) and the
// logrus setup shared by every subcommand.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/idrall/ledger-ingest/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables verbose logging when set to true.
var verbose bool

// log is the application logger, configured by setupLogging.
var log = logrus.New()

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ledger-ingest",
	Short: "Ledger Ingest - Normalize sales-ledger spreadsheet exports",

	Long: `Ledger Ingest is a CLI tool that reads the sales-ledger spreadsheet
exports circulating in the business (the one-sheet ledger, the legacy
four-sheet workbook, and the accumulated-year export), detects which schema
each workbook follows, and normalizes them into a single transaction format.

Key Features:
  - Automatic schema detection across the three known export families
  - Tolerant field parsing for locally formatted numbers and dates
  - Row-level error collection; one bad row never aborts a workbook
  - Concurrent processing with per-run error and summary reports
  - Automatic workbook archival on successful ingestion

Example Usage:
  ledger-ingest ingest                    # Ingest all workbooks in the input directory
  ledger-ingest ingest --config ./my.yaml # Use a custom configuration file
  ledger-ingest detect --file book.xlsx   # Classify a workbook without ingesting it`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (default is config.yaml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// loadConfig loads the main configuration and configures logging from it.
func loadConfig() (*config.MainConfig, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := setupLogging(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setupLogging configures the logrus logger from the configuration and the
// --verbose flag. Log output goes to the configured file; the console gets
// the human-facing progress lines instead.
func setupLogging(cfg *config.MainConfig) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		log.SetOutput(file)
	}

	return nil
}
