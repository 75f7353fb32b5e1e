// =============================================================================
// Ledger Ingest - Detect Command
// =============================================================================
//
// This file defines the 'detect' command, which classifies workbooks
// without ingesting them. Useful when a new export shows up and nobody is
// sure which schema family it belongs to.
//
// COMMAND USAGE:
//   ledger-ingest detect                  # Classify every workbook in the input directory
//   ledger-ingest detect --file book.xlsx # Classify a single workbook
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/idrall/ledger-ingest/internal/ingest"
	"github.com/idrall/ledger-ingest/internal/workbook"
	"github.com/idrall/ledger-ingest/pkg/utils"
)

// detectFile is the path to a specific workbook to classify.
var detectFile string

// detectCmd represents the 'detect' command.
var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Classify workbooks without ingesting them",
	Long: `The detect command loads each workbook, runs schema detection, and prints
the detected dialect. Nothing is extracted, written, or archived.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runDetect()
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().StringVar(
		&detectFile,
		"file",
		"",
		"Path to a specific workbook to classify",
	)
}

// runDetect classifies one or all workbooks and prints the result.
func runDetect() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var files []string
	if detectFile != "" {
		files = []string{detectFile}
	} else {
		fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir)
		files, err = fm.DiscoverWorkbooks()
		if err != nil {
			return fmt.Errorf("failed to discover workbooks: %w", err)
		}
	}

	if len(files) == 0 {
		fmt.Println("No workbooks found.")
		return nil
	}

	ingestor := ingest.New(ingest.Options{
		Detection: cfg.Detection,
		Logger:    log,
	})

	for _, file := range files {
		wb, err := workbook.Load(file)
		if err != nil {
			fmt.Printf("  ✗ %s: %v\n", filepath.Base(file), err)
			continue
		}
		fmt.Printf("  %s: %s\n", filepath.Base(file), ingestor.Detect(wb))
	}

	return nil
}
