// =============================================================================
// Ledger Ingest - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Ledger Ingest CLI application. It
// initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   ledger-ingest ingest  - Ingest all workbooks in the input directory
//   ledger-ingest detect  - Classify workbooks without ingesting them
//   ledger-ingest version - Display the application version
//
// ARCHITECTURE:
//   - cmd/      : CLI command definitions (Cobra)
//   - internal/ : Core ingestion logic (not for external import)
//   - pkg/      : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/idrall/ledger-ingest/cmd"
)

func main() {
	cmd.Execute()
}
