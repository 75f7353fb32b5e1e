// =============================================================================
// Ledger Ingest - Orchestrator
// =============================================================================
//
// This package is the top-level entry point the upload handler consumes:
// detect a workbook's dialect, dispatch to the matching extractor, and hand
// back the normalized ParseResult. The whole pipeline is synchronous, pure
// computation over the in-memory workbook; callers may run any number of
// ingestions concurrently because every piece of per-call state lives in
// the call.
//
// UNKNOWN workbooks are not rejected outright: a best-effort single-ledger
// parse runs as a documented last resort, and the result keeps the UNKNOWN
// tag so downstream consumers know the classification failed.
//
// =============================================================================

package ingest

import (
	"fmt"
	"time"

	"github.com/idrall/ledger-ingest/internal/detect"
	"github.com/idrall/ledger-ingest/internal/extract"
	"github.com/idrall/ledger-ingest/internal/ledger"
	"github.com/idrall/ledger-ingest/internal/workbook"
)

// Logger is the injectable diagnostic sink. The core never logs through a
// package-level logger; callers wanting diagnostics supply an
// implementation (cmd wires logrus), library callers may pass nil for
// silence.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// nopLogger discards everything.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}

// Options configures one ingestion run.
type Options struct {
	// Detection is the detection vocabulary; zero value means defaults.
	Detection detect.Settings

	// TargetYear anchors the accumulated-year dialect's date fallbacks.
	// Defaults to the detection settings' fiscal year token.
	TargetYear int

	// Logger receives diagnostics. Nil means silent.
	Logger Logger
}

// Ingestor runs the detect → extract pipeline. It carries configuration
// only; all per-run state is local to Run, keeping the pipeline re-entrant.
type Ingestor struct {
	detection  detect.Settings
	targetYear int
	log        Logger
}

// New creates an Ingestor. Zero-value options fall back to the default
// detection vocabulary and its fiscal year.
func New(opts Options) *Ingestor {
	detection := opts.Detection
	if detection.AccumulatedToken == "" {
		detection = detect.DefaultSettings()
	}

	targetYear := opts.TargetYear
	if targetYear == 0 {
		targetYear = fiscalYearFromToken(detection.FiscalYearToken)
	}
	if targetYear == 0 {
		targetYear = time.Now().UTC().Year()
	}

	log := opts.Logger
	if log == nil {
		log = nopLogger{}
	}

	return &Ingestor{detection: detection, targetYear: targetYear, log: log}
}

// Detect classifies a workbook without extracting it.
func (i *Ingestor) Detect(wb *workbook.Workbook) ledger.Dialect {
	return detect.Detect(wb, i.detection)
}

// Run ingests one workbook: classify, extract, aggregate. The returned
// error is structural only (no usable sheet, unresolvable required header);
// malformed rows land in the result's error list.
//
// Identical input yields an identical ParseResult; the pipeline keeps no
// state between calls, which is the property the persistence layer's
// idempotent upsert relies on.
func (i *Ingestor) Run(wb *workbook.Workbook) (*ledger.ParseResult, error) {
	if wb == nil || len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	dialect := detect.Detect(wb, i.detection)
	i.log.Debugf("detected dialect %s for %q", dialect, wb.SourceFile)

	var result *ledger.ParseResult
	var err error

	switch dialect {
	case ledger.DialectAccumulatedYear:
		result, err = extract.AccumulatedYear(wb, extract.AccumulatedOptions{
			SheetToken: i.detection.AccumulatedToken,
			TargetYear: i.targetYear,
		})

	case ledger.DialectFourSheet:
		result, err = extract.FourSheet(wb)

	case ledger.DialectSingleLedger:
		result, err = extract.SingleLedger(wb)

	default:
		// Last-resort fallback: try the single-ledger layout, but keep the
		// UNKNOWN tag so the caller knows classification failed.
		i.log.Warnf("unknown workbook format for %q, attempting single-ledger parse", wb.SourceFile)
		result, err = extract.SingleLedger(wb)
		if result != nil {
			result.Dialect = ledger.DialectUnknown
			for idx := range result.Transactions {
				result.Transactions[idx].Dialect = ledger.DialectUnknown
			}
		}
	}

	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	i.log.Infof("ingested %q: %d accepted, %d rejected, %d excluded",
		wb.SourceFile,
		result.Statistics.TotalAccepted,
		result.Statistics.InvalidRows,
		result.Statistics.ExcludedCancelled+result.Statistics.ExcludedAggregate)

	return result, nil
}

// fiscalYearFromToken parses the detection year token; the current exports
// use a plain 4-digit year.
func fiscalYearFromToken(token string) int {
	year := 0
	for _, r := range token {
		if r < '0' || r > '9' {
			return 0
		}
		year = year*10 + int(r-'0')
	}
	return year
}
