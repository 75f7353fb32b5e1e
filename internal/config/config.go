// =============================================================================
// Ledger Ingest - Configuration Module
// =============================================================================
//
// This module loads the application configuration: directories, logging,
// processing limits, and the dialect-detection vocabulary. The detection
// section exists because the accumulated export's sheet name carries the
// fiscal year: when a new year's workbook starts circulating, operators
// update the config instead of waiting for a release.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/idrall/ledger-ingest/internal/detect"
)

// MainConfig holds the global application configuration, loaded from
// config.yaml.
type MainConfig struct {
	// InputDir is scanned for .xlsx workbooks to ingest.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives the per-run reports (normalized result, error log,
	// summary log).
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir receives successfully processed workbooks. Files are
	// only moved after a run completes without structural errors.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// LogFile is the application log file path.
	// Default: "./logs/ledger-ingest.log"
	LogFile string `yaml:"log_file"`

	// LogLevel controls verbosity: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// TargetYear anchors the accumulated-year dialect's date fallbacks.
	// Zero means: derive it from the detection fiscal year token.
	TargetYear int `yaml:"target_year"`

	// MaxConcurrency bounds how many workbooks are processed at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// ContinueOnError keeps processing other workbooks when one fails.
	// Default: true
	ContinueOnError bool `yaml:"continue_on_error"`

	// Detection is the dialect-detection vocabulary. Unset fields fall
	// back to the defaults for the known exports.
	Detection detect.Settings `yaml:"detection"`
}

// Load reads the main configuration from a YAML file, applies defaults, and
// validates it. A missing file is not an error: the defaults describe a
// runnable local layout.
func Load(path string) (*MainConfig, error) {
	cfg := MainConfig{ContinueOnError: true}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// applyDefaults fills unset options.
func applyDefaults(cfg *MainConfig) {
	if cfg.InputDir == "" {
		cfg.InputDir = "./input"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.InputArchiveDir == "" {
		cfg.InputArchiveDir = "./input_archive"
	}
	if cfg.LogFile == "" {
		cfg.LogFile = "./logs/ledger-ingest.log"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = 4
	}

	defaults := detect.DefaultSettings()
	if cfg.Detection.AccumulatedToken == "" {
		cfg.Detection.AccumulatedToken = defaults.AccumulatedToken
	}
	if cfg.Detection.FiscalYearToken == "" {
		cfg.Detection.FiscalYearToken = defaults.FiscalYearToken
	}
	if len(cfg.Detection.LegacySheetNames) == 0 {
		cfg.Detection.LegacySheetNames = defaults.LegacySheetNames
	}
	if len(cfg.Detection.HeaderKeywords) == 0 {
		cfg.Detection.HeaderKeywords = defaults.HeaderKeywords
	}
	if cfg.Detection.HeaderScanRows == 0 {
		cfg.Detection.HeaderScanRows = defaults.HeaderScanRows
	}
}

// validate checks the configuration and creates missing directories.
func validate(cfg *MainConfig) error {
	if cfg.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1")
	}

	dirs := []string{cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir}
	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}
	return nil
}
