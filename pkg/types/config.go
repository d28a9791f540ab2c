// Copyright VeeTech Ltd., 2026. All rights reserved.

package types

// OCRConfig holds settings for the page text source.
type OCRConfig struct {
	// Languages lists the Tesseract language codes (default ["eng"]).
	Languages []string `json:"languages" yaml:"languages"`

	// DPI is the rasterization resolution for OCR (default 300).
	DPI float64 `json:"dpi" yaml:"dpi"`

	// Workers bounds concurrent page OCR (default min(GOMAXPROCS, 4)).
	Workers int `json:"workers" yaml:"workers"`

	// Preprocess enables the grayscale/contrast/sharpen pass before OCR
	// (default true).
	Preprocess bool `json:"preprocess" yaml:"preprocess"`

	// TextLayer uses a page's embedded text layer instead of OCR when the
	// layer is non-trivial. Off by default: scanned bundles often carry
	// garbage text layers.
	TextLayer bool `json:"text_layer" yaml:"text_layer"`
}

// DetectConfig holds settings for boundary detection.
type DetectConfig struct {
	// MinConfidence is the OCR confidence below which a page is never
	// classified as a certificate start (default 0.40).
	MinConfidence float64 `json:"min_confidence" yaml:"min_confidence"`
}

// NamingConfig holds settings for filename generation.
type NamingConfig struct {
	// Placeholder is the identity segment used when no tag, serial, or
	// unit field was extracted (default "UNKNOWN").
	Placeholder string `json:"placeholder" yaml:"placeholder"`

	// SeedFromOutput scans the destination directory's existing .pdf names
	// into the dedup state so re-runs never reuse a name (default true).
	SeedFromOutput bool `json:"seed_from_output" yaml:"seed_from_output"`
}

// OutputConfig holds settings for output placement.
type OutputConfig struct {
	// Dir is the destination directory. Empty means a directory named
	// after the bundle, alongside it.
	Dir string `json:"dir" yaml:"dir"`

	// AutoFolder groups outputs into per-base-tag sub-folders.
	AutoFolder bool `json:"auto_folder" yaml:"auto_folder"`
}

// HistoryConfig holds settings for the run ledger.
type HistoryConfig struct {
	// Enabled records each run in the ledger database (default true).
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the ledger database path (default "certsplit.db" in the
	// user config directory).
	Path string `json:"path" yaml:"path"`
}

// LoggingConfig holds settings for log output.
type LoggingConfig struct {
	// Level is the minimum level: debug, info, warn, or error (default info).
	Level string `json:"level" yaml:"level"`

	// File is the rotating log file path; empty disables file logging.
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	// MaxSizeMB is the size at which the log file rotates (default 10).
	MaxSizeMB int `json:"max_size_mb" yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files kept (default 3).
	MaxBackups int `json:"max_backups" yaml:"max_backups"`

	// MaxAgeDays is the age limit for rotated files (default 28).
	MaxAgeDays int `json:"max_age_days" yaml:"max_age_days"`
}

// PipelineConfig groups all stage configurations for one run.
type PipelineConfig struct {
	OCR     OCRConfig     `json:"ocr" yaml:"ocr"`
	Detect  DetectConfig  `json:"detect" yaml:"detect"`
	Naming  NamingConfig  `json:"naming" yaml:"naming"`
	Output  OutputConfig  `json:"output" yaml:"output"`
	History HistoryConfig `json:"history" yaml:"history"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}
