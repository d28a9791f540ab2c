// Copyright VeeTech Ltd., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/veetech/certsplit/pkg/types"
)

// setDefaults registers the documented default for every config key, so
// keys absent from the config file resolve to usable values.
func setDefaults() {
	viper.SetDefault("ocr.languages", []string{"eng"})
	viper.SetDefault("ocr.dpi", 300.0)
	viper.SetDefault("ocr.workers", defaultWorkers())
	viper.SetDefault("ocr.preprocess", true)
	viper.SetDefault("ocr.text_layer", false)
	viper.SetDefault("detect.min_confidence", 0.40)
	viper.SetDefault("naming.placeholder", "UNKNOWN")
	viper.SetDefault("naming.seed_from_output", true)
	viper.SetDefault("output.dir", "")
	viper.SetDefault("output.auto_folder", false)
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.path", "")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", "")
	viper.SetDefault("logging.max_size_mb", 10)
	viper.SetDefault("logging.max_backups", 3)
	viper.SetDefault("logging.max_age_days", 28)
}

// defaultWorkers bounds OCR concurrency: CPU-bound with a large native
// footprint per worker, so more than a few buys nothing.
func defaultWorkers() int {
	n := runtime.GOMAXPROCS(0)
	if n > 4 {
		n = 4
	}
	return n
}

// pipelineConfig builds the effective configuration: documented defaults,
// overridden by the config file and environment, overridden by whichever
// flags were set on the command line.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	cfg := types.PipelineConfig{
		OCR: types.OCRConfig{
			Languages:  viper.GetStringSlice("ocr.languages"),
			DPI:        viper.GetFloat64("ocr.dpi"),
			Workers:    viper.GetInt("ocr.workers"),
			Preprocess: viper.GetBool("ocr.preprocess"),
			TextLayer:  viper.GetBool("ocr.text_layer"),
		},
		Detect: types.DetectConfig{
			MinConfidence: viper.GetFloat64("detect.min_confidence"),
		},
		Naming: types.NamingConfig{
			Placeholder:    viper.GetString("naming.placeholder"),
			SeedFromOutput: viper.GetBool("naming.seed_from_output"),
		},
		Output: types.OutputConfig{
			Dir:        viper.GetString("output.dir"),
			AutoFolder: viper.GetBool("output.auto_folder"),
		},
		History: types.HistoryConfig{
			Enabled: viper.GetBool("history.enabled"),
			Path:    viper.GetString("history.path"),
		},
		Logging: types.LoggingConfig{
			Level:      viper.GetString("logging.level"),
			File:       viper.GetString("logging.file"),
			MaxSizeMB:  viper.GetInt("logging.max_size_mb"),
			MaxBackups: viper.GetInt("logging.max_backups"),
			MaxAgeDays: viper.GetInt("logging.max_age_days"),
		},
	}

	flags := cmd.Flags()
	if flags.Changed("lang") {
		cfg.OCR.Languages, _ = flags.GetStringSlice("lang")
	}
	if flags.Changed("dpi") {
		cfg.OCR.DPI, _ = flags.GetFloat64("dpi")
	}
	if flags.Changed("workers") {
		cfg.OCR.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("text-layer") {
		cfg.OCR.TextLayer, _ = flags.GetBool("text-layer")
	}
	if flags.Changed("min-confidence") {
		cfg.Detect.MinConfidence, _ = flags.GetFloat64("min-confidence")
	}
	if flags.Changed("output") {
		cfg.Output.Dir, _ = flags.GetString("output")
	}
	if flags.Changed("auto-folder") {
		cfg.Output.AutoFolder, _ = flags.GetBool("auto-folder")
	}
	if flags.Changed("no-history") {
		noHistory, _ := flags.GetBool("no-history")
		cfg.History.Enabled = !noHistory
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}

	return cfg
}

// defaultOutputDir is a directory named after the bundle, alongside it:
// /scans/march.pdf splits into /scans/march/.
func defaultOutputDir(bundlePath string) string {
	base := filepath.Base(bundlePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(bundlePath), stem)
}

// defaultLedgerPath is certsplit.db under the user config directory.
func defaultLedgerPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "certsplit.db"
	}
	return filepath.Join(dir, "certsplit", "certsplit.db")
}

// ledgerPath resolves the configured ledger location.
func ledgerPath(cfg types.HistoryConfig) string {
	if cfg.Path != "" {
		return cfg.Path
	}
	return defaultLedgerPath()
}
