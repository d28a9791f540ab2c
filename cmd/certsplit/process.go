// Copyright VeeTech Ltd., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/veetech/certsplit/internal/assemble"
	"github.com/veetech/certsplit/internal/bundle"
	"github.com/veetech/certsplit/internal/ledger"
	"github.com/veetech/certsplit/internal/logging"
	"github.com/veetech/certsplit/internal/ocr"
	"github.com/veetech/certsplit/internal/pipeline"
	"github.com/veetech/certsplit/internal/profile"
	"github.com/veetech/certsplit/pkg/types"
)

var processCmd = &cobra.Command{
	Use:   "process <bundle.pdf>",
	Short: "Split a certificate bundle into per-certificate PDFs",
	Long: `Process reads every page of the bundle, partitions the pages into
certificates, extracts the tag number, serial number, due date, and
certificate type for each, and writes one named PDF per certificate to
the output directory.

A certificate that fails to split is reported and skipped; the run
continues with the rest of the bundle. Interrupting a run keeps the
files already written.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringP("output", "o", "", "output directory (default: <bundle name>/ next to the bundle)")
	processCmd.Flags().Bool("auto-folder", false, "group outputs into per-tag folders")
	processCmd.Flags().String("profile", "", "YAML pattern profile (default: built-in)")
	processCmd.Flags().Int("workers", 0, "concurrent OCR workers (default: min(CPUs, 4))")
	processCmd.Flags().Float64("dpi", 0, "rasterization resolution for OCR (default 300)")
	processCmd.Flags().StringSlice("lang", nil, "Tesseract language codes (default eng)")
	processCmd.Flags().Float64("min-confidence", 0, "OCR confidence below which a page never starts a certificate (default 0.40)")
	processCmd.Flags().Bool("text-layer", false, "use embedded page text when present instead of OCR")
	processCmd.Flags().Bool("dry-run", false, "detect and name certificates without writing files")
	processCmd.Flags().Bool("no-history", false, "skip recording the run in the ledger")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	bundlePath := args[0]
	cfg := pipelineConfig(cmd)
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	prof, err := loadProfile(cmd)
	if err != nil {
		return err
	}

	outputDir := cfg.Output.Dir
	if outputDir == "" {
		outputDir = defaultOutputDir(bundlePath)
	}

	info, err := preflight(bundlePath)
	if err != nil {
		return fmt.Errorf("%w: %v", pipeline.ErrBundleUnreadable, err)
	}
	fmt.Fprintf(os.Stderr, "Bundle: %s, %d pages\n", bundlePath, info.Pages)

	src, err := ocr.Open(bundlePath, cfg.OCR, ocr.NewNormalizer(prof), log)
	if err != nil {
		return err
	}
	defer src.Close()

	var asm pipeline.Assembler
	if !dryRun {
		asm = assemble.New(bundlePath, log)
	}

	runner, err := pipeline.NewRunner(pipeline.Options{
		Bundle:    bundlePath,
		Source:    src,
		Assembler: asm,
		Profile:   prof,
		Config:    cfg,
		OutputDir: outputDir,
		DryRun:    dryRun,
		Progress:  &cliProgress{},
		Log:       log,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, runErr := runner.Run(ctx)
	if sum != nil {
		recordRun(cfg.History, sum, log)
		printSummary(sum)
	}
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) && sum != nil {
			return fmt.Errorf("run interrupted; %d certificate(s) written", sum.Written())
		}
		return runErr
	}
	if sum.HasFailures() {
		return fmt.Errorf("%d certificate(s) failed", sum.Failed())
	}
	return nil
}

// preflight verifies the bundle opens and has pages before OCR spins up.
func preflight(bundlePath string) (bundle.Info, error) {
	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	sp.Suffix = " checking bundle"
	sp.Writer = os.Stderr
	sp.Start()
	defer sp.Stop()

	return bundle.Probe(bundlePath)
}

func loadProfile(cmd *cobra.Command) (*profile.Compiled, error) {
	path, _ := cmd.Flags().GetString("profile")
	if path == "" {
		return profile.Default().Compile()
	}
	p, err := profile.Load(path)
	if err != nil {
		return nil, err
	}
	return p.Compile()
}

// recordRun stores the run in the ledger. Ledger trouble never fails the
// run; the split output is already on disk.
func recordRun(cfg types.HistoryConfig, sum *types.RunSummary, log *zap.Logger) {
	if !cfg.Enabled {
		return
	}
	store, err := ledger.Open(ledgerPath(cfg))
	if err != nil {
		log.Warn("opening run ledger failed", zap.Error(err))
		return
	}
	defer store.Close()

	if err := store.Record(context.Background(), sum); err != nil {
		log.Warn("recording run failed", zap.Error(err))
	}
}

func printSummary(sum *types.RunSummary) {
	elapsed := sum.FinishedAt.Sub(sum.StartedAt).Round(time.Second)
	fmt.Fprintf(os.Stdout, "\n%d page(s), %d certificate(s) in %s: ",
		sum.Pages, len(sum.Records), elapsed)
	if sum.DryRun {
		color.New(color.FgCyan).Printf("%d planned", len(sum.Records))
	} else {
		color.New(color.FgGreen).Printf("%d written", sum.Written())
	}
	if failed := sum.Failed(); failed > 0 {
		fmt.Fprint(os.Stdout, ", ")
		color.New(color.FgRed).Printf("%d failed", failed)
	}
	fmt.Fprintln(os.Stdout)
}

// cliProgress renders pipeline progress on the terminal. The page bar is
// updated from OCR worker goroutines; progressbar serializes internally.
type cliProgress struct {
	bar *progressbar.ProgressBar
}

func (p *cliProgress) ExtractionStarted(totalPages int) {
	p.bar = progressbar.NewOptions(totalPages,
		progressbar.OptionSetDescription("reading pages"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
	)
}

func (p *cliProgress) PageDone(done, total int) {
	if p.bar != nil {
		_ = p.bar.Set(done)
	}
}

func (p *cliProgress) RangesDetected(count int) {
	fmt.Fprintf(os.Stderr, "Detected %d certificate(s)\n", count)
}

func (p *cliProgress) CertificateDone(rec types.OutputRecord) {
	pages := fmt.Sprintf("pages %d-%d", rec.Range.Start+1, rec.Range.End)
	switch rec.Status {
	case types.CertWritten:
		color.New(color.FgGreen).Printf("✓ %s (%s)\n", rec.Filename, pages)
	case types.CertPlanned:
		color.New(color.FgCyan).Printf("→ %s (%s)\n", rec.Filename, pages)
	case types.CertFailed:
		color.New(color.FgRed).Printf("✗ %s: %s\n", pages, rec.Err)
	}
}
