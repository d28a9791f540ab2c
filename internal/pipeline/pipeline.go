// Copyright VeeTech Ltd., 2026. All rights reserved.

// Package pipeline orchestrates a full bundle split: page text extraction,
// boundary detection, then per-certificate metadata extraction, naming,
// placement, and assembly. A certificate that fails is recorded and the run
// moves on; only an unreadable bundle or cancellation stops a run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/veetech/certsplit/internal/boundary"
	"github.com/veetech/certsplit/internal/metadata"
	"github.com/veetech/certsplit/internal/naming"
	"github.com/veetech/certsplit/internal/organize"
	"github.com/veetech/certsplit/internal/profile"
	"github.com/veetech/certsplit/pkg/types"
)

// ErrBundleUnreadable marks a bundle whose pages cannot be enumerated at
// all. It is the only failure that aborts a run before any certificate is
// attempted; individual page or certificate failures never do.
var ErrBundleUnreadable = errors.New("bundle unreadable")

// PageTextSource produces per-page text for one bundle.
type PageTextSource interface {
	PageCount() int
	ExtractAll(ctx context.Context, report func(done, total int)) ([]types.Page, error)
}

// Assembler writes a page range into a standalone PDF at dest.
type Assembler interface {
	Assemble(ctx context.Context, r types.CertificateRange, dest string) error
}

// Phase is the runner's position in the run lifecycle.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseExtracting Phase = "extracting"
	PhaseDetecting  Phase = "detecting"
	PhaseSplitting  Phase = "splitting"
	PhaseDone       Phase = "done"
	PhaseFailed     Phase = "failed"
)

// Options configures a Runner.
type Options struct {
	// Bundle is the input bundle path, recorded in the run summary.
	Bundle string

	// Source produces page text; Assembler writes certificate PDFs.
	// Assembler may be nil for a dry run.
	Source    PageTextSource
	Assembler Assembler

	// Profile supplies the compiled anchor and field patterns.
	Profile *profile.Compiled

	// Config carries the per-stage settings.
	Config types.PipelineConfig

	// OutputDir is the destination directory.
	OutputDir string

	// DryRun resolves names and folders without writing anything.
	DryRun bool

	// RunDate is the date segment for certificates without a due date,
	// captured once so every fallback within the run agrees. Zero means now.
	RunDate time.Time

	// Progress receives run milestones; nil discards them.
	Progress Progress

	// Log receives run events; nil discards them.
	Log *zap.Logger
}

// Runner executes the split pipeline over one bundle.
type Runner struct {
	bundle    string
	src       PageTextSource
	asm       Assembler
	detector  *boundary.Detector
	extractor *metadata.Extractor
	gen       *naming.Generator
	org       *organize.Organizer
	state     *naming.RunState
	outputDir string
	dryRun    bool
	seedNames bool
	progress  Progress
	log       *zap.Logger
	phase     Phase
}

// NewRunner wires the pipeline stages from opts.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Source == nil {
		return nil, errors.New("pipeline: page text source is required")
	}
	if opts.Assembler == nil && !opts.DryRun {
		return nil, errors.New("pipeline: assembler is required")
	}
	if opts.Profile == nil {
		return nil, errors.New("pipeline: profile is required")
	}

	runDate := opts.RunDate
	if runDate.IsZero() {
		runDate = time.Now()
	}
	progress := opts.Progress
	if progress == nil {
		progress = NopProgress{}
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &Runner{
		bundle:    opts.Bundle,
		src:       opts.Source,
		asm:       opts.Assembler,
		detector:  boundary.NewDetector(opts.Profile.Anchors, opts.Config.Detect.MinConfidence),
		extractor: metadata.NewExtractor(opts.Profile),
		gen:       naming.NewGenerator(opts.Config.Naming.Placeholder, runDate),
		org:       organize.NewOrganizer(opts.Config.Output.AutoFolder),
		state:     naming.NewRunState(),
		outputDir: opts.OutputDir,
		dryRun:    opts.DryRun,
		seedNames: opts.Config.Naming.SeedFromOutput,
		progress:  progress,
		log:       log,
		phase:     PhaseIdle,
	}, nil
}

// Phase returns the runner's current phase.
func (r *Runner) Phase() Phase {
	return r.phase
}

func (r *Runner) setPhase(p Phase) {
	r.phase = p
	r.log.Debug("phase change", zap.String("phase", string(p)))
}

// Run executes the pipeline. Certificate failures are recorded in the
// summary, never returned as errors; the returned error is non-nil only for
// an unreadable bundle, an extraction abort, or cancellation. On
// cancellation the summary covers the certificates finished so far and
// their completed output files are kept.
func (r *Runner) Run(ctx context.Context) (*types.RunSummary, error) {
	sum := &types.RunSummary{
		RunID:     uuid.NewString(),
		Bundle:    r.bundle,
		OutputDir: r.outputDir,
		DryRun:    r.dryRun,
		StartedAt: time.Now(),
	}
	defer func() { sum.FinishedAt = time.Now() }()

	r.setPhase(PhaseExtracting)
	total := r.src.PageCount()
	if total <= 0 {
		r.setPhase(PhaseFailed)
		return nil, fmt.Errorf("%s: %w", r.bundle, ErrBundleUnreadable)
	}
	sum.Pages = total
	r.progress.ExtractionStarted(total)
	r.log.Info("run started",
		zap.String("run_id", sum.RunID),
		zap.String("bundle", r.bundle),
		zap.Int("pages", total),
		zap.Bool("dry_run", r.dryRun))

	pages, err := r.src.ExtractAll(ctx, r.progress.PageDone)
	if err != nil {
		r.setPhase(PhaseFailed)
		return nil, fmt.Errorf("extracting pages: %w", err)
	}

	r.setPhase(PhaseDetecting)
	ranges := r.detector.Detect(pages)
	r.progress.RangesDetected(len(ranges))
	r.log.Info("certificates detected", zap.Int("count", len(ranges)))

	if !r.dryRun {
		if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
			r.setPhase(PhaseFailed)
			return nil, fmt.Errorf("creating output directory %s: %w", r.outputDir, err)
		}
	}
	if r.seedNames {
		if err := r.state.SeedFromDir(r.outputDir); err != nil {
			r.log.Warn("seeding existing output names failed", zap.Error(err))
		}
	}

	r.setPhase(PhaseSplitting)
	for _, cr := range ranges {
		if err := ctx.Err(); err != nil {
			r.setPhase(PhaseFailed)
			return sum, err
		}

		rec, err := r.processOne(ctx, pages, cr)
		if err != nil {
			r.setPhase(PhaseFailed)
			return sum, err
		}
		sum.Records = append(sum.Records, rec)
		r.progress.CertificateDone(rec)
	}

	r.setPhase(PhaseDone)
	r.log.Info("run finished",
		zap.String("run_id", sum.RunID),
		zap.Int("written", sum.Written()),
		zap.Int("failed", sum.Failed()))
	return sum, nil
}

// processOne handles a single certificate range end to end. The returned
// error is non-nil only for cancellation; assembly failures come back as a
// CertFailed record.
func (r *Runner) processOne(ctx context.Context, pages []types.Page, cr types.CertificateRange) (types.OutputRecord, error) {
	texts := make([]string, 0, cr.Pages())
	for i := cr.Start; i < cr.End; i++ {
		texts = append(texts, pages[i].Text)
	}

	meta := r.extractor.Extract(texts)
	name := r.gen.Generate(meta, r.state)
	folder := r.org.Folder(meta)

	rec := types.OutputRecord{
		Range:    cr,
		Meta:     meta,
		Filename: name + ".pdf",
		Folder:   folder,
	}

	if r.dryRun {
		rec.Status = types.CertPlanned
		rec.Path = filepath.Join(r.outputDir, folder, rec.Filename)
		return rec, nil
	}

	dir, err := r.org.EnsureDir(r.outputDir, folder)
	if err != nil {
		rec.Status = types.CertFailed
		rec.Err = err.Error()
		r.log.Error("certificate failed", zap.String("file", rec.Filename), zap.Error(err))
		return rec, nil
	}
	rec.Path = filepath.Join(dir, rec.Filename)

	if err := r.asm.Assemble(ctx, cr, rec.Path); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return rec, err
		}
		rec.Status = types.CertFailed
		rec.Err = err.Error()
		r.log.Error("certificate failed", zap.String("file", rec.Filename), zap.Error(err))
		return rec, nil
	}

	rec.Status = types.CertWritten
	r.log.Info("certificate written",
		zap.String("file", rec.Filename),
		zap.Int("pages", cr.Pages()))
	return rec, nil
}
