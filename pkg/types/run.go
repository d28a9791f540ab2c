// Copyright VeeTech Ltd., 2026. All rights reserved.

package types

import "time"

// RunSummary aggregates the outcome of one pipeline run over a single
// bundle. Records appear in certificate order; a run with failures is a
// partial success, never an abort.
type RunSummary struct {
	// RunID uniquely identifies this run.
	RunID string `json:"run_id" yaml:"run_id"`

	// Bundle is the input bundle path.
	Bundle string `json:"bundle" yaml:"bundle"`

	// OutputDir is the destination directory for output files.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Pages is the bundle page count.
	Pages int `json:"pages" yaml:"pages"`

	// DryRun is true when the run resolved names without writing files.
	DryRun bool `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`

	// StartedAt and FinishedAt bound the run wall-clock time.
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`

	// Records holds one OutputRecord per detected certificate, in range order.
	Records []OutputRecord `json:"records" yaml:"records"`
}

// Written returns the number of certificates whose output file was written.
func (s *RunSummary) Written() int {
	n := 0
	for _, r := range s.Records {
		if r.Status == CertWritten {
			n++
		}
	}
	return n
}

// Failed returns the number of certificates whose assembly failed.
func (s *RunSummary) Failed() int {
	n := 0
	for _, r := range s.Records {
		if r.Status == CertFailed {
			n++
		}
	}
	return n
}

// HasFailures reports whether any certificate in the run failed.
func (s *RunSummary) HasFailures() bool {
	return s.Failed() > 0
}
