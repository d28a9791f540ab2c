// Copyright VeeTech Ltd., 2026. All rights reserved.

// Package naming derives unique, filesystem-safe output filenames from
// certificate metadata.
package naming

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/veetech/certsplit/pkg/types"
)

// RunState tracks the filenames allocated during one run, including names
// seeded from the destination directory. It is created fresh per run and
// discarded at the end; nothing persists it.
type RunState struct {
	allocated map[string]struct{}
	suffixes  map[string]int
}

// NewRunState returns an empty RunState.
func NewRunState() *RunState {
	return &RunState{
		allocated: make(map[string]struct{}),
		suffixes:  make(map[string]int),
	}
}

// SeedFromDir marks every .pdf base name under dir, recursively, as
// allocated so a re-run never reuses an existing output name. A missing
// directory seeds nothing.
func (s *RunState) SeedFromDir(dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(d.Name())
		if !strings.EqualFold(ext, ".pdf") {
			return nil
		}
		s.allocated[strings.TrimSuffix(d.Name(), ext)] = struct{}{}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("seeding names from %s: %w", dir, err)
	}
	return nil
}

// Generator derives output filenames from metadata.
type Generator struct {
	placeholder string
	runDate     time.Time
}

// NewGenerator returns a Generator. runDate is the date segment used when
// a certificate has no due date; it is captured once per run so every
// fallback within a run agrees. An empty placeholder defaults to UNKNOWN.
func NewGenerator(placeholder string, runDate time.Time) *Generator {
	if placeholder == "" {
		placeholder = "UNKNOWN"
	}
	return &Generator{placeholder: placeholder, runDate: runDate}
}

// Generate returns the unique extensionless output name for meta and
// reserves it in state. The name is {YYYYMMDD}_{identity}[_{certType}]:
// the identity segment is the tag number, else serial number, else unit
// ID, else the placeholder; the date is the due date when set, else the
// run date; the type segment is omitted with its separator when unset.
// A base already allocated gets an incrementing _1, _2, ... suffix,
// monotonic per base, so a fixed input order reproduces the same names.
func (g *Generator) Generate(meta types.Metadata, state *RunState) string {
	identity := Sanitize(meta.Identity())
	if identity == "" {
		identity = g.placeholder
	}

	day := meta.DueDate
	if day.IsZero() {
		day = g.runDate
	}

	base := day.Format("20060102") + "_" + identity
	if ct := Sanitize(meta.CertType); ct != "" {
		base += "_" + ct
	}

	if _, taken := state.allocated[base]; !taken {
		state.allocated[base] = struct{}{}
		return base
	}
	for {
		state.suffixes[base]++
		candidate := fmt.Sprintf("%s_%d", base, state.suffixes[base])
		if _, taken := state.allocated[candidate]; !taken {
			state.allocated[candidate] = struct{}{}
			return candidate
		}
	}
}

var (
	separators = regexp.MustCompile(`[\s/\\]+`)
	disallowed = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	dashRuns   = regexp.MustCompile(`-{2,}`)
)

// Sanitize makes a name segment filesystem-safe: whitespace and path
// separators become dashes, other reserved characters are dropped, dash
// runs collapse, and leading or trailing punctuation is trimmed.
func Sanitize(segment string) string {
	s := separators.ReplaceAllString(segment, "-")
	s = disallowed.ReplaceAllString(s, "")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-._")
}
