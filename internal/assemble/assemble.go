// Copyright VeeTech Ltd., 2026. All rights reserved.

// Package assemble writes per-certificate PDFs out of a source bundle.
package assemble

import (
	"context"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"

	"github.com/veetech/certsplit/pkg/types"
)

// Splitter extracts page ranges from one bundle into standalone PDF files.
type Splitter struct {
	bundle string
	conf   *model.Configuration
	log    *zap.Logger
}

// New returns a Splitter for the bundle at path. Validation is relaxed;
// scanned bundles are frequently not strictly conformant.
func New(bundlePath string, log *zap.Logger) *Splitter {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Splitter{bundle: bundlePath, conf: conf, log: log}
}

// PageCount reads the bundle's page count.
func (s *Splitter) PageCount() (int, error) {
	n, err := api.PageCountFile(s.bundle)
	if err != nil {
		return 0, fmt.Errorf("counting pages in %s: %w", s.bundle, err)
	}
	return n, nil
}

// Assemble writes the pages of r into a standalone PDF at dest. On failure
// no partial file is left behind.
func (s *Splitter) Assemble(ctx context.Context, r types.CertificateRange, dest string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sel := pageSelection(r)
	s.log.Debug("assembling certificate",
		zap.String("pages", sel), zap.String("dest", dest))

	if err := api.TrimFile(s.bundle, dest, []string{sel}, s.conf); err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("assembling pages %s: %w", sel, err)
	}
	return nil
}

// pageSelection renders a zero-based half-open range in the one-based
// inclusive form page extraction expects.
func pageSelection(r types.CertificateRange) string {
	return fmt.Sprintf("%d-%d", r.Start+1, r.End)
}
