// Copyright VeeTech Ltd., 2026. All rights reserved.

// Package boundary partitions a bundle's page sequence into contiguous
// certificate ranges by classifying start pages against anchor rules.
package boundary

import (
	"unicode/utf8"

	"github.com/veetech/certsplit/internal/profile"
	"github.com/veetech/certsplit/pkg/types"
)

// Detector classifies certificate start pages. A page opens a new
// certificate when any anchor rule matches within its window; a page whose
// OCR confidence is below the minimum never opens one, so low-confidence
// pages always continue the current certificate.
type Detector struct {
	anchors       []profile.CompiledAnchor
	minConfidence float64
}

// NewDetector returns a Detector over the given anchor rules.
func NewDetector(anchors []profile.CompiledAnchor, minConfidence float64) *Detector {
	return &Detector{anchors: anchors, minConfidence: minConfidence}
}

// Detect partitions [0,N) into certificate ranges. The result is sorted,
// contiguous, and gap-free: the first range starts at 0 whether or not
// page 0 matches an anchor, and each later start page opens a new range.
// A bundle with no matching page after index 0 yields a single range.
// Returns nil for an empty page sequence.
func (d *Detector) Detect(pages []types.Page) []types.CertificateRange {
	if len(pages) == 0 {
		return nil
	}

	starts := []int{0}
	for i := 1; i < len(pages); i++ {
		if d.IsStart(pages[i]) {
			starts = append(starts, i)
		}
	}

	ranges := make([]types.CertificateRange, 0, len(starts))
	for k, start := range starts {
		end := len(pages)
		if k+1 < len(starts) {
			end = starts[k+1]
		}
		ranges = append(ranges, types.CertificateRange{Start: start, End: end})
	}
	return ranges
}

// IsStart reports whether the page is classified as a certificate start.
func (d *Detector) IsStart(p types.Page) bool {
	if p.Confidence < d.minConfidence {
		return false
	}
	for _, a := range d.anchors {
		window := headWindow(p.Text, a.Window)
		if !a.Label.MatchString(window) {
			continue
		}
		if a.Token != nil && !a.Token.MatchString(window) {
			continue
		}
		return true
	}
	return false
}

// headWindow returns the leading fraction of text, extended to the next
// rune boundary. Fractions outside (0,1) select the whole text.
func headWindow(text string, frac float64) string {
	if frac <= 0 || frac >= 1 {
		return text
	}
	cut := int(float64(len(text)) * frac)
	for cut < len(text) && !utf8.RuneStart(text[cut]) {
		cut++
	}
	return text[:cut]
}
