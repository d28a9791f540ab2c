// Copyright VeeTech Ltd., 2026. All rights reserved.

package ocr

import (
	"regexp"
	"strings"

	"github.com/veetech/certsplit/internal/profile"
)

// tagToken matches tag-shaped identifiers: a short uppercase prefix
// followed by dash or slash separated segments.
var tagToken = regexp.MustCompile(`\b[A-Z]{2,5}(?:[-/][A-Za-z0-9]{1,10})+\b`)

// Normalizer repairs known OCR misreads in page text before the detector
// and extractor run their patterns over it.
type Normalizer struct {
	corrections []profile.CompiledCorrection
}

// NewNormalizer builds a Normalizer from a compiled profile's correction
// rules.
func NewNormalizer(p *profile.Compiled) *Normalizer {
	return &Normalizer{corrections: p.Corrections}
}

// Normalize applies the correction rules in order, then repairs letter O
// misreads inside tag-shaped identifiers.
func (n *Normalizer) Normalize(text string) string {
	for _, c := range n.corrections {
		text = c.Pattern.ReplaceAllString(text, c.Replace)
	}
	return tagToken.ReplaceAllStringFunc(text, repairTagToken)
}

// repairTagToken replaces the letter O with the digit 0 in tag segments
// that also carry digits. Segments without digits keep their letters.
func repairTagToken(tok string) string {
	var out, seg strings.Builder
	flush := func() {
		s := seg.String()
		if strings.ContainsAny(s, "0123456789") && strings.Contains(s, "O") {
			s = strings.ReplaceAll(s, "O", "0")
		}
		out.WriteString(s)
		seg.Reset()
	}
	for _, r := range tok {
		if r == '-' || r == '/' {
			flush()
			out.WriteRune(r)
			continue
		}
		seg.WriteRune(r)
	}
	flush()
	return out.String()
}
