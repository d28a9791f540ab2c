// Copyright VeeTech Ltd., 2026. All rights reserved.

// Package metadata extracts certificate fields from a range's page texts
// by applying the profile's ordered pattern sequences.
package metadata

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/veetech/certsplit/internal/profile"
	"github.com/veetech/certsplit/pkg/types"
)

// Extractor applies field patterns to a certificate's pages.
type Extractor struct {
	p *profile.Compiled
}

// NewExtractor returns an Extractor over the compiled profile.
func NewExtractor(p *profile.Compiled) *Extractor {
	return &Extractor{p: p}
}

// Extract scans the range's page texts in page order and returns the
// metadata record. Fields are extracted independently: for each field the
// pattern sequence runs against each page in order and the first non-empty
// capture wins; a field matched nowhere is left unset. A captured due date
// that fits no accepted format leaves the field unset.
func (e *Extractor) Extract(texts []string) types.Metadata {
	return types.Metadata{
		TagNo:    repairTag(cleanValue(firstCapture(e.p.Tag, texts))),
		SerialNo: cleanValue(firstCapture(e.p.Serial, texts)),
		UnitID:   cleanValue(firstCapture(e.p.Unit, texts)),
		CertType: e.canonicalType(firstCapture(e.p.Type, texts)),
		DueDate:  e.dueDate(texts),
	}
}

// firstCapture returns the first non-empty capture group produced by any
// pattern, scanning pages in order and patterns in sequence within a page.
func firstCapture(patterns []*regexp.Regexp, texts []string) string {
	for _, text := range texts {
		for _, re := range patterns {
			if m := re.FindStringSubmatch(text); len(m) > 1 && m[1] != "" {
				return strings.TrimSpace(m[1])
			}
		}
	}
	return ""
}

// cleanValue drops captures that are placeholders rather than values.
func cleanValue(v string) string {
	if strings.EqualFold(v, "N/A") || strings.EqualFold(v, "NA") {
		return ""
	}
	return v
}

var (
	// Tag captures where OCR read the hyphen-zero pair as the letter O,
	// e.g. "PSVO834" for "PSV-0834". Checked before the plain missing
	// hyphen form so the O is not swallowed by the letter prefix.
	tagHyphenZero = regexp.MustCompile(`^([A-Za-z]{2,5})O(\d+)$`)

	// Tag captures missing only the hyphen, e.g. "FI1805" for "FI-1805".
	tagHyphen = regexp.MustCompile(`^([A-Za-z]{2,5})(\d+)$`)
)

func repairTag(v string) string {
	if m := tagHyphenZero.FindStringSubmatch(v); m != nil {
		return m[1] + "-0" + m[2]
	}
	if m := tagHyphen.FindStringSubmatch(v); m != nil {
		return m[1] + "-" + m[2]
	}
	return v
}

var whitespace = regexp.MustCompile(`\s+`)

// canonicalType normalizes a captured certificate type: whitespace is
// collapsed, the type table maps known headings to their canonical names,
// and unmapped headings become de-spaced title case.
func (e *Extractor) canonicalType(raw string) string {
	if raw == "" {
		return ""
	}
	collapsed := whitespace.ReplaceAllString(strings.TrimSpace(raw), " ")
	if canon, ok := e.p.TypeMap[strings.ToUpper(collapsed)]; ok {
		return canon
	}
	var b strings.Builder
	for _, w := range strings.Fields(strings.ToLower(collapsed)) {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

func (e *Extractor) dueDate(texts []string) time.Time {
	if raw := firstCapture(e.p.Due, texts); raw != "" {
		return e.parseDate(raw)
	}
	return e.fallbackDate(texts)
}

func (e *Extractor) parseDate(s string) time.Time {
	for _, layout := range e.p.DateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

var dateToken = regexp.MustCompile(`\b\d{2}/\d{2}/\d{4}\b`)

// fallbackDate returns the profile-selected Nth date-shaped token across
// the range's text. Calibration sheets list issue and as-found check dates
// before the due date, so the due date sits at a stable position when its
// label was lost to OCR.
func (e *Extractor) fallbackDate(texts []string) time.Time {
	n := e.p.DueFallbackIndex
	if n <= 0 {
		return time.Time{}
	}
	seen := 0
	for _, text := range texts {
		for _, tok := range dateToken.FindAllString(text, -1) {
			seen++
			if seen == n {
				return e.parseDate(tok)
			}
		}
	}
	return time.Time{}
}
