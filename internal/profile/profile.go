// Copyright VeeTech Ltd., 2026. All rights reserved.

// Package profile holds the pattern profile: the ordered anchor rules,
// per-field regex sequences, text correction rules, date formats, and
// certificate-type table that drive boundary detection and metadata
// extraction. The profile is data, not code. Default returns the built-in
// calibration; Load reads a YAML profile so new document variants can be
// handled without touching matching logic.
package profile

import (
	"fmt"
	"os"
	"regexp"

	"go.yaml.in/yaml/v3"
)

// AnchorRule classifies a page as a certificate start. Label must match
// within the page's head window; Token, when present, must also match
// within the same window.
type AnchorRule struct {
	// Label is the field-label pattern (e.g. a due-date heading).
	Label string `yaml:"label"`

	// Token is an optional identifier-shaped pattern that must co-occur
	// with Label.
	Token string `yaml:"token,omitempty"`

	// Window is the fraction of the page text searched, from the top.
	// Zero or 1 means the whole page.
	Window float64 `yaml:"window,omitempty"`
}

// Correction is a regex replacement applied to raw page text before any
// matching, repairing known OCR artifacts.
type Correction struct {
	Pattern string `yaml:"pattern"`
	Replace string `yaml:"replace"`
}

// Profile is the serializable pattern set.
type Profile struct {
	// Anchors lists the start-page rules in priority order.
	Anchors []AnchorRule `yaml:"anchors"`

	// Per-field pattern sequences, each tried in order; the first
	// non-empty capture group wins.
	TagPatterns    []string `yaml:"tag_patterns"`
	SerialPatterns []string `yaml:"serial_patterns"`
	UnitPatterns   []string `yaml:"unit_patterns"`
	DuePatterns    []string `yaml:"due_patterns"`
	TypePatterns   []string `yaml:"type_patterns"`

	// TypeMap canonicalizes captured certificate-type text. Keys are
	// compared uppercased with whitespace collapsed.
	TypeMap map[string]string `yaml:"type_map"`

	// DateFormats lists accepted due-date layouts in Go reference-time
	// notation, tried in order.
	DateFormats []string `yaml:"date_formats"`

	// DueFallbackIndex selects the Nth date-shaped token in a range's
	// text (1-based) as the due date when no due pattern matched.
	// Zero disables the fallback.
	DueFallbackIndex int `yaml:"due_fallback_index,omitempty"`

	// Corrections lists OCR repair rules applied to page text in order.
	Corrections []Correction `yaml:"corrections,omitempty"`
}

// Load reads a YAML profile from path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	return &p, nil
}

// Write saves the profile to path as YAML.
func (p *Profile) Write(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Marshal returns the profile as YAML bytes.
func (p *Profile) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshaling profile: %w", err)
	}
	return data, nil
}

// CompiledAnchor is an AnchorRule with its patterns compiled.
type CompiledAnchor struct {
	Label  *regexp.Regexp
	Token  *regexp.Regexp
	Window float64
}

// CompiledCorrection is a Correction with its pattern compiled.
type CompiledCorrection struct {
	Pattern *regexp.Regexp
	Replace string
}

// Compiled holds the profile with every pattern compiled, ready for the
// detector and extractor.
type Compiled struct {
	Anchors []CompiledAnchor

	Tag    []*regexp.Regexp
	Serial []*regexp.Regexp
	Unit   []*regexp.Regexp
	Due    []*regexp.Regexp
	Type   []*regexp.Regexp

	TypeMap          map[string]string
	DateFormats      []string
	DueFallbackIndex int
	Corrections      []CompiledCorrection
}

// Compile compiles every pattern in the profile. Errors identify the
// offending field and pattern.
func (p *Profile) Compile() (*Compiled, error) {
	c := &Compiled{
		TypeMap:          p.TypeMap,
		DateFormats:      p.DateFormats,
		DueFallbackIndex: p.DueFallbackIndex,
	}

	for i, a := range p.Anchors {
		label, err := regexp.Compile(a.Label)
		if err != nil {
			return nil, fmt.Errorf("anchor %d: compiling label %q: %w", i, a.Label, err)
		}
		ca := CompiledAnchor{Label: label, Window: a.Window}
		if a.Token != "" {
			token, err := regexp.Compile(a.Token)
			if err != nil {
				return nil, fmt.Errorf("anchor %d: compiling token %q: %w", i, a.Token, err)
			}
			ca.Token = token
		}
		c.Anchors = append(c.Anchors, ca)
	}

	fields := []struct {
		name     string
		patterns []string
		dst      *[]*regexp.Regexp
	}{
		{"tag", p.TagPatterns, &c.Tag},
		{"serial", p.SerialPatterns, &c.Serial},
		{"unit", p.UnitPatterns, &c.Unit},
		{"due", p.DuePatterns, &c.Due},
		{"type", p.TypePatterns, &c.Type},
	}
	for _, f := range fields {
		for _, pat := range f.patterns {
			re, err := regexp.Compile(pat)
			if err != nil {
				return nil, fmt.Errorf("field %s: compiling %q: %w", f.name, pat, err)
			}
			*f.dst = append(*f.dst, re)
		}
	}

	for i, corr := range p.Corrections {
		re, err := regexp.Compile(corr.Pattern)
		if err != nil {
			return nil, fmt.Errorf("correction %d: compiling %q: %w", i, corr.Pattern, err)
		}
		c.Corrections = append(c.Corrections, CompiledCorrection{Pattern: re, Replace: corr.Replace})
	}

	return c, nil
}
