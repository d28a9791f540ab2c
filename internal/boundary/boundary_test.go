// Copyright VeeTech Ltd., 2026. All rights reserved.

package boundary

import (
	"reflect"
	"testing"

	"github.com/veetech/certsplit/internal/profile"
	"github.com/veetech/certsplit/pkg/types"
)

const startText = "VeeTech Ltd.\nTEST CERTIFICATE\nTag No: FI-1805\nRecommended Due Date: 15/03/2025"

func defaultDetector(t *testing.T) *Detector {
	t.Helper()
	c, err := profile.Default().Compile()
	if err != nil {
		t.Fatalf("compiling default profile: %v", err)
	}
	return NewDetector(c.Anchors, 0.40)
}

// pages builds a page sequence from per-page text and confidence.
func pages(specs ...types.Page) []types.Page {
	out := make([]types.Page, len(specs))
	for i, s := range specs {
		out[i] = types.Page{Index: i, Text: s.Text, Confidence: s.Confidence}
	}
	return out
}

func page(text string, confidence float64) types.Page {
	return types.Page{Text: text, Confidence: confidence}
}

// checkPartition verifies the ranges are sorted, contiguous, gap-free over
// [0,n), and cover exactly n pages.
func checkPartition(t *testing.T, ranges []types.CertificateRange, n int) {
	t.Helper()
	if len(ranges) == 0 {
		t.Fatalf("no ranges for %d pages", n)
	}
	if ranges[0].Start != 0 {
		t.Errorf("first range starts at %d, want 0", ranges[0].Start)
	}
	if ranges[len(ranges)-1].End != n {
		t.Errorf("last range ends at %d, want %d", ranges[len(ranges)-1].End, n)
	}
	covered := 0
	for i, r := range ranges {
		if r.Start >= r.End {
			t.Errorf("range %d is empty or inverted: [%d,%d)", i, r.Start, r.End)
		}
		if i > 0 && ranges[i-1].End != r.Start {
			t.Errorf("gap or overlap between range %d and %d: end %d, next start %d",
				i-1, i, ranges[i-1].End, r.Start)
		}
		covered += r.Pages()
	}
	if covered != n {
		t.Errorf("ranges cover %d pages, want %d", covered, n)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		pages []types.Page
		want  []types.CertificateRange
	}{
		{
			name: "alternating starts split a six page bundle",
			pages: pages(
				page(startText, 0.9),
				page("continuation results table", 0.9),
				page(startText, 0.9),
				page("continuation results table", 0.9),
				page(startText, 0.9),
				page("continuation results table", 0.9),
			),
			want: []types.CertificateRange{{Start: 0, End: 2}, {Start: 2, End: 4}, {Start: 4, End: 6}},
		},
		{
			name: "no start pages yield a single range",
			pages: pages(
				page("handwritten cover sheet", 0.8),
				page("gauge readings", 0.8),
				page("signatures", 0.8),
			),
			want: []types.CertificateRange{{Start: 0, End: 3}},
		},
		{
			name: "first page opens the run without an anchor",
			pages: pages(
				page("unlabeled first certificate page", 0.9),
				page(startText, 0.9),
			),
			want: []types.CertificateRange{{Start: 0, End: 1}, {Start: 1, End: 2}},
		},
		{
			name: "adjacent starts produce one page ranges",
			pages: pages(
				page(startText, 0.9),
				page(startText, 0.9),
				page(startText, 0.9),
			),
			want: []types.CertificateRange{{Start: 0, End: 1}, {Start: 1, End: 2}, {Start: 2, End: 3}},
		},
		{
			name: "single page bundle",
			pages: pages(
				page(startText, 0.9),
			),
			want: []types.CertificateRange{{Start: 0, End: 1}},
		},
	}

	d := defaultDetector(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.pages)
			checkPartition(t, got, len(tt.pages))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectEmpty(t *testing.T) {
	d := defaultDetector(t)
	if got := d.Detect(nil); got != nil {
		t.Errorf("Detect(nil) = %v, want nil", got)
	}
}

func TestDetectDeterministic(t *testing.T) {
	d := defaultDetector(t)
	in := pages(
		page(startText, 0.9),
		page("body", 0.9),
		page(startText, 0.9),
		page("body", 0.3),
	)
	first := d.Detect(in)
	second := d.Detect(in)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated Detect differs: %v vs %v", first, second)
	}
}

func TestLowConfidenceNeverStarts(t *testing.T) {
	d := defaultDetector(t)

	// A page that matches the strongest anchor but sits below the
	// confidence floor must continue the current certificate.
	in := pages(
		page(startText, 0.9),
		page("body", 0.9),
		page(startText, 0.39),
		page("body", 0.9),
	)
	got := d.Detect(in)
	want := []types.CertificateRange{{Start: 0, End: 4}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Detect() = %v, want %v", got, want)
	}

	if d.IsStart(types.Page{Index: 1, Text: startText, Confidence: 0}) {
		t.Error("zero-confidence page classified as start")
	}
}

func TestIsStartAnchors(t *testing.T) {
	d := defaultDetector(t)

	tests := []struct {
		name string
		page types.Page
		want bool
	}{
		{
			name: "due date label anywhere on the page",
			page: page("...results...\n\nRecommended Due Date: 01/01/2025", 0.9),
			want: true,
		},
		{
			name: "calibration due date variant",
			page: page("Calibration Due Date 02-03-2026", 0.9),
			want: true,
		},
		{
			name: "heading with tag token in the head",
			page: page("CERTIFICATE OF CALIBRATION\nTag No: PT-1002\nas found and as left readings follow here", 0.9),
			want: true,
		},
		{
			name: "heading without identifier token",
			page: page("CERTIFICATE OF CALIBRATION\nissued by the laboratory quality system under ISO 17025 accreditation scope", 0.9),
			want: false,
		},
		{
			name: "plain continuation page",
			page: page("as found / as left readings", 0.9),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.page.Index = 1
			if got := d.IsStart(tt.page); got != tt.want {
				t.Errorf("IsStart() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHeadWindow(t *testing.T) {
	text := "aaaa bbbb cccc dddd"

	tests := []struct {
		name string
		frac float64
		want string
	}{
		{"zero selects all", 0, text},
		{"one selects all", 1, text},
		{"half selects the head", 0.5, "aaaa bbbb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := headWindow(text, tt.frac); got != tt.want {
				t.Errorf("headWindow(%v) = %q, want %q", tt.frac, got, tt.want)
			}
		})
	}
}
