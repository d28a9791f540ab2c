// Copyright VeeTech Ltd., 2026. All rights reserved.

package naming

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/veetech/certsplit/pkg/types"
)

var runDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestGenerateIdentityFallback(t *testing.T) {
	due := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		meta types.Metadata
		want string
	}{
		{
			name: "tag number first",
			meta: types.Metadata{TagNo: "FI-1805", SerialNo: "88412", UnitID: "U-1", DueDate: due},
			want: "20250315_FI-1805",
		},
		{
			name: "serial when tag unset",
			meta: types.Metadata{SerialNo: "88412", UnitID: "U-1", DueDate: due},
			want: "20250315_88412",
		},
		{
			name: "unit when tag and serial unset",
			meta: types.Metadata{UnitID: "U-1", DueDate: due},
			want: "20250315_U-1",
		},
		{
			name: "placeholder when all identity fields unset",
			meta: types.Metadata{DueDate: due},
			want: "20250315_UNKNOWN",
		},
		{
			name: "run date when due date unset",
			meta: types.Metadata{TagNo: "FI-1805"},
			want: "20240101_FI-1805",
		},
		{
			name: "type segment appended when set",
			meta: types.Metadata{TagNo: "FI-1805", CertType: "TestCertificate", DueDate: due},
			want: "20250315_FI-1805_TestCertificate",
		},
		{
			name: "slash in identity becomes dash",
			meta: types.Metadata{TagNo: "PSV-0834A/B", DueDate: due},
			want: "20250315_PSV-0834A-B",
		},
	}

	g := NewGenerator("UNKNOWN", runDate)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Generate(tt.meta, NewRunState())
			if got != tt.want {
				t.Errorf("Generate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateDedup(t *testing.T) {
	g := NewGenerator("UNKNOWN", runDate)
	state := NewRunState()
	meta := types.Metadata{TagNo: "TAG1"}

	names := []string{
		g.Generate(meta, state),
		g.Generate(meta, state),
		g.Generate(meta, state),
	}

	want := []string{"20240101_TAG1", "20240101_TAG1_1", "20240101_TAG1_2"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("allocation %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestGenerateDedupSkipsReservedSuffix(t *testing.T) {
	g := NewGenerator("UNKNOWN", runDate)
	state := NewRunState()

	// A seeded _1 name must not be handed out again.
	state.allocated["20240101_TAG1"] = struct{}{}
	state.allocated["20240101_TAG1_1"] = struct{}{}

	got := g.Generate(types.Metadata{TagNo: "TAG1"}, state)
	if got != "20240101_TAG1_2" {
		t.Errorf("Generate() = %q, want %q", got, "20240101_TAG1_2")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	metas := []types.Metadata{
		{TagNo: "TAG1"},
		{TagNo: "TAG1"},
		{SerialNo: "900"},
		{TagNo: "TAG1"},
		{},
	}

	g := NewGenerator("UNKNOWN", runDate)
	run := func() []string {
		state := NewRunState()
		out := make([]string, len(metas))
		for i, m := range metas {
			out[i] = g.Generate(m, state)
		}
		return out
	}

	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("allocation %d differs between runs: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestSeedFromDir(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "FI-1805")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{
		filepath.Join(dir, "20240101_TAG1.pdf"),
		filepath.Join(sub, "20240101_FI-1805.PDF"),
		filepath.Join(dir, "notes.txt"),
	} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	state := NewRunState()
	if err := state.SeedFromDir(dir); err != nil {
		t.Fatalf("SeedFromDir: %v", err)
	}

	g := NewGenerator("UNKNOWN", runDate)
	if got := g.Generate(types.Metadata{TagNo: "TAG1"}, state); got != "20240101_TAG1_1" {
		t.Errorf("seeded flat name: Generate() = %q, want %q", got, "20240101_TAG1_1")
	}
	if got := g.Generate(types.Metadata{TagNo: "FI-1805"}, state); got != "20240101_FI-1805_1" {
		t.Errorf("seeded foldered name: Generate() = %q, want %q", got, "20240101_FI-1805_1")
	}
	if got := g.Generate(types.Metadata{TagNo: "PT-1002"}, state); got != "20240101_PT-1002" {
		t.Errorf("unseeded name: Generate() = %q, want %q", got, "20240101_PT-1002")
	}
}

func TestSeedFromDirMissing(t *testing.T) {
	state := NewRunState()
	if err := state.SeedFromDir(filepath.Join(t.TempDir(), "absent")); err != nil {
		t.Errorf("SeedFromDir on missing dir: %v", err)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean tag unchanged", "FI-1805", "FI-1805"},
		{"slash becomes dash", "PSV-0834A/B", "PSV-0834A-B"},
		{"spaces become dashes", "TEST CERT 2024", "TEST-CERT-2024"},
		{"reserved characters dropped", `KT:"00*42?`, "KT0042"},
		{"dash runs collapse", "A--B---C", "A-B-C"},
		{"trimmed at the edges", "-FI-1805-", "FI-1805"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
