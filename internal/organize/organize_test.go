// Copyright VeeTech Ltd., 2026. All rights reserved.

package organize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/veetech/certsplit/pkg/types"
)

func TestFolder(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		meta    types.Metadata
		want    string
	}{
		{
			name:    "plain tag is its own folder",
			enabled: true,
			meta:    types.Metadata{TagNo: "FI-1805"},
			want:    "FI-1805",
		},
		{
			name:    "variant suffix stripped",
			enabled: true,
			meta:    types.Metadata{TagNo: "FI-1805-3"},
			want:    "FI-1805",
		},
		{
			name:    "letter variant stripped",
			enabled: true,
			meta:    types.Metadata{TagNo: "PSV-0834A/B"},
			want:    "PSV-0834",
		},
		{
			name:    "serial identity not tag shaped stays flat",
			enabled: true,
			meta:    types.Metadata{SerialNo: "88412-C"},
			want:    "",
		},
		{
			name:    "unidentified certificate stays flat",
			enabled: true,
			meta:    types.Metadata{},
			want:    "",
		},
		{
			name:    "disabled organizer always flat",
			enabled: false,
			meta:    types.Metadata{TagNo: "FI-1805"},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOrganizer(tt.enabled)
			if got := o.Folder(tt.meta); got != tt.want {
				t.Errorf("Folder() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFolderGroupsVariants(t *testing.T) {
	o := NewOrganizer(true)
	variants := []types.Metadata{
		{TagNo: "FI-1805"},
		{TagNo: "FI-1805-1"},
		{TagNo: "FI-1805-2"},
	}
	for _, m := range variants {
		if got := o.Folder(m); got != "FI-1805" {
			t.Errorf("Folder(%q) = %q, want FI-1805", m.TagNo, got)
		}
	}
}

func TestEnsureDir(t *testing.T) {
	root := t.TempDir()
	o := NewOrganizer(true)

	dir, err := o.EnsureDir(root, "FI-1805")
	if err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if dir != filepath.Join(root, "FI-1805") {
		t.Errorf("EnsureDir dir = %q", dir)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("created directory missing: %v", err)
	}

	// Idempotent: creating the same folder again is not an error.
	if _, err := o.EnsureDir(root, "FI-1805"); err != nil {
		t.Errorf("EnsureDir second call: %v", err)
	}
}

func TestEnsureDirFlat(t *testing.T) {
	root := t.TempDir()
	o := NewOrganizer(false)

	dir, err := o.EnsureDir(root, "")
	if err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if dir != root {
		t.Errorf("EnsureDir flat dir = %q, want %q", dir, root)
	}
}
