// Copyright VeeTech Ltd., 2026. All rights reserved.

// Package organize groups output files into per-base-tag folders.
package organize

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/veetech/certsplit/pkg/types"
)

// baseTag matches the leading letters-digits pair of a tag, the part
// shared by every variant of one instrument (e.g. "FI-1805" within
// "FI-1805-3" or "PSV-0834A/B" within "PSV-0834").
var baseTag = regexp.MustCompile(`^([A-Za-z]{2,5}-\d+)`)

// Organizer computes per-certificate sub-folders when auto-foldering is
// enabled.
type Organizer struct {
	enabled bool
}

// NewOrganizer returns an Organizer. When enabled is false every
// certificate is placed flat in the destination directory.
func NewOrganizer(enabled bool) *Organizer {
	return &Organizer{enabled: enabled}
}

// Folder returns the sub-folder name for meta, or the empty string for
// flat placement. The folder is the identity's base tag with any variant
// suffix stripped; identities not shaped like a tag stay flat, so
// unidentified certificates never cluster into a meaningless folder.
func (o *Organizer) Folder(meta types.Metadata) string {
	if !o.enabled {
		return ""
	}
	identity := meta.Identity()
	if identity == "" {
		return ""
	}
	if m := baseTag.FindStringSubmatch(identity); m != nil {
		return m[1]
	}
	return ""
}

// EnsureDir creates root/folder if needed and returns the resulting
// directory. Creating an already-existing directory is not an error.
func (o *Organizer) EnsureDir(root, folder string) (string, error) {
	dir := root
	if folder != "" {
		dir = filepath.Join(root, folder)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return dir, nil
}
