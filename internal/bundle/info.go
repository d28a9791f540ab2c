// Copyright VeeTech Ltd., 2026. All rights reserved.

// Package bundle inspects PDF bundles before a run starts.
package bundle

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// Info describes a bundle ahead of processing.
type Info struct {
	Path      string
	SizeBytes int64
	Pages     int
	Title     string
	Author    string
}

// Probe opens the bundle and reads its page count and document info.
// A file the parser cannot open, or one with no pages, is unreadable.
func Probe(path string) (info Info, err error) {
	// The parser panics on malformed cross reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("probing bundle %s: %v", path, r)
		}
	}()

	st, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("probing bundle: %w", err)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("opening bundle %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	info = Info{Path: path, SizeBytes: st.Size(), Pages: r.NumPage()}
	if info.Pages <= 0 {
		return Info{}, fmt.Errorf("bundle %s has no pages", path)
	}

	trailer := r.Trailer()
	if !trailer.IsNull() {
		if docInfo := trailer.Key("Info"); docInfo.Kind() == pdf.Dict {
			if v := docInfo.Key("Title"); v.Kind() == pdf.String {
				info.Title = v.RawString()
			}
			if v := docInfo.Key("Author"); v.Kind() == pdf.String {
				info.Author = v.RawString()
			}
		}
	}
	return info, nil
}
