// Copyright VeeTech Ltd., 2026. All rights reserved.

package assemble

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/veetech/certsplit/pkg/types"
)

func TestPageSelection(t *testing.T) {
	tests := []struct {
		r    types.CertificateRange
		want string
	}{
		{types.CertificateRange{Start: 0, End: 2}, "1-2"},
		{types.CertificateRange{Start: 2, End: 4}, "3-4"},
		{types.CertificateRange{Start: 4, End: 5}, "5-5"},
		{types.CertificateRange{Start: 0, End: 1}, "1-1"},
	}
	for _, tt := range tests {
		if got := pageSelection(tt.r); got != tt.want {
			t.Errorf("pageSelection(%+v) = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func TestAssembleCancelled(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "bundle.pdf"), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dest := filepath.Join(dir, "out.pdf")
	err := s.Assemble(ctx, types.CertificateRange{Start: 0, End: 1}, dest)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Assemble after cancel = %v, want context.Canceled", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Errorf("cancelled Assemble left a file behind")
	}
}

func TestAssembleMissingBundle(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "absent.pdf"), zap.NewNop())

	dest := filepath.Join(dir, "out.pdf")
	err := s.Assemble(context.Background(), types.CertificateRange{Start: 0, End: 1}, dest)
	if err == nil {
		t.Fatal("Assemble on a missing bundle should fail")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Errorf("failed Assemble left a file behind")
	}
}

func TestPageCountMissingBundle(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "absent.pdf"), zap.NewNop())
	if _, err := s.PageCount(); err == nil {
		t.Fatal("PageCount on a missing bundle should fail")
	}
}
