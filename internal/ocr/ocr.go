// Copyright VeeTech Ltd., 2026. All rights reserved.

// Package ocr turns a PDF bundle into per-page text with recognition
// confidence. Pages are rendered sequentially through MuPDF and recognized
// in parallel by per-task Tesseract clients.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"strings"
	"sync/atomic"

	fitz "github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/veetech/certsplit/pkg/types"
)

// Source reads pages out of one PDF bundle.
type Source struct {
	doc  *fitz.Document
	path string
	cfg  types.OCRConfig
	norm *Normalizer
	log  *zap.Logger
}

// Open loads the bundle at path. Close must be called when done.
func Open(path string, cfg types.OCRConfig, norm *Normalizer, log *zap.Logger) (*Source, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening bundle %s: %w", path, err)
	}
	return &Source{doc: doc, path: path, cfg: cfg, norm: norm, log: log}, nil
}

// Close releases the underlying document.
func (s *Source) Close() error {
	return s.doc.Close()
}

// PageCount reports the number of pages in the bundle.
func (s *Source) PageCount() int {
	return s.doc.NumPage()
}

// ExtractAll produces text for every page, in page order. Rendering happens
// on the calling goroutine; the document handle is not safe for concurrent
// use. Recognition fans out across the configured worker count. A page that
// cannot be rendered or recognized yields empty text with zero confidence
// and the run continues. report, when non-nil, is called after each page
// completes and must be safe for concurrent use.
func (s *Source) ExtractAll(ctx context.Context, report func(done, total int)) ([]types.Page, error) {
	total := s.doc.NumPage()
	pages := make([]types.Page, total)
	for i := range pages {
		pages[i].Index = i
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())

	var done atomic.Int64
	step := func() {
		if report != nil {
			report(int(done.Add(1)), total)
		}
	}

	for i := 0; i < total; i++ {
		if gctx.Err() != nil {
			break
		}

		if s.cfg.TextLayer {
			if text, err := s.doc.Text(i); err == nil && strings.TrimSpace(text) != "" {
				pages[i].Text = s.norm.Normalize(text)
				pages[i].Confidence = 1
				step()
				continue
			}
		}

		img, err := s.doc.ImageDPI(i, s.cfg.DPI)
		if err != nil {
			s.log.Warn("page render failed, continuing with empty text",
				zap.Int("page", i), zap.Error(err))
			step()
			continue
		}

		g.Go(func() error {
			defer step()
			text, conf, err := s.recognize(img)
			if err != nil {
				s.log.Warn("page recognition failed, continuing with empty text",
					zap.Int("page", i), zap.Error(err))
				return nil
			}
			pages[i].Text = s.norm.Normalize(text)
			pages[i].Confidence = conf
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return pages, nil
}

func (s *Source) workers() int {
	if s.cfg.Workers > 0 {
		return s.cfg.Workers
	}
	return 1
}

// recognize runs one Tesseract pass over a rendered page image. Every call
// gets its own client; gosseract clients are not safe for concurrent use.
func (s *Source) recognize(img image.Image) (string, float64, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if len(s.cfg.Languages) > 0 {
		if err := client.SetLanguage(strings.Join(s.cfg.Languages, "+")); err != nil {
			return "", 0, fmt.Errorf("setting language: %w", err)
		}
	}

	in := img
	if s.cfg.Preprocess {
		in = preprocess(img)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, in, &jpeg.Options{Quality: 95}); err != nil {
		return "", 0, fmt.Errorf("encoding page image: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", 0, fmt.Errorf("loading page image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("recognizing text: %w", err)
	}
	return text, meanConfidence(client), nil
}

// meanConfidence averages Tesseract's per-word confidences onto a 0..1
// scale. A page with no recognized words reports zero.
func meanConfidence(client *gosseract.Client) float64 {
	boxes, err := client.GetBoundingBoxesVerbose()
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence
	}
	return sum / float64(len(boxes)) / 100
}
