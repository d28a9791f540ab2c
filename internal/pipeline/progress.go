// Copyright VeeTech Ltd., 2026. All rights reserved.

package pipeline

import "github.com/veetech/certsplit/pkg/types"

// Progress receives run milestones as they happen. Implementations must be
// safe for concurrent use; page extraction reports from worker goroutines.
type Progress interface {
	// ExtractionStarted announces the page count before extraction begins.
	ExtractionStarted(totalPages int)

	// PageDone reports page extraction progress.
	PageDone(done, total int)

	// RangesDetected announces the certificate count after detection.
	RangesDetected(count int)

	// CertificateDone reports one certificate's outcome as it is recorded.
	CertificateDone(rec types.OutputRecord)
}

// NopProgress discards all events.
type NopProgress struct{}

func (NopProgress) ExtractionStarted(int)              {}
func (NopProgress) PageDone(int, int)                  {}
func (NopProgress) RangesDetected(int)                 {}
func (NopProgress) CertificateDone(types.OutputRecord) {}
