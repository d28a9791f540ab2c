// Copyright VeeTech Ltd., 2026. All rights reserved.

// Package types defines the data model shared across the certsplit pipeline
// stages: pages, certificate ranges, metadata records, output records, and
// the per-stage configuration structs.
package types

import "time"

// CertStatus indicates the outcome of one certificate's processing.
type CertStatus string

const (
	// CertWritten means the output PDF was assembled at its final path.
	CertWritten CertStatus = "written"

	// CertFailed means assembly failed; the record carries the reason.
	CertFailed CertStatus = "failed"

	// CertPlanned means a dry run resolved the name and folder but wrote nothing.
	CertPlanned CertStatus = "planned"
)

// Page holds the extracted text and OCR confidence for one bundle page.
// Pages are immutable once produced and ordered by Index; Index is the
// sole identity.
type Page struct {
	// Index is the zero-based page position within the bundle.
	Index int `json:"index" yaml:"index"`

	// Text is the extracted page text after correction rules are applied.
	// Empty when extraction failed for this page.
	Text string `json:"text" yaml:"text"`

	// Confidence is the OCR confidence in [0,1]. Zero when extraction
	// failed or the page carried no recognizable words.
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// CertificateRange is a contiguous, end-exclusive page range [Start,End)
// holding one certificate. The set of ranges produced for a bundle of N
// pages partitions [0,N): sorted by Start, contiguous, first Start is 0,
// last End is N.
type CertificateRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Pages returns the number of pages covered by the range.
func (r CertificateRange) Pages() int {
	return r.End - r.Start
}

// Metadata holds the fields extracted from one certificate's pages. All
// fields are optional; the empty string and the zero time mean unset.
// Absence is a valid terminal state, not an error.
type Metadata struct {
	// TagNo is the instrument tag number (e.g. "FI-1805").
	TagNo string `json:"tag_no,omitempty" yaml:"tag_no,omitempty"`

	// SerialNo is the manufacturer serial number.
	SerialNo string `json:"serial_no,omitempty" yaml:"serial_no,omitempty"`

	// UnitID is the plant unit identifier.
	UnitID string `json:"unit_id,omitempty" yaml:"unit_id,omitempty"`

	// DueDate is the next calibration or inspection due date.
	DueDate time.Time `json:"due_date,omitempty" yaml:"due_date,omitempty"`

	// CertType is the canonicalized certificate type (e.g. "TestCertificate").
	CertType string `json:"cert_type,omitempty" yaml:"cert_type,omitempty"`
}

// Identity returns the first set field in priority order tag number,
// serial number, unit ID, or the empty string when all three are unset.
func (m Metadata) Identity() string {
	switch {
	case m.TagNo != "":
		return m.TagNo
	case m.SerialNo != "":
		return m.SerialNo
	case m.UnitID != "":
		return m.UnitID
	}
	return ""
}

// OutputRecord is the per-certificate outcome: where the certificate's
// pages came from, what was extracted, and where the output landed.
type OutputRecord struct {
	// Range is the page range this certificate occupies in the bundle.
	Range CertificateRange `json:"range" yaml:"range"`

	// Meta is the metadata extracted from the range's pages.
	Meta Metadata `json:"meta" yaml:"meta"`

	// Filename is the final output file name including the .pdf extension.
	Filename string `json:"filename" yaml:"filename"`

	// Folder is the sub-folder under the output directory, empty for flat
	// placement.
	Folder string `json:"folder,omitempty" yaml:"folder,omitempty"`

	// Path is the full destination path of the output file.
	Path string `json:"path" yaml:"path"`

	// Status records the outcome for this certificate.
	Status CertStatus `json:"status" yaml:"status"`

	// Err holds the failure reason when Status is CertFailed.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`
}
