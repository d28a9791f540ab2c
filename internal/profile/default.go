// Copyright VeeTech Ltd., 2026. All rights reserved.

package profile

// Default returns the built-in pattern calibration for VeeTech calibration
// and test certificate bundles. Every part of it can be overridden by
// loading a YAML profile.
func Default() *Profile {
	return &Profile{
		Anchors: []AnchorRule{
			{Label: `(?i)Recommended\s+Due\s+Date`},
			{Label: `(?i)Calibration\s+Due\s+Date`},
			{
				Label:  `(?i)(?:TEST\s+CERTIFICATE|CERTIFICATE\s+OF\s+(?:CALIBRATION|TEST|INSPECTION))`,
				Token:  `(?i)(?:Tag|Serial)\s*(?:No|Number)\.?\s*[:+]?\s*[A-Za-z0-9][A-Za-z0-9/-]*`,
				Window: 0.5,
			},
		},
		TagPatterns: []string{
			`(?i)Tag No\.?[:+\s]*([A-Za-z0-9\-/]+)`,
			`(?i)Tag Number[:+\s]*([A-Za-z0-9\-/]+)`,
		},
		SerialPatterns: []string{
			`(?i)Serial No\.?[:|+\s]*([A-Za-z0-9\-]+)`,
			`(?i)Serial number[:|+\s]*([A-Za-z0-9\-]+)`,
		},
		UnitPatterns: []string{
			`(?i)Unit ID[:\s]*([A-Za-z0-9\-]+)`,
		},
		DuePatterns: []string{
			`(?i)Recommended Due Date[^\d]*(\d{2}[./-]\d{2}[./-]\d{4})`,
			`(?i)Calibration Due Date[^\d]*(\d{2}[./-]\d{2}[./-]\d{4})`,
			`(?i)Expiry Date[^\d]*(\d{2}[./-]\d{2}[./-]\d{4})`,
		},
		TypePatterns: []string{
			`(?i)(TEST CERTIFICATE|TEST CERTIFICATH|TEST CERTIFICA'|CERTIFICATE OF CALIBRATION|CERTIFICATE OF TEST|CERTIFICATE OF INSPECTION)`,
		},
		TypeMap: map[string]string{
			"TEST CERTIFICATE":           "TestCertificate",
			"TEST CERTIFICATH":           "TestCertificate",
			"TEST CERTIFICA'":            "TestCertificate",
			"CERTIFICATE OF TEST":        "TestCertificate",
			"CERTIFICATE OF CALIBRATION": "CalibrationCertificate",
			"CERTIFICATE OF INSPECTION":  "InspectionCertificate",
		},
		DateFormats: []string{
			"02/01/2006",
			"02-01-2006",
			"02.01.2006",
		},
		DueFallbackIndex: 5,
		Corrections: []Correction{
			// Zero read as the letter O in KT-series tags.
			{Pattern: `(?i)KTOO(\d+)`, Replace: `KT00$1`},
			// The letter S read as the digit 5 between tag segments.
			{Pattern: `(\b[A-Za-z0-9]+)-([A-Za-z0-9]+)-5-([A-Za-z0-9]+)-([A-Za-z0-9]+\b)`, Replace: `$1-$2-S-$3-$4`},
			{Pattern: `(?i)TEST\s*CERTTFICATE`, Replace: `TEST CERTIFICATE`},
			// Headings split across lines by the OCR layout pass.
			{Pattern: `(?i)CERTIFICATE[\s\r\n]+OF[\s\r\n]+(CALIBRATION|TEST|INSPECTION)`, Replace: `CERTIFICATE OF $1`},
		},
	}
}
