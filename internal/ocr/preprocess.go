// Copyright VeeTech Ltd., 2026. All rights reserved.

package ocr

import (
	"image"

	"github.com/disintegration/imaging"
)

// Cleanup settings tuned on photocopied certificate bundles.
const (
	contrastBoost   = 15
	sharpenStrength = 1.0
)

// preprocess runs the scan cleanup chain that improves recognition:
// grayscale, contrast boost, then a light sharpen.
func preprocess(img image.Image) *image.NRGBA {
	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, contrastBoost)
	return imaging.Sharpen(out, sharpenStrength)
}
