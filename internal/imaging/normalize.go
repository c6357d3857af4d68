package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Normalize prepares an arbitrary decoded image for detection.
//
// The image is validated against the dimension bounds, composited over a
// white background so transparency cannot masquerade as content, and
// downscaled with Lanczos resampling when its longer side exceeds maxDim.
//
// The returned scale is the factor that was applied to the original
// coordinates, 1.0 when no downscaling happened. Callers map detected
// coordinates back to the original image by dividing by it.
func Normalize(img image.Image, minDim, maxDim int) (*image.NRGBA, float64, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width < minDim || height < minDim {
		return nil, 0, fmt.Errorf("image dimensions %dx%d below minimum %d", width, height, minDim)
	}

	// Flatten any alpha onto white before measuring intensities.
	flat := imaging.Overlay(imaging.New(width, height, color.White), img, image.Pt(0, 0), 1.0)

	longest := width
	if height > longest {
		longest = height
	}
	if longest <= maxDim {
		return flat, 1.0, nil
	}

	scale := float64(maxDim) / float64(longest)
	newW := int(math.Round(float64(width) * scale))
	newH := int(math.Round(float64(height) * scale))
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	return imaging.Resize(flat, newW, newH, imaging.Lanczos), scale, nil
}

// Downsample shrinks an image by the given factor in (0, 1] using box
// (area-averaging) resampling, the appropriate filter for reduction.
func Downsample(img image.Image, factor float64) *image.NRGBA {
	bounds := img.Bounds()
	if factor >= 1 || factor <= 0 {
		return imaging.Clone(img)
	}
	newW := int(math.Round(float64(bounds.Dx()) * factor))
	newH := int(math.Round(float64(bounds.Dy()) * factor))
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	return imaging.Resize(img, newW, newH, imaging.Box)
}
