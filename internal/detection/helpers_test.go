package detection

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/mockframe/regiondetect/internal/imaging"
	"github.com/mockframe/regiondetect/internal/region"
)

// testInput wraps an image into the representation detectors consume.
func testInput(img image.Image) *Input {
	bounds := img.Bounds()
	flat := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(flat, flat.Bounds(), img, bounds.Min, draw.Src)
	return &Input{Image: flat, Gray: imaging.FromImage(flat)}
}

// uniformImage creates a width×height image filled with one color.
func uniformImage(width, height int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

// framedRectImage creates a white image with a black border of the given
// thickness drawn just inside rect. The interior stays white, like a
// mockup template with an empty picture frame.
func framedRectImage(width, height int, rect image.Rectangle, thickness int) *image.NRGBA {
	img := uniformImage(width, height, color.White)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			onBorder := x < rect.Min.X+thickness || x >= rect.Max.X-thickness ||
				y < rect.Min.Y+thickness || y >= rect.Max.Y-thickness
			if onBorder {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

// patchImage creates a white image with one solid colored rectangle.
func patchImage(width, height int, rect image.Rectangle, c color.Color) *image.NRGBA {
	img := uniformImage(width, height, color.White)
	draw.Draw(img, rect, &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

// rectRegion converts an image.Rectangle into a Region for IoU checks.
func rectRegion(r image.Rectangle) region.Region {
	return region.New(float64(r.Min.X), float64(r.Min.Y),
		float64(r.Dx()), float64(r.Dy()), 1.0, "expected")
}

// bestIoU returns the highest IoU any candidate achieves against want.
func bestIoU(candidates []region.Region, want region.Region) float64 {
	best := 0.0
	for _, c := range candidates {
		if iou := c.IoU(want); iou > best {
			best = iou
		}
	}
	return best
}
