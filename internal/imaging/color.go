package imaging

import (
	"image"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// ColorPlanes holds per-channel float planes of one image in the color
// spaces the uniform-region analysis works in.
//
// Lab channels use the 8-bit convention: L spans [0, 255] and A/B are
// centered on 128, so chromaticity thresholds written against that scale
// apply directly. HueSin and HueCos encode hue as a point on the unit
// circle; their local variance measures hue spread without the wraparound
// artifact a raw angle plane would have. Chromatic marks pixels saturated
// and bright enough for hue to be meaningful at all.
type ColorPlanes struct {
	L *Gray // lightness, [0, 255]
	A *Gray // green-red axis, 128-centered
	B *Gray // blue-yellow axis, 128-centered

	HueSin *Gray // sin of hue angle, [-1, 1]
	HueCos *Gray // cos of hue angle, [-1, 1]

	Chromatic *Mask // saturation and value above the given floors
}

// NewColorPlanes converts an image into analysis planes.
//
// minSat and minVal are floors in [0, 1] below which a pixel is treated as
// achromatic (excluded from Chromatic). Conversions go through go-colorful,
// which assumes sRGB input; that matches images decoded by the standard
// library.
func NewColorPlanes(img image.Image, minSat, minVal float64) *ColorPlanes {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	p := &ColorPlanes{
		L:         NewGray(width, height),
		A:         NewGray(width, height),
		B:         NewGray(width, height),
		HueSin:    NewGray(width, height),
		HueCos:    NewGray(width, height),
		Chromatic: NewMask(width, height),
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			c := colorful.Color{
				R: float64(r) / 65535,
				G: float64(g) / 65535,
				B: float64(b) / 65535,
			}

			l, la, lb := c.Lab()
			i := y*width + x
			p.L.Pix[i] = l * 255
			p.A.Pix[i] = la*127 + 128
			p.B.Pix[i] = lb*127 + 128

			h, s, v := c.Hsv()
			rad := h * math.Pi / 180
			p.HueSin.Pix[i] = math.Sin(rad)
			p.HueCos.Pix[i] = math.Cos(rad)
			if s > minSat && v > minVal {
				p.Chromatic.Bits[i] = true
			}
		}
	}
	return p
}

// DominantColors finds the most frequent colors in an image by bucket
// quantization.
//
// Each channel is quantized to 32-value steps, pixels are counted per
// bucket, and the top count buckets are returned most-frequent first. The
// result is deterministic for a given image, which is what the clustering
// fallback path relies on.
func DominantColors(img image.Image, count int) []RGBColor {
	bounds := img.Bounds()
	freq := make(map[RGBColor]int)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			q := RGBColor{
				R: uint8(r>>8) / 32 * 32,
				G: uint8(g>>8) / 32 * 32,
				B: uint8(b>>8) / 32 * 32,
			}
			freq[q]++
		}
	}

	colors := make([]RGBColor, 0, len(freq))
	for c := range freq {
		colors = append(colors, c)
	}
	// Order by frequency, breaking ties by channel value so the result
	// does not depend on map iteration order.
	sort.Slice(colors, func(i, j int) bool {
		fi, fj := freq[colors[i]], freq[colors[j]]
		if fi != fj {
			return fi > fj
		}
		ci, cj := colors[i], colors[j]
		if ci.R != cj.R {
			return ci.R < cj.R
		}
		if ci.G != cj.G {
			return ci.G < cj.G
		}
		return ci.B < cj.B
	})

	if len(colors) > count {
		colors = colors[:count]
	}
	return colors
}
