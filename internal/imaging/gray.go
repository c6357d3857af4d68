package imaging

import (
	"image"
	"image/color"
	"math"
)

// Gray is a single-channel float64 plane with values in [0, 255].
//
// Pixels are stored row-major, indexed as y*Width+x. The float range mirrors
// 8-bit intensities so threshold constants apply without rescaling, while
// intermediate results (blur, gradients) keep full precision.
type Gray struct {
	Width  int
	Height int
	Pix    []float64
}

// NewGray allocates a zeroed plane.
func NewGray(width, height int) *Gray {
	return &Gray{Width: width, Height: height, Pix: make([]float64, width*height)}
}

// At returns the value at (x, y). Coordinates must be in bounds.
func (p *Gray) At(x, y int) float64 {
	return p.Pix[y*p.Width+x]
}

// Set stores a value at (x, y). Coordinates must be in bounds.
func (p *Gray) Set(x, y int, v float64) {
	p.Pix[y*p.Width+x] = v
}

// Clone returns an independent copy of the plane.
func (p *Gray) Clone() *Gray {
	out := NewGray(p.Width, p.Height)
	copy(out.Pix, p.Pix)
	return out
}

// FromImage converts an image to a luminance plane using ITU-R BT.601
// weights (0.299*R + 0.587*G + 0.114*B) on 8-bit components.
func FromImage(img image.Image) *Gray {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	out := NewGray(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			rf := float64(r >> 8)
			gf := float64(g >> 8)
			bf := float64(b >> 8)
			out.Pix[y*width+x] = 0.299*rf + 0.587*gf + 0.114*bf
		}
	}
	return out
}

// ToImage renders the plane as an 8-bit grayscale image, clamping values
// to [0, 255].
func (p *Gray) ToImage() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			v := clampFloat(p.At(x, y), 0, 255)
			out.SetGray(x, y, color.Gray{Y: uint8(math.Round(v))})
		}
	}
	return out
}

// MeanStdDev returns the mean and population standard deviation of the
// plane. An empty plane yields (0, 0).
func (p *Gray) MeanStdDev() (mean, std float64) {
	n := float64(len(p.Pix))
	if n == 0 {
		return 0, 0
	}
	for _, v := range p.Pix {
		mean += v
	}
	mean /= n

	var variance float64
	for _, v := range p.Pix {
		d := v - mean
		variance += d * d
	}
	return mean, math.Sqrt(variance / n)
}

// integralTable holds summed-area tables for a plane, supporting O(1)
// window sums. Row 0 and column 0 are zero padding, so the sum of the
// inclusive window [x0,x1]x[y0,y1] is queried with the padded indices.
type integralTable struct {
	width  int
	height int
	sum    []float64
	sumSq  []float64
}

// newIntegralTable builds summed-area tables of values and squared values.
func newIntegralTable(p *Gray) *integralTable {
	w := p.Width + 1
	h := p.Height + 1
	t := &integralTable{
		width:  w,
		height: h,
		sum:    make([]float64, w*h),
		sumSq:  make([]float64, w*h),
	}
	for y := 1; y < h; y++ {
		var rowSum, rowSumSq float64
		for x := 1; x < w; x++ {
			v := p.Pix[(y-1)*p.Width+(x-1)]
			rowSum += v
			rowSumSq += v * v
			t.sum[y*w+x] = t.sum[(y-1)*w+x] + rowSum
			t.sumSq[y*w+x] = t.sumSq[(y-1)*w+x] + rowSumSq
		}
	}
	return t
}

// window returns the sum and squared sum over the inclusive pixel window
// [x0,x1]x[y0,y1]. Bounds must already be clamped to the plane.
func (t *integralTable) window(x0, y0, x1, y1 int) (s, sq float64) {
	a := y0 * t.width
	b := (y1 + 1) * t.width
	s = t.sum[b+x1+1] - t.sum[a+x1+1] - t.sum[b+x0] + t.sum[a+x0]
	sq = t.sumSq[b+x1+1] - t.sumSq[a+x1+1] - t.sumSq[b+x0] + t.sumSq[a+x0]
	return s, sq
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// clampFloat constrains a float value to the range [min, max].
func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
