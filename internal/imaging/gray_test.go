package imaging

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestFromImageLuminance(t *testing.T) {
	tests := []struct {
		name string
		c    color.NRGBA
		want float64
	}{
		{"black", color.NRGBA{0, 0, 0, 255}, 0},
		{"white", color.NRGBA{255, 255, 255, 255}, 255},
		{"red", color.NRGBA{255, 0, 0, 255}, 0.299 * 255},
		{"green", color.NRGBA{0, 255, 0, 255}, 0.587 * 255},
		{"blue", color.NRGBA{0, 0, 255, 255}, 0.114 * 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewNRGBA(image.Rect(0, 0, 3, 3))
			for y := 0; y < 3; y++ {
				for x := 0; x < 3; x++ {
					img.SetNRGBA(x, y, tt.c)
				}
			}

			gray := FromImage(img)
			if got := gray.At(1, 1); math.Abs(got-tt.want) > 0.001 {
				t.Errorf("luminance: got %.3f, want %.3f", got, tt.want)
			}
		})
	}
}

func TestGrayToImageClamps(t *testing.T) {
	p := NewGray(3, 1)
	p.Set(0, 0, -40)
	p.Set(1, 0, 127.4)
	p.Set(2, 0, 300)

	img := p.ToImage()
	wants := []uint8{0, 127, 255}
	for x, want := range wants {
		if got := img.GrayAt(x, 0).Y; got != want {
			t.Errorf("pixel %d: got %d, want %d", x, got, want)
		}
	}
}

func TestGrayClone(t *testing.T) {
	p := uniformPlane(4, 4, 10)
	q := p.Clone()
	q.Set(0, 0, 99)

	if p.At(0, 0) != 10 {
		t.Error("Clone must not share pixel storage")
	}
}

func TestMeanStdDev(t *testing.T) {
	p := NewGray(2, 2)
	p.Pix = []float64{0, 0, 255, 255}

	mean, std := p.MeanStdDev()
	if math.Abs(mean-127.5) > 1e-9 {
		t.Errorf("mean: got %.3f, want 127.5", mean)
	}
	if math.Abs(std-127.5) > 1e-9 {
		t.Errorf("std: got %.3f, want 127.5", std)
	}
}

func TestIntegralTableWindow(t *testing.T) {
	p := NewGray(3, 2)
	p.Pix = []float64{1, 2, 3, 4, 5, 6}

	table := newIntegralTable(p)

	sum, sq := table.window(0, 0, 2, 1)
	if sum != 21 {
		t.Errorf("full sum: got %.1f, want 21", sum)
	}
	if sq != 91 {
		t.Errorf("full squared sum: got %.1f, want 91", sq)
	}

	sum, _ = table.window(1, 0, 2, 1)
	if sum != 16 {
		t.Errorf("right window sum: got %.1f, want 16", sum)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, want int
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tt := range tests {
		got := clamp(tt.val, tt.min, tt.max)
		if got != tt.want {
			t.Errorf("clamp(%d, %d, %d): got %d, want %d",
				tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}

// Helper functions

// uniformPlane creates a plane filled with a single value.
func uniformPlane(width, height int, v float64) *Gray {
	p := NewGray(width, height)
	for i := range p.Pix {
		p.Pix[i] = v
	}
	return p
}

// planeFromFunc fills a plane from a per-pixel function.
func planeFromFunc(width, height int, f func(x, y int) float64) *Gray {
	p := NewGray(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p.Set(x, y, f(x, y))
		}
	}
	return p
}

// maskFromStrings builds a mask from rows of '1' and '0' characters.
func maskFromStrings(rows []string) *Mask {
	height := len(rows)
	width := 0
	if height > 0 {
		width = len(rows[0])
	}
	m := NewMask(width, height)
	for y, row := range rows {
		for x, ch := range row {
			if ch == '1' {
				m.Set(x, y, true)
			}
		}
	}
	return m
}
