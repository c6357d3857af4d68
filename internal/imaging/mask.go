package imaging

import (
	"image"
	"image/color"
	"math"
)

// Mask is a binary plane marking foreground pixels, stored row-major and
// indexed as y*Width+x.
type Mask struct {
	Width  int
	Height int
	Bits   []bool
}

// NewMask allocates an all-background mask.
func NewMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height, Bits: make([]bool, width*height)}
}

// At reports whether (x, y) is foreground. Out-of-bounds coordinates are
// background.
func (m *Mask) At(x, y int) bool {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return false
	}
	return m.Bits[y*m.Width+x]
}

// Set marks (x, y) as foreground or background. Coordinates must be in
// bounds.
func (m *Mask) Set(x, y int, v bool) {
	m.Bits[y*m.Width+x] = v
}

// Count returns the number of foreground pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of the mask.
func (m *Mask) Clone() *Mask {
	out := NewMask(m.Width, m.Height)
	copy(out.Bits, m.Bits)
	return out
}

// ToImage renders the mask with foreground pixels white.
func (m *Mask) ToImage() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Bits[y*m.Width+x] {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// Kernel is a structuring element for morphological operations, anchored
// at its center.
type Kernel struct {
	Width  int
	Height int
	Bits   []bool
}

// RectKernel returns a fully set structuring element.
func RectKernel(width, height int) Kernel {
	k := Kernel{Width: width, Height: height, Bits: make([]bool, width*height)}
	for i := range k.Bits {
		k.Bits[i] = true
	}
	return k
}

// EllipseKernel returns an elliptical structuring element inscribed in the
// given size. For each row the filled span is the widest run inside the
// ellipse, matching the usual discrete construction.
func EllipseKernel(width, height int) Kernel {
	k := Kernel{Width: width, Height: height, Bits: make([]bool, width*height)}
	rx := width / 2
	ry := height / 2
	for y := 0; y < height; y++ {
		dy := y - ry
		if dy < -ry || dy > ry {
			continue
		}
		dx := rx
		if ry > 0 {
			dx = int(float64(rx) * math.Sqrt(float64(ry*ry-dy*dy)) / float64(ry))
		}
		for x := rx - dx; x <= rx+dx && x < width; x++ {
			if x >= 0 {
				k.Bits[y*width+x] = true
			}
		}
	}
	return k
}

// Erode keeps a pixel only when every in-bounds kernel tap lands on
// foreground.
func (m *Mask) Erode(k Kernel) *Mask {
	out := NewMask(m.Width, m.Height)
	ax := k.Width / 2
	ay := k.Height / 2
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			keep := true
			for ky := 0; ky < k.Height && keep; ky++ {
				for kx := 0; kx < k.Width && keep; kx++ {
					if !k.Bits[ky*k.Width+kx] {
						continue
					}
					px := x + kx - ax
					py := y + ky - ay
					if px < 0 || px >= m.Width || py < 0 || py >= m.Height {
						continue
					}
					if !m.Bits[py*m.Width+px] {
						keep = false
					}
				}
			}
			out.Bits[y*m.Width+x] = keep && m.Bits[y*m.Width+x]
		}
	}
	return out
}

// Dilate sets a pixel when any kernel tap lands on foreground.
func (m *Mask) Dilate(k Kernel) *Mask {
	out := NewMask(m.Width, m.Height)
	ax := k.Width / 2
	ay := k.Height / 2
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			hit := false
			for ky := 0; ky < k.Height && !hit; ky++ {
				for kx := 0; kx < k.Width && !hit; kx++ {
					if !k.Bits[ky*k.Width+kx] {
						continue
					}
					px := x + kx - ax
					py := y + ky - ay
					if px < 0 || px >= m.Width || py < 0 || py >= m.Height {
						continue
					}
					if m.Bits[py*m.Width+px] {
						hit = true
					}
				}
			}
			out.Bits[y*m.Width+x] = hit
		}
	}
	return out
}

// Open erodes then dilates, removing speckles smaller than the kernel.
func (m *Mask) Open(k Kernel) *Mask {
	return m.Erode(k).Dilate(k)
}

// Close dilates then erodes, filling gaps smaller than the kernel.
func (m *Mask) Close(k Kernel) *Mask {
	return m.Dilate(k).Erode(k)
}
