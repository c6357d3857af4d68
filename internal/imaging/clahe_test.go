package imaging

import (
	"math/rand"
	"testing"
)

func TestCLAHEUniformStaysUniform(t *testing.T) {
	p := uniformPlane(64, 64, 100)

	out := CLAHE(p, 2.0, 8)

	first := out.At(0, 0)
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			if out.At(x, y) != first {
				t.Fatalf("uniform input produced non-uniform output at (%d,%d)", x, y)
			}
		}
	}
	if first < 0 || first > 255 {
		t.Errorf("output value %.3f outside [0, 255]", first)
	}
}

func TestCLAHEExpandsLowContrast(t *testing.T) {
	// A shallow gradient occupying a narrow band of intensities. A generous
	// clip limit lets the equalization stretch it hard.
	p := planeFromFunc(64, 64, func(x, y int) float64 {
		return 100 + 10*float64(x)/63
	})

	out := CLAHE(p, 32, 8)

	inMin, inMax := planeRange(p)
	outMin, outMax := planeRange(out)
	if outMax-outMin < 2*(inMax-inMin) {
		t.Errorf("contrast not expanded: input range %.1f, output range %.1f",
			inMax-inMin, outMax-outMin)
	}
}

func TestCLAHEClipLimitsExpansion(t *testing.T) {
	p := planeFromFunc(64, 64, func(x, y int) float64 {
		return 100 + 10*float64(x)/63
	})

	tight := CLAHE(p, 2.0, 8)
	loose := CLAHE(p, 32, 8)

	tMin, tMax := planeRange(tight)
	lMin, lMax := planeRange(loose)
	if tMax-tMin > lMax-lMin {
		t.Errorf("lower clip limit should constrain expansion: clip 2 range %.1f, clip 32 range %.1f",
			tMax-tMin, lMax-lMin)
	}
}

func TestCLAHEOutputBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	p := planeFromFunc(50, 40, func(x, y int) float64 {
		return rng.Float64() * 255
	})

	out := CLAHE(p, 2.0, 8)
	for i, v := range out.Pix {
		if v < 0 || v > 255 {
			t.Fatalf("pixel %d out of range: %.3f", i, v)
		}
	}
}

func TestCLAHETinyPlane(t *testing.T) {
	// Planes smaller than the tile grid fall back to one global tile.
	p := planeFromFunc(5, 5, func(x, y int) float64 {
		return float64(x * 50)
	})

	out := CLAHE(p, 2.0, 8)
	if out.Width != 5 || out.Height != 5 {
		t.Fatalf("dimensions: got %dx%d, want 5x5", out.Width, out.Height)
	}
}

func planeRange(p *Gray) (min, max float64) {
	min = p.Pix[0]
	max = p.Pix[0]
	for _, v := range p.Pix {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
