package imaging

import (
	"math"
	"testing"
)

func TestLocalMeanUniform(t *testing.T) {
	p := uniformPlane(30, 30, 80)

	mean := LocalMean(p, 5)

	for _, pt := range []struct{ x, y int }{{0, 0}, {15, 15}, {29, 29}} {
		if got := mean.At(pt.x, pt.y); math.Abs(got-80) > 1e-9 {
			t.Errorf("mean at (%d,%d) = %g, want 80", pt.x, pt.y, got)
		}
	}
}

func TestLocalMeanStep(t *testing.T) {
	// Vertical step: far from the boundary the mean equals the plateau.
	p := planeFromFunc(40, 40, func(x, y int) float64 {
		if x < 20 {
			return 0
		}
		return 100
	})

	mean := LocalMean(p, 5)

	if got := mean.At(5, 20); got != 0 {
		t.Errorf("mean on the low plateau = %g, want 0", got)
	}
	if got := mean.At(35, 20); got != 100 {
		t.Errorf("mean on the high plateau = %g, want 100", got)
	}
	if got := mean.At(20, 20); got <= 0 || got >= 100 {
		t.Errorf("mean across the step = %g, want strictly between 0 and 100", got)
	}
}

func TestLocalVarianceUniform(t *testing.T) {
	p := uniformPlane(25, 25, 200)

	variance := LocalVariance(p, 7)

	for i, v := range variance.Pix {
		if v != 0 {
			t.Fatalf("variance of a uniform plane is %g at index %d, want 0", v, i)
		}
	}
}

func TestLocalVarianceHighAtBoundary(t *testing.T) {
	p := rectPlane(60, 60, 255, 0)

	variance := LocalVariance(p, 7)

	// The rectangle spans [15,45); its border mixes 0 and 255 within one
	// window while the interior and background stay uniform.
	if got := variance.At(15, 30); got == 0 {
		t.Error("variance at the rectangle border should be positive")
	}
	if got := variance.At(30, 30); got != 0 {
		t.Errorf("variance in the uniform interior = %g, want 0", got)
	}
	if got := variance.At(5, 5); got != 0 {
		t.Errorf("variance in the uniform background = %g, want 0", got)
	}
}

func TestLocalVarianceNeverNegative(t *testing.T) {
	p := planeFromFunc(30, 30, func(x, y int) float64 {
		return float64((x*31+y*17)%256) * 0.99
	})

	variance := LocalVariance(p, 9)

	for i, v := range variance.Pix {
		if v < 0 {
			t.Fatalf("negative variance %g at index %d", v, i)
		}
	}
}
