package imaging

import "testing"

func TestOtsuBimodal(t *testing.T) {
	// Left half dark, right half bright.
	p := planeFromFunc(40, 20, func(x, y int) float64 {
		if x < 20 {
			return 50
		}
		return 200
	})

	thresh := OtsuThreshold(p)
	if thresh < 50 || thresh >= 200 {
		t.Fatalf("threshold %.1f does not separate the modes 50 and 200", thresh)
	}

	mask := Threshold(p, thresh, false)
	if got, want := mask.Count(), 20*20; got != want {
		t.Errorf("foreground count: got %d, want %d", got, want)
	}
}

func TestThresholdInverted(t *testing.T) {
	p := planeFromFunc(4, 1, func(x, y int) float64 {
		return float64(x) * 80 // 0, 80, 160, 240
	})

	mask := Threshold(p, 100, false)
	inv := Threshold(p, 100, true)

	for x := 0; x < 4; x++ {
		if mask.At(x, 0) == inv.At(x, 0) {
			t.Errorf("pixel %d: inverted mask must be the complement", x)
		}
	}
	if mask.Count() != 2 || inv.Count() != 2 {
		t.Errorf("counts: got %d and %d, want 2 and 2", mask.Count(), inv.Count())
	}
}

func TestAdaptiveMeanThresholdUnderGradient(t *testing.T) {
	// Dark spots on an illumination gradient. A global threshold cannot
	// separate both spots; a local mean can.
	spots := []struct{ x, y int }{{10, 10}, {70, 30}}
	p := planeFromFunc(80, 40, func(x, y int) float64 {
		base := 100 + float64(x) // 100 on the left, 180 on the right
		for _, s := range spots {
			if x >= s.x && x < s.x+4 && y >= s.y && y < s.y+4 {
				return base - 80
			}
		}
		return base
	})

	mask := AdaptiveMeanThreshold(p, 15, 3, true)

	for _, s := range spots {
		if !mask.At(s.x+1, s.y+1) {
			t.Errorf("dark spot at (%d,%d) not detected", s.x, s.y)
		}
	}

	// The smooth background should stay almost entirely background.
	if got := mask.Count(); got > 200 {
		t.Errorf("background leaked into the mask: %d foreground pixels", got)
	}
}

func TestAdaptiveGaussianThreshold(t *testing.T) {
	p := planeFromFunc(60, 40, func(x, y int) float64 {
		base := 120 + float64(x)/2
		if x >= 30 && x < 34 && y >= 20 && y < 24 {
			return base - 70
		}
		return base
	})

	mask := AdaptiveGaussianThreshold(p, 11, 2, true)

	if !mask.At(31, 21) {
		t.Error("dark spot not detected")
	}
	if mask.At(5, 5) {
		t.Error("smooth background detected as foreground")
	}
}
