package imaging

import (
	"image"
	"image/color"
	"math"
	"testing"
)

// createInMemoryImage creates a uniformly colored test image.
func createInMemoryImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image with a different color per quadrant.
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestNewColorPlanesDimensions(t *testing.T) {
	img := createPatternImage(40, 30)

	p := NewColorPlanes(img, 0.1, 0.1)

	if p.L.Width != 40 || p.L.Height != 30 {
		t.Fatalf("L plane is %dx%d, want 40x30", p.L.Width, p.L.Height)
	}
	if p.Chromatic.Width != 40 || p.Chromatic.Height != 30 {
		t.Fatalf("chromatic mask is %dx%d, want 40x30", p.Chromatic.Width, p.Chromatic.Height)
	}
}

func TestNewColorPlanesLightnessExtremes(t *testing.T) {
	white := createInMemoryImage(10, 10, color.White)
	black := createInMemoryImage(10, 10, color.Black)

	pw := NewColorPlanes(white, 0.1, 0.1)
	pb := NewColorPlanes(black, 0.1, 0.1)

	if got := pw.L.At(5, 5); got < 250 {
		t.Errorf("white pixel lightness = %g, want near 255", got)
	}
	if got := pb.L.At(5, 5); got > 5 {
		t.Errorf("black pixel lightness = %g, want near 0", got)
	}
}

func TestNewColorPlanesNeutralCentered(t *testing.T) {
	gray := createInMemoryImage(10, 10, color.RGBA{128, 128, 128, 255})

	p := NewColorPlanes(gray, 0.1, 0.1)

	// A pure gray has no chromaticity: a and b sit at the 128 center.
	if got := p.A.At(5, 5); math.Abs(got-128) > 2 {
		t.Errorf("gray pixel a channel = %g, want near 128", got)
	}
	if got := p.B.At(5, 5); math.Abs(got-128) > 2 {
		t.Errorf("gray pixel b channel = %g, want near 128", got)
	}
	if p.Chromatic.At(5, 5) {
		t.Error("gray pixel must not be marked chromatic")
	}
}

func TestNewColorPlanesChromaticMask(t *testing.T) {
	red := createInMemoryImage(10, 10, color.RGBA{255, 0, 0, 255})

	p := NewColorPlanes(red, 0.1, 0.1)

	if !p.Chromatic.At(5, 5) {
		t.Error("saturated red pixel must be marked chromatic")
	}

	// Hue 0 encodes as (sin, cos) = (0, 1).
	if got := p.HueSin.At(5, 5); math.Abs(got) > 0.01 {
		t.Errorf("red hue sin = %g, want 0", got)
	}
	if got := p.HueCos.At(5, 5); math.Abs(got-1) > 0.01 {
		t.Errorf("red hue cos = %g, want 1", got)
	}
}

func TestNewColorPlanesHueIsCircular(t *testing.T) {
	img := createPatternImage(20, 20)

	p := NewColorPlanes(img, 0.1, 0.1)

	// sin² + cos² = 1 everywhere, whatever the hue.
	for _, pt := range []struct{ x, y int }{{5, 5}, {15, 5}, {5, 15}} {
		s := p.HueSin.At(pt.x, pt.y)
		c := p.HueCos.At(pt.x, pt.y)
		if got := s*s + c*c; math.Abs(got-1) > 0.01 {
			t.Errorf("hue encoding at (%d,%d): sin²+cos² = %g, want 1", pt.x, pt.y, got)
		}
	}
}

func TestDominantColorsUniform(t *testing.T) {
	img := createInMemoryImage(20, 20, color.RGBA{200, 100, 50, 255})

	colors := DominantColors(img, 5)

	if len(colors) != 1 {
		t.Fatalf("uniform image: got %d colors, want 1", len(colors))
	}
	// Quantization truncates each channel to its 32-step bucket.
	want := RGBColor{R: 192, G: 96, B: 32}
	if colors[0] != want {
		t.Errorf("dominant color = %+v, want %+v", colors[0], want)
	}
}

func TestDominantColorsOrderedByFrequency(t *testing.T) {
	// Three quarters red-ish, one quarter blue-ish.
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if x < 10 && y < 10 {
				img.Set(x, y, color.RGBA{0, 0, 250, 255})
			} else {
				img.Set(x, y, color.RGBA{250, 0, 0, 255})
			}
		}
	}

	colors := DominantColors(img, 5)

	if len(colors) != 2 {
		t.Fatalf("got %d colors, want 2", len(colors))
	}
	if colors[0].R <= colors[0].B {
		t.Errorf("most frequent color should be red-dominant, got %+v", colors[0])
	}
}

func TestDominantColorsCapped(t *testing.T) {
	img := createPatternImage(40, 40)

	colors := DominantColors(img, 2)

	if len(colors) != 2 {
		t.Fatalf("got %d colors, want cap of 2", len(colors))
	}
}

func TestDominantColorsDeterministic(t *testing.T) {
	img := createPatternImage(30, 30)

	a := DominantColors(img, 5)
	b := DominantColors(img, 5)

	if len(a) != len(b) {
		t.Fatalf("run lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("color %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
