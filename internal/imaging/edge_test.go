package imaging

import "testing"

func TestCannyRectangleOutline(t *testing.T) {
	// Black rectangle on a white background produces four clear edges.
	p := rectPlane(100, 100, 255, 0)

	edges := Canny(p, 50, 150, 5)

	if edges.Count() == 0 {
		t.Fatal("no edges detected on a high-contrast rectangle")
	}

	// The rectangle spans [25,75); edges must appear near its left border
	// and not deep inside the uniform interior.
	foundLeft := false
	for x := 22; x <= 28; x++ {
		if edges.At(x, 50) {
			foundLeft = true
			break
		}
	}
	if !foundLeft {
		t.Error("left border of the rectangle was not detected")
	}

	if edges.At(50, 50) {
		t.Error("uniform interior should not contain edges")
	}
}

func TestCannyUniformNoEdges(t *testing.T) {
	p := uniformPlane(50, 50, 128)

	edges := Canny(p, 50, 150, 5)
	if got := edges.Count(); got != 0 {
		t.Errorf("uniform image: got %d edge pixels, want 0", got)
	}
}

func TestCannyStrongVerticalEdge(t *testing.T) {
	p := planeFromFunc(100, 100, func(x, y int) float64 {
		if x < 50 {
			return 0
		}
		return 255
	})

	edges := Canny(p, 50, 150, 5)

	found := false
	for x := 48; x <= 52; x++ {
		if edges.At(x, 50) {
			found = true
			break
		}
	}
	if !found {
		t.Error("strong vertical edge was not detected")
	}
}

func TestCannyThresholdSensitivity(t *testing.T) {
	// A moderate gradient step: permissive thresholds must keep at least
	// as many edge pixels as strict ones.
	p := planeFromFunc(80, 80, func(x, y int) float64 {
		if x < 40 {
			return 100
		}
		return 180
	})

	permissive := Canny(p, 10, 40, 5).Count()
	strict := Canny(p, 120, 240, 5).Count()

	if permissive < strict {
		t.Errorf("permissive thresholds found %d edges, strict found %d", permissive, strict)
	}
	if permissive == 0 {
		t.Error("permissive thresholds should detect the step edge")
	}
}

func TestCannyHysteresisConnectsWeakEdges(t *testing.T) {
	// A vertical edge whose contrast fades along its length. The strong
	// segment seeds hysteresis, which then follows the connected weaker
	// portion that a plain high threshold would drop.
	p := planeFromFunc(60, 120, func(x, y int) float64 {
		if x < 30 {
			return 0
		}
		step := 255 - 1.8*float64(y) // fading contrast top to bottom
		if step < 40 {
			step = 40
		}
		return step
	})

	edges := Canny(p, 15, 200, 5)

	strongRow, weakRow := 10, 110
	if !rowHasEdge(edges, strongRow, 28, 32) {
		t.Fatal("strong segment of the edge was not detected")
	}
	if !rowHasEdge(edges, weakRow, 28, 32) {
		t.Error("weak segment connected to a strong edge should survive hysteresis")
	}
}

func TestCannySmallImage(t *testing.T) {
	p := uniformPlane(5, 5, 128)

	edges := Canny(p, 50, 150, 5)
	if edges.Width != 5 || edges.Height != 5 {
		t.Errorf("dimensions: got %dx%d, want 5x5", edges.Width, edges.Height)
	}
}

// Helper functions

// rectPlane builds a plane with a centered rectangle spanning the middle
// half in both dimensions.
func rectPlane(width, height int, background, fill float64) *Gray {
	return planeFromFunc(width, height, func(x, y int) float64 {
		if x >= width/4 && x < 3*width/4 && y >= height/4 && y < 3*height/4 {
			return fill
		}
		return background
	})
}

func rowHasEdge(m *Mask, y, x0, x1 int) bool {
	for x := x0; x <= x1; x++ {
		if m.At(x, y) {
			return true
		}
	}
	return false
}
