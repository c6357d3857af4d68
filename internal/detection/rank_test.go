package detection

import (
	"math"
	"testing"

	"github.com/mockframe/regiondetect/internal/config"
	"github.com/mockframe/regiondetect/internal/region"
)

func TestScoreMonotonicInConfidence(t *testing.T) {
	cfg := config.DefaultConfig()
	strong := region.New(30, 30, 40, 40, 0.9, "a")
	weak := region.New(30, 30, 40, 40, 0.5, "b")

	if Score(strong, 100, 100, &cfg) <= Score(weak, 100, 100, &cfg) {
		t.Error("identical geometry with higher confidence should score higher")
	}
}

func TestSizeScoreBand(t *testing.T) {
	tests := []struct {
		name string
		w, h float64
		want float64
	}{
		{"inside band", 40, 50, 1.0},    // ratio 0.20
		{"band low edge", 10, 100, 1.0}, // ratio 0.10
		{"too small", 25, 20, 0.5},      // ratio 0.05
		{"too large", 75, 100, 0.5},     // ratio 0.75
		{"full image", 100, 100, 0.0},   // ratio 1.00
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := region.New(0, 0, tt.w, tt.h, 1.0, "")
			if got := sizeScore(r, 100, 100); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("sizeScore = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestAspectScoreIdealRatios(t *testing.T) {
	square := region.New(0, 0, 100, 100, 1.0, "")
	if got := aspectScore(square); got != 1.0 {
		t.Errorf("square aspect score = %g, want 1.0", got)
	}

	golden := region.New(0, 0, 161.8, 100, 1.0, "")
	if got := aspectScore(golden); got < 0.999 {
		t.Errorf("golden-ratio aspect score = %g, want ~1.0", got)
	}

	sliver := region.New(0, 0, 1000, 100, 1.0, "")
	if got := aspectScore(sliver); got != 0 {
		t.Errorf("extreme aspect score = %g, want 0", got)
	}
}

func TestPositionScoreFavorsCenter(t *testing.T) {
	centered := region.New(40, 40, 20, 20, 1.0, "")
	if got := positionScore(centered, 100, 100); got != 1.0 {
		t.Errorf("centered region position score = %g, want 1.0", got)
	}

	corner := region.New(0, 0, 10, 10, 1.0, "")
	if got := positionScore(corner, 100, 100); got >= 0.5 {
		t.Errorf("corner region position score = %g, want < 0.5", got)
	}
}

func TestEdgeDistanceScore(t *testing.T) {
	// On a 100x100 image the margin normalizer is 10px.
	deep := region.New(20, 20, 60, 60, 1.0, "")
	if got := edgeDistanceScore(deep, 100, 100); got != 1.0 {
		t.Errorf("deep region edge score = %g, want 1.0 (capped)", got)
	}

	near := region.New(5, 5, 90, 90, 1.0, "")
	if got := edgeDistanceScore(near, 100, 100); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("near-edge region score = %g, want 0.5", got)
	}

	touching := region.New(0, 10, 50, 50, 1.0, "")
	if got := edgeDistanceScore(touching, 100, 100); got != 0 {
		t.Errorf("edge-touching region score = %g, want 0", got)
	}
}

func TestRankBestFirst(t *testing.T) {
	cfg := config.DefaultConfig()

	// A well-placed confident square against an edge-hugging sliver.
	good := region.New(30, 30, 40, 40, 0.9, "good")
	bad := region.New(0, 0, 95, 10, 0.2, "bad")

	ranked := Rank([]region.Region{bad, good}, 100, 100, &cfg)

	if len(ranked) != 2 {
		t.Fatalf("got %d regions, want 2", len(ranked))
	}
	if ranked[0].Label != "good" {
		t.Errorf("first ranked region is %q, want the well-placed one", ranked[0].Label)
	}
}

func TestRankStableOnTies(t *testing.T) {
	cfg := config.DefaultConfig()

	first := region.New(30, 30, 40, 40, 0.8, "first")
	second := region.New(30, 30, 40, 40, 0.8, "second")

	ranked := Rank([]region.Region{first, second}, 100, 100, &cfg)

	if ranked[0].Label != "first" || ranked[1].Label != "second" {
		t.Errorf("tied regions reordered: got %q then %q", ranked[0].Label, ranked[1].Label)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	cfg := config.DefaultConfig()
	in := []region.Region{
		region.New(0, 0, 95, 10, 0.2, "bad"),
		region.New(30, 30, 40, 40, 0.9, "good"),
	}

	_ = Rank(in, 100, 100, &cfg)

	if in[0].Label != "bad" || in[1].Label != "good" {
		t.Error("Rank reordered its input slice")
	}
}
