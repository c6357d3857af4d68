package detection

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/mockframe/regiondetect/internal/config"
	"github.com/mockframe/regiondetect/internal/region"
)

// fallbackDedupeIoU is the overlap above which a lower-confidence
// composition candidate is dropped.
const fallbackDedupeIoU = 0.7

// FallbackDetector proposes regions from image composition rules alone.
//
// It never inspects pixel content, only the image dimensions, which makes
// it the engine's guarantee of a non-empty result: centered squares,
// golden-ratio and rule-of-thirds intersections, safe-area boxes and
// common-aspect-ratio boxes always exist. Should any of that somehow
// panic, Detect degrades to a single centered region instead of failing.
type FallbackDetector struct {
	cfg config.Config
}

// NewFallbackDetector creates a fallback detector using the given
// configuration.
func NewFallbackDetector(cfg config.Config) *FallbackDetector {
	return &FallbackDetector{cfg: cfg.Clone()}
}

// Name returns "fallback".
func (d *FallbackDetector) Name() string { return config.DetectorFallback }

// Detect generates, deduplicates and caps the composition candidates.
func (d *FallbackDetector) Detect(ctx context.Context, in *Input) (out []region.Region, err error) {
	width := in.Width()
	height := in.Height()

	defer func() {
		if recover() != nil {
			// Last resort: the centered region always exists.
			out = []region.Region{centerRegion(width, height)}
			err = nil
		}
	}()

	var candidates []region.Region
	candidates = append(candidates, centerRegion(width, height))
	candidates = append(candidates, goldenRatioRegions(width, height)...)
	candidates = append(candidates, ruleOfThirdsRegions(width, height)...)
	candidates = append(candidates, safeAreaRegions(width, height)...)
	candidates = append(candidates, aspectRatioRegions(width, height)...)

	unique := region.Dedupe(candidates, fallbackDedupeIoU)
	filtered := region.Filter(unique, width, height, d.cfg.Limits())
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Confidence > filtered[j].Confidence
	})

	limit := min(5, d.cfg.MaxDetections)
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

// centerRegion is a centered square at 40% of the smaller dimension.
func centerRegion(width, height int) region.Region {
	size := float64(min(width, height)) * 0.4
	return region.New(
		(float64(width)-size)/2, (float64(height)-size)/2,
		size, size, 0.7, "fallback_center")
}

// goldenRatioRegions places squares at the four golden-ratio
// intersections.
func goldenRatioRegions(width, height int) []region.Region {
	const phi = 1.618
	w := float64(width)
	h := float64(height)

	gx1 := w / phi
	gx2 := w - gx1
	gy1 := h / phi
	gy2 := h - gy1

	size := float64(min(width, height)) * 0.3
	points := [][2]float64{
		{gx1, gy1}, {gx2, gy1}, {gx1, gy2}, {gx2, gy2},
	}

	out := make([]region.Region, 0, len(points))
	for i, pt := range points {
		x := clampCoord(pt[0]-size/2, w-size)
		y := clampCoord(pt[1]-size/2, h-size)
		out = append(out, region.New(x, y, size, size, 0.65,
			fmt.Sprintf("fallback_golden_%d", i)))
	}
	return out
}

// ruleOfThirdsRegions places quarter-size rectangles at the four
// thirds intersections.
func ruleOfThirdsRegions(width, height int) []region.Region {
	w := float64(width)
	h := float64(height)
	thirdX := w / 3
	thirdY := h / 3

	rw := w * 0.25
	rh := h * 0.25
	points := [][2]float64{
		{thirdX, thirdY}, {2 * thirdX, thirdY},
		{thirdX, 2 * thirdY}, {2 * thirdX, 2 * thirdY},
	}

	out := make([]region.Region, 0, len(points))
	for i, pt := range points {
		x := clampCoord(pt[0]-rw/2, w-rw)
		y := clampCoord(pt[1]-rh/2, h-rh)
		out = append(out, region.New(x, y, rw, rh, 0.6,
			fmt.Sprintf("fallback_thirds_%d", i)))
	}
	return out
}

// safeAreaRegions places boxes inside a 10% edge margin: one large
// centered box and four quadrant boxes.
func safeAreaRegions(width, height int) []region.Region {
	w := float64(width)
	h := float64(height)
	marginX := w * 0.1
	marginY := h * 0.1
	safeW := w - 2*marginX
	safeH := h - 2*marginY

	var out []region.Region

	large := math.Min(safeW, safeH) * 0.6
	if large > 50 {
		out = append(out, region.New(
			marginX+(safeW-large)/2, marginY+(safeH-large)/2,
			large, large, 0.55, "fallback_safe_large"))
	}

	medium := math.Min(safeW, safeH) * 0.35
	if medium > 50 {
		quadrants := [][2]float64{
			{marginX, marginY},
			{w - marginX - medium, marginY},
			{marginX, h - marginY - medium},
			{w - marginX - medium, h - marginY - medium},
		}
		for i, q := range quadrants {
			out = append(out, region.New(q[0], q[1], medium, medium, 0.5,
				fmt.Sprintf("fallback_safe_quad_%d", i)))
		}
	}
	return out
}

// aspectRatioRegions centers boxes with common mockup aspect ratios, in
// both orientations.
func aspectRatioRegions(width, height int) []region.Region {
	w := float64(width)
	h := float64(height)

	ratios := []struct {
		ratio float64
		label string
	}{
		{1.0, "square"},
		{1.5, "photo"},
		{1.33, "classic"},
		{1.77, "widescreen"},
	}

	var out []region.Region
	for _, ar := range ratios {
		for _, landscape := range []bool{true, false} {
			var rw, rh float64
			if landscape {
				rw = math.Min(w*0.5, h*0.5*ar.ratio)
				rh = rw / ar.ratio
			} else {
				rh = math.Min(h*0.5, w*0.5*ar.ratio)
				rw = rh / ar.ratio
			}

			if rw > w || rh > h || rw <= 50 || rh <= 50 {
				continue
			}
			out = append(out, region.New((w-rw)/2, (h-rh)/2, rw, rh, 0.45,
				"fallback_"+ar.label))
		}
	}
	return out
}

// clampCoord keeps a top-left coordinate inside [0, limit].
func clampCoord(v, limit float64) float64 {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}
