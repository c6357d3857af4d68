package detection

import (
	"context"
	"math"

	"github.com/mockframe/regiondetect/internal/config"
	"github.com/mockframe/regiondetect/internal/imaging"
	"github.com/mockframe/regiondetect/internal/region"
)

// rectangleScoreThreshold is the minimum rectangle score for a
// quadrilateral to be accepted as a candidate.
const rectangleScoreThreshold = 0.7

// ContourDetector finds rectangular shapes via multiple binarizations.
//
// The same grayscale plane is thresholded four ways — adaptive gaussian,
// adaptive mean, Otsu, and an inverted adaptive variant — so both
// light-on-dark and dark-on-light boundaries produce foreground. Contours
// from all four are pooled and deduplicated before emission.
type ContourDetector struct {
	cfg config.Config
}

// NewContourDetector creates a contour detector using the given
// configuration.
func NewContourDetector(cfg config.Config) *ContourDetector {
	return &ContourDetector{cfg: cfg.Clone()}
}

// Name returns "contour".
func (d *ContourDetector) Name() string { return config.DetectorContour }

// Detect runs the four binarizations and returns filtered candidates.
func (d *ContourDetector) Detect(ctx context.Context, in *Input) ([]region.Region, error) {
	gray := in.Gray
	width := in.Width()
	height := in.Height()

	binaries := []*imaging.Mask{
		imaging.AdaptiveGaussianThreshold(gray, 11, 2, false),
		imaging.AdaptiveMeanThreshold(gray, 15, 3, false),
		imaging.Threshold(gray, imaging.OtsuThreshold(gray), false),
		imaging.AdaptiveGaussianThreshold(gray, 11, 2, true),
	}

	var pooled []region.Region
	for _, binary := range binaries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pooled = append(pooled, d.findRectangles(binary)...)
	}

	unique := region.Dedupe(pooled, 0.5)

	// Penalize boxes outside the preferred aspect window rather than
	// dropping them outright; Filter applies the hard bounds afterwards.
	out := make([]region.Region, 0, len(unique))
	for _, r := range unique {
		aspect := r.AspectRatio()
		if aspect < d.cfg.AspectRatioRange[0] || aspect > d.cfg.AspectRatioRange[1] {
			r.Confidence *= 0.8
		}
		out = append(out, r)
	}

	return region.Filter(out, width, height, d.cfg.Limits()), nil
}

// findRectangles extracts rectangle candidates from one binary image.
func (d *ContourDetector) findRectangles(binary *imaging.Mask) []region.Region {
	var out []region.Region
	for _, contour := range imaging.FindContours(binary) {
		area := contour.Area()
		if area < d.cfg.MinContourArea {
			continue
		}

		epsilon := d.cfg.ApproxEpsilonFactor * contour.Perimeter(true)
		approx := imaging.ApproxPolyDP(contour, epsilon)
		rect := contour.BoundingRect()

		var confidence float64
		switch {
		case len(approx) == 4:
			score := rectangleScore(approx)
			if score <= rectangleScoreThreshold {
				continue
			}
			confidence = score
		case len(approx) >= 3 && len(approx) <= 6:
			// Near-quads still count when the contour fills most of its
			// bounding box.
			rectArea := float64(rect.Dx() * rect.Dy())
			if rectArea == 0 || area/rectArea <= 0.8 {
				continue
			}
			confidence = 0.8
		default:
			continue
		}

		out = append(out, region.New(
			float64(rect.Min.X), float64(rect.Min.Y),
			float64(rect.Dx()), float64(rect.Dy()),
			confidence, "contour_rectangle"))
	}
	return out
}

// rectangleScore rates a quadrilateral against an ideal rectangle.
//
// Corner angles near 90° contribute 70% of the score and opposite-side
// length parity the remaining 30%, so skewed or trapezoidal quads score
// low even when their corners look right.
func rectangleScore(quad imaging.Contour) float64 {
	if len(quad) != 4 {
		return 0
	}

	angleSum := 0.0
	var sides [4]float64
	for i := 0; i < 4; i++ {
		p := quad[i]
		next := quad[(i+1)%4]
		prev := quad[(i+3)%4]

		v1x := float64(p.X - prev.X)
		v1y := float64(p.Y - prev.Y)
		v2x := float64(next.X - p.X)
		v2y := float64(next.Y - p.Y)

		n1 := math.Hypot(v1x, v1y)
		n2 := math.Hypot(v2x, v2y)
		cosine := (v1x*v2x + v1y*v2y) / (n1*n2 + 1e-10)
		angle := math.Acos(clampUnit(cosine)) * 180 / math.Pi

		angleSum += 1.0 - math.Abs(90-angle)/90
		sides[i] = n2
	}
	angleScore := angleSum / 4

	ratio1 := sideParity(sides[0], sides[2])
	ratio2 := sideParity(sides[1], sides[3])
	lengthScore := (ratio1 + ratio2) / 2

	return angleScore*0.7 + lengthScore*0.3
}

// sideParity returns min/max of two side lengths, 0-safe.
func sideParity(a, b float64) float64 {
	return math.Min(a, b) / (math.Max(a, b) + 1e-10)
}

// clampUnit clamps v into [-1, 1] before acos.
func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
