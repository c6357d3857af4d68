package detection

import (
	"math"
	"sort"

	"github.com/mockframe/regiondetect/internal/config"
	"github.com/mockframe/regiondetect/internal/region"
)

// idealAspectRatios are the ratios the aspect component rewards: golden
// ratio, 3:2, 4:3, 1:1, 3:4 and 2:3.
var idealAspectRatios = []float64{1.618, 1.5, 1.333, 1.0, 0.75, 0.667}

// Rank orders regions by placement suitability, best first.
//
// The score is a weighted sum of five components, each normalized to
// [0, 1]: the region's own confidence, a size band preference, closeness
// to a pleasing aspect ratio, centeredness, and distance from the image
// edges. Weights come from the configuration and sum to 1. The sort is
// stable, so equal scores keep their input order.
func Rank(regions []region.Region, width, height int, cfg *config.Config) []region.Region {
	if len(regions) <= 1 {
		return append([]region.Region(nil), regions...)
	}

	type scored struct {
		r     region.Region
		score float64
	}
	items := make([]scored, 0, len(regions))
	for _, r := range regions {
		items = append(items, scored{r: r, score: Score(r, width, height, cfg)})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].score > items[j].score })

	out := make([]region.Region, 0, len(items))
	for _, it := range items {
		out = append(out, it.r)
	}
	return out
}

// Score computes the weighted suitability score of one region.
func Score(r region.Region, width, height int, cfg *config.Config) float64 {
	score := r.Confidence * cfg.Weight(config.WeightConfidence)
	score += sizeScore(r, width, height) * cfg.Weight(config.WeightSize)
	score += aspectScore(r) * cfg.Weight(config.WeightAspectRatio)
	score += positionScore(r, width, height) * cfg.Weight(config.WeightPosition)
	score += edgeDistanceScore(r, width, height) * cfg.Weight(config.WeightEdgeDistance)
	return score
}

// sizeScore is 1 inside the 10-50% area band and falls off linearly
// outside it.
func sizeScore(r region.Region, width, height int) float64 {
	imageArea := float64(width) * float64(height)
	if imageArea <= 0 {
		return 0
	}
	ratio := r.Area() / imageArea

	switch {
	case ratio >= 0.1 && ratio <= 0.5:
		return 1.0
	case ratio < 0.1:
		return ratio / 0.1
	default:
		return math.Max(0, 1.0-(ratio-0.5)/0.5)
	}
}

// aspectScore rewards proximity to the nearest ideal ratio.
func aspectScore(r region.Region) float64 {
	aspect := r.AspectRatio()
	minDiff := math.MaxFloat64
	for _, ideal := range idealAspectRatios {
		if d := math.Abs(aspect - ideal); d < minDiff {
			minDiff = d
		}
	}
	return math.Max(0, 1.0-minDiff/2.0)
}

// positionScore rewards centered regions; a region whose center sits on
// an image corner scores 0.
func positionScore(r region.Region, width, height int) float64 {
	center := r.Center()
	xOffset := math.Abs(center.X-float64(width)/2) / (float64(width) / 2)
	yOffset := math.Abs(center.Y-float64(height)/2) / (float64(height) / 2)
	return 1.0 - (xOffset+yOffset)/2
}

// edgeDistanceScore normalizes the smallest margin to any image edge by
// 10% of the smaller dimension, capped at 1.
func edgeDistanceScore(r region.Region, width, height int) float64 {
	margin := math.Min(
		math.Min(r.X, r.Y),
		math.Min(float64(width)-r.Right(), float64(height)-r.Bottom()))

	norm := float64(min(width, height)) * 0.1
	if norm <= 0 {
		return 0
	}
	return math.Min(1.0, margin/norm)
}
