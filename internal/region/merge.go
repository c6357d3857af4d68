package region

import (
	"math"
	"sort"
)

// MergeFunc combines two overlapping regions into one.
type MergeFunc func(a, b Region) Region

// Merge combines two regions into a new one covering both.
//
// The resulting box is the bounding box of the inputs. Confidence is the
// area-weighted average of the two confidences, and the label is taken from
// the operand with the higher confidence (ties favor the first operand).
func Merge(a, b Region) Region {
	merged := union(a, b)

	areaA := a.Area()
	areaB := b.Area()
	total := areaA + areaB
	if total > 0 {
		merged.Confidence = (a.Confidence*areaA + b.Confidence*areaB) / total
	} else {
		merged.Confidence = math.Max(a.Confidence, b.Confidence)
	}

	if b.Confidence > a.Confidence {
		merged.Label = b.Label
	} else {
		merged.Label = a.Label
	}
	return merged
}

// MergeAnnotated combines two regions like Merge but keeps the full origin
// history: confidence is the maximum of the two inputs and the labels are
// joined with "+". The orchestrator merges with this policy so the final
// labels show every detector that contributed to a region.
func MergeAnnotated(a, b Region) Region {
	merged := union(a, b)
	merged.Confidence = math.Max(a.Confidence, b.Confidence)
	merged.Label = a.Label + "+" + b.Label
	return merged
}

// union returns the bounding box of both regions with zero confidence and
// an empty label.
func union(a, b Region) Region {
	x := math.Min(a.X, b.X)
	y := math.Min(a.Y, b.Y)
	x2 := math.Max(a.Right(), b.Right())
	y2 := math.Max(a.Bottom(), b.Bottom())
	return Region{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

// MergeOverlapping greedily merges regions whose pairwise IoU exceeds
// iouThreshold, using the Merge policy.
//
// Candidates are visited in descending confidence order. Each candidate
// either joins the first kept region it overlaps (replacing it with their
// merge) or starts a new cluster. The returned representatives keep their
// insertion order, so the list remains sorted by the confidence of the
// cluster seeds.
func MergeOverlapping(regions []Region, iouThreshold float64) []Region {
	return MergeOverlappingFunc(regions, iouThreshold, Merge)
}

// MergeOverlappingFunc is MergeOverlapping with a caller-chosen merge policy.
func MergeOverlappingFunc(regions []Region, iouThreshold float64, merge MergeFunc) []Region {
	if len(regions) <= 1 {
		return append([]Region(nil), regions...)
	}

	sorted := sortByConfidence(regions)
	kept := make([]Region, 0, len(sorted))

	for _, cand := range sorted {
		absorbed := false
		for i := range kept {
			if kept[i].IoU(cand) > iouThreshold {
				kept[i] = merge(kept[i], cand)
				absorbed = true
				break
			}
		}
		if !absorbed {
			kept = append(kept, cand)
		}
	}
	return kept
}

// Dedupe removes lower-confidence regions that overlap a kept region with
// IoU above iouThreshold. Unlike MergeOverlapping nothing is combined; the
// suppressed region is simply dropped. The result is sorted by descending
// confidence.
func Dedupe(regions []Region, iouThreshold float64) []Region {
	if len(regions) <= 1 {
		return append([]Region(nil), regions...)
	}

	sorted := sortByConfidence(regions)
	kept := make([]Region, 0, len(sorted))

	for _, cand := range sorted {
		suppressed := false
		for _, k := range kept {
			if k.IoU(cand) > iouThreshold {
				suppressed = true
				break
			}
		}
		if !suppressed {
			kept = append(kept, cand)
		}
	}
	return kept
}

// sortByConfidence returns a copy of regions sorted by descending
// confidence. The sort is stable so equal-confidence regions keep their
// original relative order.
func sortByConfidence(regions []Region) []Region {
	sorted := append([]Region(nil), regions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})
	return sorted
}
