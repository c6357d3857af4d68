package region

// Limits holds the geometric and confidence bounds applied by Filter.
type Limits struct {
	// MinAreaRatio and MaxAreaRatio bound region area as a fraction of the
	// image area.
	MinAreaRatio float64
	MaxAreaRatio float64

	// MinAspect and MaxAspect bound the width/height ratio.
	MinAspect float64
	MaxAspect float64

	// MinConfidence is the lowest confidence a region may have.
	MinConfidence float64
}

// Filter drops regions that fall outside the image or outside the limits.
//
// A region survives only if it lies entirely within the image bounds, its
// area ratio (region area / image area) is inside
// [MinAreaRatio, MaxAreaRatio], its aspect ratio is inside
// [MinAspect, MaxAspect], and its confidence is at least MinConfidence.
// The checks are independent predicates; input order is preserved.
func Filter(regions []Region, width, height int, lim Limits) []Region {
	imageArea := float64(width) * float64(height)
	if imageArea <= 0 {
		return nil
	}

	out := make([]Region, 0, len(regions))
	for _, r := range regions {
		if !r.WithinBounds(width, height) {
			continue
		}
		ratio := r.Area() / imageArea
		if ratio < lim.MinAreaRatio || ratio > lim.MaxAreaRatio {
			continue
		}
		aspect := r.AspectRatio()
		if aspect < lim.MinAspect || aspect > lim.MaxAspect {
			continue
		}
		if r.Confidence < lim.MinConfidence {
			continue
		}
		out = append(out, r)
	}
	return out
}
