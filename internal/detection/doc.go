// Package detection finds rectangular regions of an image suitable for
// placing secondary artwork, and ranks them by suitability.
//
// Five independent strategies implement the Detector interface:
//
//   - Edge: Canny edge map, external contours, rectangularity scoring
//   - Contour: four binarizations, polygon approximation, rectangle scoring
//   - Color: uniform-color masks in Lab/HSV, connected components
//   - Template: synthetic reference patches, multi-scale correlation
//   - Fallback: composition rules over the image dimensions alone
//
// The Engine orchestrates them: it validates and normalizes the input,
// runs the enabled detectors sequentially or in parallel, merges
// overlapping candidates, ranks the survivors with a weighted score, and
// truncates to the configured maximum. The fallback detector guarantees a
// non-empty result for any valid image.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Regions are reported in the coordinate space of the original input
// image, even when detection internally ran on a downscaled copy.
//
// # Confidence Scores
//
// Detectors attach confidence scores (0.0 to 1.0) indicating how well a
// candidate matches the strategy's expectation:
//   - Edge/contour: how rectangular the traced shape is
//   - Color: how completely a component fills its bounding box (capped at 0.9)
//   - Template: normalized cross-correlation of the best patch match
//   - Fallback: fixed per composition rule, 0.45 to 0.7
//
// Confidence is one of five components of the final ranking score; the
// others reward size, aspect ratio, centeredness and edge distance.
//
// # Failure Model
//
// A detector that errors, panics or exceeds its timeout contributes zero
// regions and is logged; it never aborts the call. Only an invalid input
// image (ErrInvalidInput) or a fully empty final result
// (ErrNoSuitableRegion) surface as errors to the caller.
package detection
