// Package imaging provides the pixel-level operations behind region
// detection.
//
// This package implements the processing primitives the detectors are built
// from: grayscale planes, Gaussian blur, contrast equalization, Canny edge
// extraction, global and adaptive thresholding, binary morphology, connected
// components, contour tracing, and normalized template matching. All
// operations work with standard Go image.Image inputs and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and
// Y increases downward.
//
// # Planes and Masks
//
// Heavy processing runs on two compact types rather than image.Image:
//
//   - Gray: a row-major float64 plane with values in [0, 255]. Keeping the
//     8-bit value range means threshold constants carry over unchanged
//     between operations.
//   - Mask: a row-major boolean plane marking foreground pixels, produced
//     by thresholding and consumed by morphology, components, and contours.
//
// Both types index pixels as y*Width+x and are not safe for concurrent
// mutation; detectors operate on their own copies.
//
// # Border Handling
//
// Convolution-style operations (blur, gradients, adaptive thresholds)
// replicate the nearest edge pixel for out-of-bounds taps. Morphology
// ignores kernel taps that fall outside the mask.
//
// # Error Handling
//
// Pure pixel transforms do not fail and return values directly. Functions
// touching decode, encode, or input validation (Normalize, LoadImage,
// SaveImage, Annotate) return errors for unusable inputs such as undersized
// images or unreadable files.
package imaging
