package detection

import (
	"context"

	"github.com/mockframe/regiondetect/internal/config"
	"github.com/mockframe/regiondetect/internal/imaging"
	"github.com/mockframe/regiondetect/internal/region"
)

// frameEdgeMargin is how close to the image border a region must sit to be
// considered a frame candidate.
const frameEdgeMargin = 50

// EdgeDetector finds regions by tracing the contours of an edge map.
//
// The pipeline is grayscale → Gaussian blur → CLAHE contrast enhancement →
// Canny → morphological close → external contours. Each sufficiently large
// contour becomes a candidate whose confidence measures how rectangular
// the contour is.
type EdgeDetector struct {
	cfg config.Config
}

// NewEdgeDetector creates an edge detector using the given configuration.
func NewEdgeDetector(cfg config.Config) *EdgeDetector {
	return &EdgeDetector{cfg: cfg.Clone()}
}

// Name returns "edge".
func (d *EdgeDetector) Name() string { return config.DetectorEdge }

// Detect runs the edge pipeline and returns filtered candidates.
func (d *EdgeDetector) Detect(ctx context.Context, in *Input) ([]region.Region, error) {
	width := in.Width()
	height := in.Height()

	blurred := imaging.GaussianBlur(in.Gray, d.cfg.BlurKernelSize)
	enhanced := imaging.CLAHE(blurred, 2.0, 8)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	edges := imaging.Canny(enhanced,
		float64(d.cfg.CannyLowThreshold), float64(d.cfg.CannyHighThreshold), 3)

	// Close small gaps so broken outlines trace as one contour.
	closed := edges.Close(imaging.RectKernel(3, 3))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var candidates []region.Region
	for _, contour := range imaging.FindContours(closed) {
		area := contour.Area()
		if area < d.cfg.MinContourArea {
			continue
		}

		rect := contour.BoundingRect()
		confidence := d.rectangularity(contour, rect.Dx(), rect.Dy())
		if confidence < d.cfg.ConfidenceThreshold {
			continue
		}

		label := "edge_region"
		if frameLike(rect.Min.X, rect.Min.Y, rect.Dx(), rect.Dy(), width, height) {
			label = "edge_frame"
		}

		candidates = append(candidates, region.New(
			float64(rect.Min.X), float64(rect.Min.Y),
			float64(rect.Dx()), float64(rect.Dy()),
			confidence, label))
	}

	return region.Filter(candidates, width, height, d.cfg.Limits()), nil
}

// rectangularity scores how closely a contour resembles its bounding
// rectangle: 0.4 × fill ratio + 0.4 × vertex score + 0.2 × convexity.
func (d *EdgeDetector) rectangularity(contour imaging.Contour, w, h int) float64 {
	rectArea := float64(w * h)
	if rectArea == 0 {
		return 0
	}
	areaRatio := contour.Area() / rectArea

	epsilon := d.cfg.ApproxEpsilonFactor * contour.Perimeter(true)
	approx := imaging.ApproxPolyDP(contour, epsilon)

	vertexScore := 0.5
	switch len(approx) {
	case 4:
		vertexScore = 1.0
	case 3, 5, 6:
		vertexScore = 0.7
	}

	convexityScore := 0.8
	if approx.IsConvex() {
		convexityScore = 1.0
	}

	confidence := areaRatio*0.4 + vertexScore*0.4 + convexityScore*0.2
	if confidence > 1 {
		confidence = 1
	}
	return confidence
}

// frameLike reports whether a box looks like a picture frame or border: it
// hugs the image edge, is roughly square-ish, and covers a frame-sized
// share of the image.
func frameLike(x, y, w, h, imgW, imgH int) bool {
	nearEdge := x < frameEdgeMargin || y < frameEdgeMargin ||
		x+w > imgW-frameEdgeMargin || y+h > imgH-frameEdgeMargin

	aspect := 0.0
	if h > 0 {
		aspect = float64(w) / float64(h)
	}
	goodAspect := aspect >= 0.5 && aspect <= 2.0

	areaRatio := float64(w*h) / float64(imgW*imgH)
	goodSize := areaRatio >= 0.05 && areaRatio <= 0.7

	return nearEdge && goodAspect && goodSize
}
