package detection

import (
	"context"
	"image"

	"github.com/mockframe/regiondetect/internal/imaging"
	"github.com/mockframe/regiondetect/internal/region"
)

// Input is the normalized working representation handed to every detector.
//
// The engine builds it once per call: the color image has any alpha
// flattened onto white and is within the configured dimension bounds, and
// the grayscale plane is derived from it. Detectors treat both as
// read-only, which is what makes them safe to run concurrently.
type Input struct {
	// Image is the normalized color image.
	Image *image.NRGBA

	// Gray is the grayscale plane of Image.
	Gray *imaging.Gray
}

// Width returns the image width in pixels.
func (in *Input) Width() int { return in.Gray.Width }

// Height returns the image height in pixels.
func (in *Input) Height() int { return in.Gray.Height }

// Detector is one independent strategy that scans an image and proposes
// candidate regions.
//
// Implementations are stateless with respect to the call: the same Input
// and configuration produce the same regions. A detector returns the
// candidates that survived its own filtering; an empty slice is a valid
// result. Errors are advisory — the engine logs them and treats the
// detector as having found nothing.
type Detector interface {
	// Name returns the detector's registry name, one of the names
	// accepted by config.EnabledDetectors.
	Name() string

	// Detect scans the input and returns candidate regions. The context
	// carries the per-detector deadline in parallel mode; implementations
	// with long inner loops check it between stages.
	Detect(ctx context.Context, in *Input) ([]region.Region, error)
}
