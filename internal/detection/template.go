package detection

import (
	"context"
	"math"
	"math/rand"

	"github.com/anthonynsimon/bild/noise"
	"github.com/anthonynsimon/bild/transform"

	"github.com/mockframe/regiondetect/internal/config"
	"github.com/mockframe/regiondetect/internal/imaging"
	"github.com/mockframe/regiondetect/internal/region"
)

const (
	// templateSize is the edge length of every synthetic reference patch.
	templateSize = 100

	// templateNMSIoU is the overlap above which a weaker match is
	// suppressed.
	templateNMSIoU = 0.3

	// matchStride is the sampling step when scanning a correlation plane.
	// Peaks wider than the stride still surface; NMS removes the rest.
	matchStride = 4

	// surfaceNoiseSeed fixes the texture of the surface template so every
	// engine instance matches against identical pixels.
	surfaceNoiseSeed = 7
)

// TemplateDetector matches synthetic reference patches against the image.
//
// Five generated patches model shapes that recur in mockup templates: a
// picture frame, a screen with a bright interior, a rounded device body, a
// paper sheet with a shadow edge, and a noisy textured surface. Each patch
// is matched at every configured scale with normalized cross-correlation;
// surviving matches are reduced by greedy non-maximum suppression.
type TemplateDetector struct {
	cfg       config.Config
	templates []template
}

type template struct {
	name string
	gray *imaging.Gray
}

// NewTemplateDetector creates a template detector and generates its
// reference patches.
func NewTemplateDetector(cfg config.Config) *TemplateDetector {
	return &TemplateDetector{
		cfg: cfg.Clone(),
		templates: []template{
			{"frame", frameTemplate(templateSize)},
			{"screen", screenTemplate(templateSize)},
			{"device", deviceTemplate(templateSize)},
			{"paper", paperTemplate(templateSize)},
			{"surface", surfaceTemplate(templateSize)},
		},
	}
}

// Name returns "template".
func (d *TemplateDetector) Name() string { return config.DetectorTemplate }

// Detect matches every template at every scale and returns filtered
// candidates.
func (d *TemplateDetector) Detect(ctx context.Context, in *Input) ([]region.Region, error) {
	width := in.Width()
	height := in.Height()

	var matches []region.Region
	for _, tpl := range d.templates {
		for _, scale := range d.cfg.TemplateScales {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			w := int(float64(tpl.gray.Width) * scale)
			h := int(float64(tpl.gray.Height) * scale)
			if w < 1 || h < 1 || w > width || h > height {
				continue
			}

			scaled := resizeGray(tpl.gray, w, h)
			result := imaging.MatchTemplate(in.Gray, scaled)

			for y := 0; y < result.Height; y += matchStride {
				for x := 0; x < result.Width; x += matchStride {
					score := result.Pix[y*result.Width+x]
					if score < d.cfg.TemplateMatchThreshold {
						continue
					}
					matches = append(matches, region.New(
						float64(x), float64(y), float64(w), float64(h),
						score, "template_"+tpl.name))
				}
			}
		}
	}

	// Highest-correlation matches win; overlapping weaker ones drop out.
	kept := region.Dedupe(matches, templateNMSIoU)

	out := make([]region.Region, 0, len(kept))
	for _, r := range kept {
		r.Confidence = math.Min(r.Confidence*templateBoost(r.Label), 1.0)
		out = append(out, r)
	}

	return region.Filter(out, width, height, d.cfg.Limits()), nil
}

// templateBoost nudges confidence up for the template kinds that most
// reliably indicate a placement area.
func templateBoost(label string) float64 {
	switch label {
	case "template_frame", "template_screen":
		return 1.1
	case "template_device":
		return 1.05
	}
	return 1.0
}

// resizeGray scales a grayscale plane through bild's transform package.
func resizeGray(src *imaging.Gray, w, h int) *imaging.Gray {
	if w == src.Width && h == src.Height {
		return src
	}
	return imaging.FromImage(transform.Resize(src.ToImage(), w, h, transform.Linear))
}

// frameTemplate draws a picture frame: a thick dark border around a light
// interior, with a thin mid-gray inner ring for depth.
func frameTemplate(size int) *imaging.Gray {
	t := filledGray(size, 255)

	border := size / 10
	drawBorder(t, 0, 0, size-1, size-1, border, 0)

	inner := border + size/20
	drawBorder(t, inner, inner, size-inner-1, size-inner-1, 2, 128)
	return t
}

// screenTemplate draws a monitor: a thin black bezel around a bright
// interior on a light body.
func screenTemplate(size int) *imaging.Gray {
	t := filledGray(size, 200)
	drawBorder(t, 0, 0, size-1, size-1, 2, 0)

	margin := size / 20
	fillRect(t, margin, margin, size-margin-1, size-margin-1, 255)
	return t
}

// deviceTemplate draws a phone-like body: a dark rounded rectangle with a
// lighter screen inset.
func deviceTemplate(size int) *imaging.Gray {
	t := filledGray(size, 255)

	radius := size / 10
	fillRect(t, radius, 0, size-radius-1, size-1, 50)
	fillRect(t, 0, radius, size-1, size-radius-1, 50)
	fillCircle(t, radius, radius, radius, 50)
	fillCircle(t, size-radius-1, radius, radius, 50)
	fillCircle(t, radius, size-radius-1, radius, 50)
	fillCircle(t, size-radius-1, size-radius-1, radius, 50)

	margin := size / 8
	fillRect(t, margin, margin, size-margin-1, size-margin-1, 200)
	return t
}

// paperTemplate draws a bright sheet with a dark shadow along its right
// and bottom edges.
func paperTemplate(size int) *imaging.Gray {
	t := filledGray(size, 240)
	fillRect(t, 2, 2, size-1, size-1, 180)
	fillRect(t, 0, 0, size-3, size-3, 255)
	return t
}

// surfaceTemplate draws a textured surface: seeded noise blended over a
// vertical brightness gradient.
func surfaceTemplate(size int) *imaging.Gray {
	rng := rand.New(rand.NewSource(surfaceNoiseSeed))
	grain := noise.Generate(size, size, &noise.Options{
		Monochrome: true,
		NoiseFn:    func() uint8 { return uint8(180 + rng.Intn(41)) },
	})

	t := imaging.NewGray(size, size)
	for y := 0; y < size; y++ {
		shade := 0.8 + 0.2*float64(y)/float64(size)
		for x := 0; x < size; x++ {
			n := float64(grain.Pix[(y*size+x)*4])
			t.Pix[y*size+x] = (200*0.7 + n*0.3) * shade
		}
	}
	return t
}

// filledGray allocates a plane with every pixel set to v.
func filledGray(size int, v float64) *imaging.Gray {
	t := imaging.NewGray(size, size)
	for i := range t.Pix {
		t.Pix[i] = v
	}
	return t
}

// fillRect fills the inclusive rectangle [x0,x1]×[y0,y1], clipped to the
// plane.
func fillRect(t *imaging.Gray, x0, y0, x1, y1 int, v float64) {
	for y := max(y0, 0); y <= y1 && y < t.Height; y++ {
		for x := max(x0, 0); x <= x1 && x < t.Width; x++ {
			t.Pix[y*t.Width+x] = v
		}
	}
}

// drawBorder draws the border of the inclusive rectangle with the given
// stroke width, growing inward.
func drawBorder(t *imaging.Gray, x0, y0, x1, y1, thickness int, v float64) {
	for s := 0; s < thickness; s++ {
		for x := x0; x <= x1; x++ {
			setGray(t, x, y0+s, v)
			setGray(t, x, y1-s, v)
		}
		for y := y0; y <= y1; y++ {
			setGray(t, x0+s, y, v)
			setGray(t, x1-s, y, v)
		}
	}
}

// fillCircle fills a disc centered at (cx, cy), clipped to the plane.
func fillCircle(t *imaging.Gray, cx, cy, radius int, v float64) {
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx := x - cx
			dy := y - cy
			if dx*dx+dy*dy <= radius*radius {
				setGray(t, x, y, v)
			}
		}
	}
}

func setGray(t *imaging.Gray, x, y int, v float64) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pix[y*t.Width+x] = v
}
