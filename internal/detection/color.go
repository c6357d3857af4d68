package detection

import (
	"context"
	"errors"
	"image"
	"math"
	"math/rand"

	"github.com/mockframe/regiondetect/internal/config"
	"github.com/mockframe/regiondetect/internal/imaging"
	"github.com/mockframe/regiondetect/internal/region"
)

const (
	// chromaFloor is the saturation/value floor (on a [0, 1] scale) below
	// which a pixel carries no usable hue. Mirrors an 8-bit threshold of 30.
	chromaFloor = 30.0 / 255

	// neutralBand is how far the Lab a/b channels may stray from the
	// 128 chromaticity center while still counting as gray/white/black.
	neutralBand = 15.0

	// hueVarianceLimit bounds the combined circular variance of hue for a
	// window to count as locally consistent.
	hueVarianceLimit = 0.1

	// dominantColorCount is the number of clusters the dominant-color
	// strategy extracts.
	dominantColorCount = 5

	// clusterSeed fixes the k-means initialization so repeated runs on the
	// same image produce the same centers.
	clusterSeed = 42
)

// ColorDetector finds uniformly colored areas that could serve as
// placement surfaces.
//
// Four independent mask strategies run over re-encoded color planes of the
// same image: low lightness variance, dominant-color clusters, locally
// consistent hue, and near-neutral chromaticity. Connected components of
// each cleaned mask become candidates. Confidence is capped below 0.9 so a
// color match never outranks a structural detection on its own.
type ColorDetector struct {
	cfg config.Config
}

// NewColorDetector creates a color detector using the given configuration.
func NewColorDetector(cfg config.Config) *ColorDetector {
	return &ColorDetector{cfg: cfg.Clone()}
}

// Name returns "color".
func (d *ColorDetector) Name() string { return config.DetectorColor }

// Detect runs all four mask strategies and returns filtered candidates.
func (d *ColorDetector) Detect(ctx context.Context, in *Input) ([]region.Region, error) {
	width := in.Width()
	height := in.Height()

	planes := imaging.NewColorPlanes(in.Image, chromaFloor, chromaFloor)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var masks []*imaging.Mask
	if m := d.lowVarianceMask(planes); m != nil {
		masks = append(masks, m)
	}
	masks = append(masks, d.dominantColorMasks(in.Image)...)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m := d.consistentHueMask(planes); m != nil {
		masks = append(masks, m)
	}
	if m := d.neutralMask(planes); m != nil {
		masks = append(masks, m)
	}

	var candidates []region.Region
	for _, mask := range masks {
		for _, comp := range imaging.Components(mask, d.cfg.MinColorRegionSize) {
			rectArea := float64(comp.Rect.Dx() * comp.Rect.Dy())
			if rectArea == 0 {
				continue
			}
			fill := float64(comp.Area) / rectArea
			candidates = append(candidates, region.New(
				float64(comp.Rect.Min.X), float64(comp.Rect.Min.Y),
				float64(comp.Rect.Dx()), float64(comp.Rect.Dy()),
				fill*0.9, "color_region"))
		}
	}

	return region.Filter(candidates, width, height, d.cfg.Limits()), nil
}

// lowVarianceMask marks windows whose lightness barely varies.
func (d *ColorDetector) lowVarianceMask(p *imaging.ColorPlanes) *imaging.Mask {
	variance := imaging.LocalVariance(p.L, 15)

	mask := imaging.NewMask(variance.Width, variance.Height)
	for i, v := range variance.Pix {
		mask.Bits[i] = v < d.cfg.ColorThreshold
	}

	kernel := imaging.EllipseKernel(5, 5)
	mask = mask.Open(kernel).Close(kernel)
	if mask.Count() < d.cfg.MinColorRegionSize {
		return nil
	}
	return mask
}

// dominantColorMasks produces one inclusion mask per dominant color.
//
// Clustering runs on a quarter-scale copy to keep the cost bounded. When
// k-means degenerates (too few distinct colors, or an empty cluster) the
// strategy falls back to bucket quantization, which shifts confidences
// slightly but keeps geometry stable.
func (d *ColorDetector) dominantColorMasks(img *image.NRGBA) []*imaging.Mask {
	small := imaging.Downsample(img, 0.25)

	centers, err := kMeansCenters(samplePixels(small), dominantColorCount, clusterSeed)
	if err != nil {
		centers = quantizedCenters(small, dominantColorCount)
	}

	kernel := imaging.EllipseKernel(7, 7)
	var masks []*imaging.Mask
	for _, center := range centers {
		mask := d.inRangeMask(img, center)
		mask = mask.Open(kernel).Close(kernel)
		if mask.Count() > d.cfg.MinColorRegionSize {
			masks = append(masks, mask)
		}
	}
	return masks
}

// inRangeMask marks pixels within ColorThreshold of center on every
// channel.
func (d *ColorDetector) inRangeMask(img *image.NRGBA, center [3]float64) *imaging.Mask {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	thr := d.cfg.ColorThreshold

	mask := imaging.NewMask(width, height)
	for y := 0; y < height; y++ {
		row := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < width; x++ {
			o := row + x*4
			r := float64(img.Pix[o])
			g := float64(img.Pix[o+1])
			b := float64(img.Pix[o+2])
			if math.Abs(r-center[0]) <= thr &&
				math.Abs(g-center[1]) <= thr &&
				math.Abs(b-center[2]) <= thr {
				mask.Bits[y*width+x] = true
			}
		}
	}
	return mask
}

// consistentHueMask marks chromatic windows whose hue barely rotates.
func (d *ColorDetector) consistentHueMask(p *imaging.ColorPlanes) *imaging.Mask {
	if p.Chromatic.Count() < d.cfg.MinColorRegionSize {
		return nil
	}

	sinVar := imaging.LocalVariance(p.HueSin, 11)
	cosVar := imaging.LocalVariance(p.HueCos, 11)

	mask := imaging.NewMask(sinVar.Width, sinVar.Height)
	for i := range mask.Bits {
		mask.Bits[i] = p.Chromatic.Bits[i] && sinVar.Pix[i]+cosVar.Pix[i] < hueVarianceLimit
	}

	kernel := imaging.EllipseKernel(5, 5)
	return mask.Open(kernel).Close(kernel)
}

// neutralMask marks gray, white and black pixels via small a/b deviation.
func (d *ColorDetector) neutralMask(p *imaging.ColorPlanes) *imaging.Mask {
	mask := imaging.NewMask(p.A.Width, p.A.Height)
	for i := range mask.Bits {
		mask.Bits[i] = math.Abs(p.A.Pix[i]-128) < neutralBand &&
			math.Abs(p.B.Pix[i]-128) < neutralBand
	}

	kernel := imaging.EllipseKernel(7, 7)
	mask = mask.Open(kernel).Close(kernel)
	if mask.Count() < d.cfg.MinColorRegionSize {
		return nil
	}
	return mask
}

// samplePixels flattens an image into RGB triples on the 8-bit scale.
func samplePixels(img *image.NRGBA) [][3]float64 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	out := make([][3]float64, 0, width*height)
	for y := 0; y < height; y++ {
		row := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < width; x++ {
			o := row + x*4
			out = append(out, [3]float64{
				float64(img.Pix[o]),
				float64(img.Pix[o+1]),
				float64(img.Pix[o+2]),
			})
		}
	}
	return out
}

// quantizedCenters is the deterministic fallback when clustering cannot
// run: the most frequent 32-step color buckets stand in for cluster
// centers.
func quantizedCenters(img *image.NRGBA, count int) [][3]float64 {
	colors := imaging.DominantColors(img, count)
	out := make([][3]float64, 0, len(colors))
	for _, c := range colors {
		out = append(out, [3]float64{float64(c.R), float64(c.G), float64(c.B)})
	}
	return out
}

// errDegenerateClusters signals that k-means cannot produce k meaningful
// centers for this input.
var errDegenerateClusters = errors.New("degenerate clusters")

// kMeansCenters clusters RGB triples into k centers with a seeded
// k-means++ initialization, so results are reproducible per image.
func kMeansCenters(pixels [][3]float64, k int, seed int64) ([][3]float64, error) {
	if len(pixels) < k {
		return nil, errDegenerateClusters
	}

	rng := rand.New(rand.NewSource(seed))
	centers := seedCenters(pixels, k, rng)
	if centers == nil {
		return nil, errDegenerateClusters
	}

	assign := make([]int, len(pixels))
	for iter := 0; iter < 10; iter++ {
		changed := false
		for i, px := range pixels {
			best := 0
			bestDist := math.MaxFloat64
			for c, center := range centers {
				d := sqDist(px, center)
				if d < bestDist {
					bestDist = d
					best = c
				}
			}
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}

		sums := make([][3]float64, k)
		counts := make([]int, k)
		for i, px := range pixels {
			c := assign[i]
			sums[c][0] += px[0]
			sums[c][1] += px[1]
			sums[c][2] += px[2]
			counts[c]++
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				return nil, errDegenerateClusters
			}
			n := float64(counts[c])
			centers[c] = [3]float64{sums[c][0] / n, sums[c][1] / n, sums[c][2] / n}
		}

		if !changed {
			break
		}
	}
	return centers, nil
}

// seedCenters picks k initial centers with the k-means++ rule: each next
// center is sampled proportionally to squared distance from the nearest
// chosen one. Returns nil when the input has fewer than k distinct colors.
func seedCenters(pixels [][3]float64, k int, rng *rand.Rand) [][3]float64 {
	centers := make([][3]float64, 0, k)
	centers = append(centers, pixels[rng.Intn(len(pixels))])

	dists := make([]float64, len(pixels))
	for len(centers) < k {
		var total float64
		for i, px := range pixels {
			best := math.MaxFloat64
			for _, c := range centers {
				if d := sqDist(px, c); d < best {
					best = d
				}
			}
			dists[i] = best
			total += best
		}
		if total == 0 {
			return nil
		}

		target := rng.Float64() * total
		acc := 0.0
		pick := len(pixels) - 1
		for i, d := range dists {
			acc += d
			if acc >= target {
				pick = i
				break
			}
		}
		centers = append(centers, pixels[pick])
	}
	return centers
}

func sqDist(a, b [3]float64) float64 {
	dr := a[0] - b[0]
	dg := a[1] - b[1]
	db := a[2] - b[2]
	return dr*dr + dg*dg + db*db
}
