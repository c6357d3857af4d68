package imaging

import "math"

// Threshold produces a mask of pixels above the threshold, or at or below
// it when inverted is true.
func Threshold(src *Gray, thresh float64, inverted bool) *Mask {
	out := NewMask(src.Width, src.Height)
	for i, v := range src.Pix {
		out.Bits[i] = (v > thresh) != inverted
	}
	return out
}

// OtsuThreshold computes the global threshold that maximizes between-class
// variance over the plane's 256-bin histogram. The returned value separates
// background from foreground on bimodal planes; callers pass it to
// Threshold.
func OtsuThreshold(src *Gray) float64 {
	var hist [256]float64
	total := 0
	for _, v := range src.Pix {
		hist[int(clampFloat(math.Round(v), 0, 255))]++
		total++
	}
	if total == 0 {
		return 0
	}

	var sumAll float64
	for i, c := range hist {
		sumAll += float64(i) * c
	}

	var sumBg, weightBg float64
	var best float64
	bestThresh := 0
	for t := 0; t < 256; t++ {
		weightBg += hist[t]
		if weightBg == 0 {
			continue
		}
		weightFg := float64(total) - weightBg
		if weightFg == 0 {
			break
		}
		sumBg += float64(t) * hist[t]
		meanBg := sumBg / weightBg
		meanFg := (sumAll - sumBg) / weightFg
		d := meanBg - meanFg
		between := weightBg * weightFg * d * d
		if between > best {
			best = between
			bestThresh = t
		}
	}
	return float64(bestThresh)
}

// AdaptiveMeanThreshold thresholds each pixel against the mean of its
// blockSize x blockSize neighborhood minus c. blockSize must be odd.
// With inverted false a pixel is foreground when it exceeds the local
// threshold; inverted true selects pixels darker than their surroundings,
// the usual choice for dark content on light backgrounds.
func AdaptiveMeanThreshold(src *Gray, blockSize int, c float64, inverted bool) *Mask {
	table := newIntegralTable(src)
	radius := blockSize / 2

	out := NewMask(src.Width, src.Height)
	for y := 0; y < src.Height; y++ {
		y0 := clamp(y-radius, 0, src.Height-1)
		y1 := clamp(y+radius, 0, src.Height-1)
		for x := 0; x < src.Width; x++ {
			x0 := clamp(x-radius, 0, src.Width-1)
			x1 := clamp(x+radius, 0, src.Width-1)
			sum, _ := table.window(x0, y0, x1, y1)
			mean := sum / float64((x1-x0+1)*(y1-y0+1))
			out.Bits[y*src.Width+x] = (src.At(x, y) > mean-c) != inverted
		}
	}
	return out
}

// AdaptiveGaussianThreshold thresholds each pixel against a
// Gaussian-weighted neighborhood mean minus c. blockSize must be odd and
// sets both the window and the Gaussian kernel size.
func AdaptiveGaussianThreshold(src *Gray, blockSize int, c float64, inverted bool) *Mask {
	weighted := GaussianBlur(src, blockSize)

	out := NewMask(src.Width, src.Height)
	for i, v := range src.Pix {
		out.Bits[i] = (v > weighted.Pix[i]-c) != inverted
	}
	return out
}
