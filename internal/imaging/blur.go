package imaging

import "math"

// GaussianBlur smooths a plane with a separable Gaussian kernel.
//
// ksize is the kernel width and must be odd and at least 3. The standard
// deviation is derived from the kernel size as 0.3*((ksize-1)*0.5 - 1) + 0.8,
// the usual default for automatic sigma selection, so callers tune blur
// strength through the kernel size alone. Border pixels replicate the
// nearest edge value.
func GaussianBlur(src *Gray, ksize int) *Gray {
	if ksize < 3 {
		return src.Clone()
	}
	kernel := gaussianKernel1D(ksize)
	radius := ksize / 2

	width := src.Width
	height := src.Height

	// Horizontal pass.
	tmp := NewGray(width, height)
	for y := 0; y < height; y++ {
		row := src.Pix[y*width : (y+1)*width]
		for x := 0; x < width; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sum += row[clamp(x+k, 0, width-1)] * kernel[k+radius]
			}
			tmp.Pix[y*width+x] = sum
		}
	}

	// Vertical pass.
	out := NewGray(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sum += tmp.Pix[clamp(y+k, 0, height-1)*width+x] * kernel[k+radius]
			}
			out.Pix[y*width+x] = sum
		}
	}
	return out
}

// gaussianKernel1D builds a normalized 1D Gaussian kernel of the given odd
// size.
func gaussianKernel1D(ksize int) []float64 {
	sigma := 0.3*(float64(ksize-1)*0.5-1) + 0.8
	radius := ksize / 2

	kernel := make([]float64, ksize)
	var sum float64
	for i := range kernel {
		d := float64(i - radius)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}
