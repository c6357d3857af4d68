package imaging

import "math"

// Canny extracts an edge mask from a grayscale plane.
//
// The implementation follows the classic Canny pipeline:
//
//  1. Gaussian blur with the given kernel size to reduce noise.
//
//  2. Gradient computation with Sobel operators:
//     magnitude = sqrt(Gx² + Gy²), direction = atan2(Gy, Gx)
//
//  3. Non-maximum suppression, thinning edges to one pixel by keeping only
//     local maxima along the gradient direction.
//
//  4. Hysteresis thresholding. Pixels with magnitude above highThreshold
//     are strong edges and always kept. Pixels between the thresholds are
//     weak edges, kept only when 8-connected to a strong edge through
//     other kept pixels. Everything below lowThreshold is discarded.
//
// Thresholds are on the same [0, 255] scale as the plane values. Lower
// thresholds detect more edges but increase noise; higher thresholds
// produce cleaner results but may miss faint boundaries.
func Canny(src *Gray, lowThreshold, highThreshold float64, blurKsize int) *Mask {
	width := src.Width
	height := src.Height

	blurred := GaussianBlur(src, blurKsize)

	// Sobel gradients.
	magnitude := make([]float64, width*height)
	direction := make([]float64, width*height)
	sobelX := [3][3]float64{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	sobelY := [3][3]float64{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := blurred.Pix[clamp(y+ky, 0, height-1)*width+clamp(x+kx, 0, width-1)]
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y*width+x] = math.Sqrt(gx*gx + gy*gy)
			direction[y*width+x] = math.Atan2(gy, gx)
		}
	}

	// Non-maximum suppression along the gradient direction.
	suppressed := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			angle := direction[y*width+x]
			mag := magnitude[y*width+x]

			var n1, n2 float64
			if (angle >= -math.Pi/8 && angle < math.Pi/8) || (angle >= 7*math.Pi/8 || angle < -7*math.Pi/8) {
				n1 = magnitude[y*width+x-1]
				n2 = magnitude[y*width+x+1]
			} else if (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8) {
				n1 = magnitude[(y-1)*width+x+1]
				n2 = magnitude[(y+1)*width+x-1]
			} else if (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8) {
				n1 = magnitude[(y-1)*width+x]
				n2 = magnitude[(y+1)*width+x]
			} else {
				n1 = magnitude[(y-1)*width+x-1]
				n2 = magnitude[(y+1)*width+x+1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[y*width+x] = mag
			}
		}
	}

	// Hysteresis: seed from strong edges and grow through weak neighbors.
	out := NewMask(width, height)
	queue := make([]int, 0, width+height)
	for i, mag := range suppressed {
		if mag >= highThreshold {
			out.Bits[i] = true
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		idx := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		x := idx % width
		y := idx / width
		for ky := -1; ky <= 1; ky++ {
			for kx := -1; kx <= 1; kx++ {
				px := x + kx
				py := y + ky
				if px < 0 || px >= width || py < 0 || py >= height {
					continue
				}
				n := py*width + px
				if !out.Bits[n] && suppressed[n] >= lowThreshold {
					out.Bits[n] = true
					queue = append(queue, n)
				}
			}
		}
	}
	return out
}
