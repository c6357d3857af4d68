package imaging

// LocalMean computes the box-filtered mean of src over a square window.
// The window is centered on each pixel and clipped at the image border, so
// edge pixels average over a smaller neighborhood. window must be odd and
// positive.
func LocalMean(src *Gray, window int) *Gray {
	out := NewGray(src.Width, src.Height)
	table := newIntegralTable(src)
	half := window / 2

	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			x0 := clamp(x-half, 0, src.Width-1)
			x1 := clamp(x+half, 0, src.Width-1)
			y0 := clamp(y-half, 0, src.Height-1)
			y1 := clamp(y+half, 0, src.Height-1)

			sum, _ := table.window(x0, y0, x1, y1)
			n := float64((x1 - x0 + 1) * (y1 - y0 + 1))
			out.Pix[y*src.Width+x] = sum / n
		}
	}
	return out
}

// LocalVariance computes the per-pixel variance of src over a square
// window, E[v²] - E[v]², with the same border clipping as LocalMean.
// Tiny negative results from floating-point cancellation are clamped to 0.
func LocalVariance(src *Gray, window int) *Gray {
	out := NewGray(src.Width, src.Height)
	table := newIntegralTable(src)
	half := window / 2

	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			x0 := clamp(x-half, 0, src.Width-1)
			x1 := clamp(x+half, 0, src.Width-1)
			y0 := clamp(y-half, 0, src.Height-1)
			y1 := clamp(y+half, 0, src.Height-1)

			sum, sq := table.window(x0, y0, x1, y1)
			n := float64((x1 - x0 + 1) * (y1 - y0 + 1))
			mean := sum / n
			v := sq/n - mean*mean
			if v < 0 {
				v = 0
			}
			out.Pix[y*src.Width+x] = v
		}
	}
	return out
}
