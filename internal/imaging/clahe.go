package imaging

import "math"

// CLAHE applies contrast-limited adaptive histogram equalization.
//
// The plane is divided into a tiles x tiles grid. Each tile gets its own
// equalization lookup table built from a histogram clipped at
// clipLimit*tileArea/256, with the clipped excess redistributed evenly
// across all bins. Per-pixel output bilinearly interpolates between the
// four surrounding tile tables, which avoids visible tile seams.
//
// Typical parameters are clipLimit 2.0 and tiles 8. Planes smaller than
// the tile grid fall back to a single global table.
func CLAHE(src *Gray, clipLimit float64, tiles int) *Gray {
	width := src.Width
	height := src.Height
	if tiles < 1 || width < tiles || height < tiles {
		tiles = 1
	}

	tileW := (width + tiles - 1) / tiles
	tileH := (height + tiles - 1) / tiles

	// Build one clipped-equalization LUT per tile.
	luts := make([][]float64, tiles*tiles)
	for ty := 0; ty < tiles; ty++ {
		y0 := ty * tileH
		y1 := clamp(y0+tileH, 0, height)
		for tx := 0; tx < tiles; tx++ {
			x0 := tx * tileW
			x1 := clamp(x0+tileW, 0, width)
			luts[ty*tiles+tx] = tileLUT(src, x0, y0, x1, y1, clipLimit)
		}
	}

	out := NewGray(width, height)
	for y := 0; y < height; y++ {
		// Fractional tile coordinate of the pixel, measured from tile
		// centers so interpolation weights are symmetric.
		fy := (float64(y) - float64(tileH)/2) / float64(tileH)
		j0 := int(math.Floor(fy))
		wy := fy - float64(j0)
		j1 := clamp(j0+1, 0, tiles-1)
		j0 = clamp(j0, 0, tiles-1)

		for x := 0; x < width; x++ {
			fx := (float64(x) - float64(tileW)/2) / float64(tileW)
			i0 := int(math.Floor(fx))
			wx := fx - float64(i0)
			i1 := clamp(i0+1, 0, tiles-1)
			i0 = clamp(i0, 0, tiles-1)

			v := int(clampFloat(math.Round(src.At(x, y)), 0, 255))
			top := (1-wx)*luts[j0*tiles+i0][v] + wx*luts[j0*tiles+i1][v]
			bottom := (1-wx)*luts[j1*tiles+i0][v] + wx*luts[j1*tiles+i1][v]
			out.Set(x, y, (1-wy)*top+wy*bottom)
		}
	}
	return out
}

// tileLUT builds the clipped equalization table for one tile window.
func tileLUT(src *Gray, x0, y0, x1, y1 int, clipLimit float64) []float64 {
	var hist [256]float64
	area := 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			v := int(clampFloat(math.Round(src.At(x, y)), 0, 255))
			hist[v]++
			area++
		}
	}

	lut := make([]float64, 256)
	if area == 0 {
		for i := range lut {
			lut[i] = float64(i)
		}
		return lut
	}

	// Clip the histogram and redistribute the excess evenly.
	clip := clipLimit * float64(area) / 256
	if clip < 1 {
		clip = 1
	}
	var excess float64
	for i := range hist {
		if hist[i] > clip {
			excess += hist[i] - clip
			hist[i] = clip
		}
	}
	share := excess / 256
	for i := range hist {
		hist[i] += share
	}

	scale := 255 / float64(area)
	var cdf float64
	for i := range hist {
		cdf += hist[i]
		lut[i] = clampFloat(cdf*scale, 0, 255)
	}
	return lut
}
