package imaging

import "math"

// MatchTemplate slides tpl over src and scores every position with
// zero-normalized cross-correlation, the mean-subtracted cosine similarity
// of the window and the template. Scores lie in [-1, 1], where 1 is a
// perfect match up to brightness and contrast shifts.
//
// The result plane has dimensions (src.Width-tpl.Width+1) by
// (src.Height-tpl.Height+1); entry (x, y) scores the window whose top-left
// corner is at (x, y). A template larger than the source yields an empty
// plane. Windows or templates with no variance score 0.
func MatchTemplate(src, tpl *Gray) *Gray {
	outW := src.Width - tpl.Width + 1
	outH := src.Height - tpl.Height + 1
	if outW <= 0 || outH <= 0 {
		return NewGray(0, 0)
	}

	// Mean-subtract the template once; its norm is shared by every window.
	n := float64(tpl.Width * tpl.Height)
	var tplMean float64
	for _, v := range tpl.Pix {
		tplMean += v
	}
	tplMean /= n

	tplZero := make([]float64, len(tpl.Pix))
	var tplSq float64
	for i, v := range tpl.Pix {
		d := v - tplMean
		tplZero[i] = d
		tplSq += d * d
	}
	tplNorm := math.Sqrt(tplSq)

	out := NewGray(outW, outH)
	if tplNorm == 0 {
		return out
	}

	table := newIntegralTable(src)
	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			sum, sumSq := table.window(x, y, x+tpl.Width-1, y+tpl.Height-1)
			variance := sumSq - sum*sum/n
			if variance <= 0 {
				continue
			}

			// Since the template is zero-mean, subtracting the window mean
			// from the window contributes nothing to the dot product.
			var dot float64
			for ty := 0; ty < tpl.Height; ty++ {
				srcRow := (y + ty) * src.Width
				tplRow := ty * tpl.Width
				for tx := 0; tx < tpl.Width; tx++ {
					dot += src.Pix[srcRow+x+tx] * tplZero[tplRow+tx]
				}
			}

			score := dot / (math.Sqrt(variance) * tplNorm)
			out.Pix[y*outW+x] = clampFloat(score, -1, 1)
		}
	}
	return out
}
