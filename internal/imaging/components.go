package imaging

import "image"

// Component describes one connected region of foreground pixels.
type Component struct {
	// Area is the number of pixels in the component.
	Area int

	// Rect is the tight bounding rectangle.
	Rect image.Rectangle

	// CentroidX and CentroidY are the mean pixel coordinates.
	CentroidX float64
	CentroidY float64
}

// Components labels 8-connected foreground regions and returns one entry
// per region with at least minArea pixels. Regions are reported in scan
// order of their first pixel (top to bottom, left to right).
func Components(m *Mask, minArea int) []Component {
	width := m.Width
	height := m.Height
	visited := make([]bool, width*height)
	queue := make([]int, 0, 256)

	var out []Component
	for start, fg := range m.Bits {
		if !fg || visited[start] {
			continue
		}

		// Flood the component with an explicit queue; recursion would
		// overflow on large regions.
		visited[start] = true
		queue = append(queue[:0], start)

		area := 0
		minX, minY := width, height
		maxX, maxY := -1, -1
		var sumX, sumY int

		for len(queue) > 0 {
			idx := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			x := idx % width
			y := idx / width

			area++
			sumX += x
			sumY += y
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}

			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					px := x + kx
					py := y + ky
					if px < 0 || px >= width || py < 0 || py >= height {
						continue
					}
					n := py*width + px
					if m.Bits[n] && !visited[n] {
						visited[n] = true
						queue = append(queue, n)
					}
				}
			}
		}

		if area >= minArea {
			out = append(out, Component{
				Area:      area,
				Rect:      image.Rect(minX, minY, maxX+1, maxY+1),
				CentroidX: float64(sumX) / float64(area),
				CentroidY: float64(sumY) / float64(area),
			})
		}
	}
	return out
}
