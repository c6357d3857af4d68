package imaging

import (
	"image"
	"math"
)

// Contour is the ordered outer boundary of a connected region, one entry
// per boundary pixel.
type Contour []image.Point

// mooreRing lists the 8 neighbor offsets in clockwise order starting west,
// with Y increasing downward.
var mooreRing = [8]image.Point{
	{X: -1, Y: 0}, {X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: -1, Y: 1},
}

// ringIndex maps a neighbor offset back to its mooreRing position,
// indexed as [dy+1][dx+1]. The center entry is unused.
var ringIndex = [3][3]int{
	{1, 2, 3},
	{0, -1, 4},
	{7, 6, 5},
}

// FindContours traces the outer boundary of every 8-connected foreground
// region, one contour per region, in scan order of the region's topmost
// leftmost pixel. Holes are not traced.
func FindContours(m *Mask) []Contour {
	width := m.Width
	height := m.Height
	visited := make([]bool, width*height)
	queue := make([]int, 0, 256)

	var out []Contour
	for start, fg := range m.Bits {
		if !fg || visited[start] {
			continue
		}

		out = append(out, traceBoundary(m, start%width, start/width))

		// Flood the whole component so it is traced exactly once.
		visited[start] = true
		queue = append(queue[:0], start)
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
					if m.Bits[n] && !visited[n] {
						visited[n] = true
						queue = append(queue, n)
					}
				}
			}
		}
	}
	return out
}

// traceBoundary walks the outer boundary clockwise with Moore neighbor
// tracing. (sx, sy) must be the topmost leftmost pixel of its region, which
// guarantees the west neighbor is background. Tracing stops when the start
// pixel is left in the same direction as the first move, so boundaries that
// legitimately pass through the start twice are followed to the end.
func traceBoundary(m *Mask, sx, sy int) Contour {
	start := image.Pt(sx, sy)
	contour := Contour{start}

	cur := start
	backtrack := 0 // ring index of the last known background neighbor
	firstDir := -1

	limit := 4*m.Width*m.Height + 8
	for step := 0; step < limit; step++ {
		found := -1
		for i := 1; i <= 8; i++ {
			d := (backtrack + i) % 8
			n := cur.Add(mooreRing[d])
			if m.At(n.X, n.Y) {
				found = d
				break
			}
		}
		if found < 0 {
			// Isolated pixel.
			return contour
		}

		if firstDir == -1 {
			firstDir = found
		} else if cur == start && found == firstDir {
			return contour
		}

		next := cur.Add(mooreRing[found])
		if next != start {
			contour = append(contour, next)
		}

		// The neighbor examined just before the hit is background and
		// becomes the next backtrack reference.
		prevBg := cur.Add(mooreRing[(found+7)%8])
		rel := prevBg.Sub(next)
		backtrack = ringIndex[rel.Y+1][rel.X+1]
		cur = next
	}
	return contour
}

// Area returns the enclosed polygon area by the shoelace formula.
func (c Contour) Area() float64 {
	if len(c) < 3 {
		return 0
	}
	var sum float64
	for i, p := range c {
		q := c[(i+1)%len(c)]
		sum += float64(p.X)*float64(q.Y) - float64(q.X)*float64(p.Y)
	}
	return math.Abs(sum) / 2
}

// Perimeter returns the summed segment lengths, including the closing
// segment when closed is true.
func (c Contour) Perimeter(closed bool) float64 {
	if len(c) < 2 {
		return 0
	}
	var sum float64
	for i := 0; i+1 < len(c); i++ {
		sum += pointDistance(c[i], c[i+1])
	}
	if closed {
		sum += pointDistance(c[len(c)-1], c[0])
	}
	return sum
}

// BoundingRect returns the tight axis-aligned bounding rectangle.
func (c Contour) BoundingRect() image.Rectangle {
	if len(c) == 0 {
		return image.Rectangle{}
	}
	minX, minY := c[0].X, c[0].Y
	maxX, maxY := c[0].X, c[0].Y
	for _, p := range c[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// IsConvex reports whether the closed polygon turns in a single direction.
// Collinear runs are tolerated; polygons with fewer than 3 points are not
// convex.
func (c Contour) IsConvex() bool {
	if len(c) < 3 {
		return false
	}
	sign := 0
	n := len(c)
	for i := 0; i < n; i++ {
		a := c[i]
		b := c[(i+1)%n]
		d := c[(i+2)%n]
		cross := (b.X-a.X)*(d.Y-b.Y) - (b.Y-a.Y)*(d.X-b.X)
		if cross == 0 {
			continue
		}
		s := 1
		if cross < 0 {
			s = -1
		}
		if sign == 0 {
			sign = s
		} else if s != sign {
			return false
		}
	}
	return true
}

// ApproxPolyDP simplifies a closed contour with the Douglas-Peucker
// algorithm. Vertices farther than epsilon from the simplified outline are
// kept; epsilon is in pixels.
func ApproxPolyDP(c Contour, epsilon float64) Contour {
	if len(c) < 3 {
		return append(Contour(nil), c...)
	}

	// Split the ring at the point farthest from the first vertex so both
	// halves are open chains with fixed endpoints.
	far := 0
	var farDist float64
	for i, p := range c {
		if d := pointDistance(c[0], p); d > farDist {
			farDist = d
			far = i
		}
	}
	if far == 0 {
		// All points coincide.
		return Contour{c[0]}
	}

	first := simplifyChain(c[:far+1], epsilon)
	second := simplifyChain(append(append(Contour(nil), c[far:]...), c[0]), epsilon)

	out := append(Contour(nil), first...)
	// Both chains share their endpoints, drop the duplicates.
	if len(second) > 2 {
		out = append(out, second[1:len(second)-1]...)
	}
	return out
}

// simplifyChain runs Douglas-Peucker on an open chain, always keeping both
// endpoints.
func simplifyChain(points Contour, epsilon float64) Contour {
	if len(points) < 3 {
		return append(Contour(nil), points...)
	}

	var maxDist float64
	index := 0
	for i := 1; i < len(points)-1; i++ {
		if d := perpendicularDistance(points[i], points[0], points[len(points)-1]); d > maxDist {
			maxDist = d
			index = i
		}
	}
	if maxDist <= epsilon {
		return Contour{points[0], points[len(points)-1]}
	}

	left := simplifyChain(points[:index+1], epsilon)
	right := simplifyChain(points[index:], epsilon)
	return append(left[:len(left)-1], right...)
}

// perpendicularDistance is the distance from p to the line through a and b,
// falling back to point distance when a and b coincide.
func perpendicularDistance(p, a, b image.Point) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	length := math.Sqrt(dx*dx + dy*dy)
	if length == 0 {
		return pointDistance(p, a)
	}
	cross := dx*float64(p.Y-a.Y) - dy*float64(p.X-a.X)
	return math.Abs(cross) / length
}

func pointDistance(a, b image.Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
