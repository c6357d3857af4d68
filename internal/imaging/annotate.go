package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/mockframe/regiondetect/internal/region"
)

// Annotate draws region outlines with rank and confidence labels onto a
// copy of the image. Regions are drawn in the order given, so the first
// entry is labeled "1". The outline color is a hex string like "#FF0000"
// or "#FF0000CC"; unparseable colors fall back to opaque red.
func Annotate(img image.Image, regions []region.Region, outlineHex string) *image.RGBA {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	outline, err := parseHexColor(outlineHex)
	if err != nil {
		outline = color.RGBA{R: 255, A: 255}
	}

	result := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	labelColor := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	bgColor := color.RGBA{A: 180}

	for i, r := range regions {
		x0 := clamp(int(r.X), 0, width-1)
		y0 := clamp(int(r.Y), 0, height-1)
		x1 := clamp(int(r.X+r.Width), 0, width-1)
		y1 := clamp(int(r.Y+r.Height), 0, height-1)

		drawRectOutline(result, x0, y0, x1, y1, 2, outline)
		drawLabel(result, x0+4, y0+4, fmt.Sprintf("%d %.2f", i+1, r.Confidence), labelColor, bgColor)
	}
	return result
}

// drawRectOutline draws the border of a rectangle with the given stroke
// thickness, growing inward.
func drawRectOutline(img *image.RGBA, x0, y0, x1, y1, thickness int, c color.RGBA) {
	for t := 0; t < thickness; t++ {
		for x := x0; x <= x1; x++ {
			setIfInside(img, x, y0+t, c)
			setIfInside(img, x, y1-t, c)
		}
		for y := y0; y <= y1; y++ {
			setIfInside(img, x0+t, y, c)
			setIfInside(img, x1-t, y, c)
		}
	}
}

func setIfInside(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.Set(x, y, c)
	}
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// drawLabel draws a small text label at the given position using a 3x5
// pixel font covering digits, space, and the decimal point.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		'.': {"000", "000", "000", "000", "010"},
		' ': {"000", "000", "000", "000", "000"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	// Draw background
	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
				img.Set(px, py, bg)
			}
		}
	}

	// Draw text
	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					px, py := cx+col, y+row
					if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
						img.Set(px, py, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
