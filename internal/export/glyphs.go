// Package export writes rendered frames and the point cloud to image files.
package export

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Glyph cell size of basicfont.Face7x13.
const (
	cellWidth  = 7
	cellHeight = 13
)

// framePalette is shared by every GIF frame: background, then text.
var framePalette = color.Palette{
	color.RGBA{0x10, 0x10, 0x10, 0xff},
	color.RGBA{0xe8, 0xe8, 0xe8, 0xff},
}

// DrawGrid renders a character grid as a paletted image, one 7x13 cell per
// character. Rows may have different lengths.
func DrawGrid(grid [][]byte) *image.Paletted {
	cols := 0
	for _, row := range grid {
		cols = max(cols, len(row))
	}

	img := image.NewPaletted(image.Rect(0, 0, max(cols, 1)*cellWidth, max(len(grid), 1)*cellHeight), framePalette)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(framePalette[1]),
		Face: basicfont.Face7x13,
	}
	for r, row := range grid {
		for c, ch := range row {
			if ch == ' ' {
				continue
			}
			d.Dot = fixed.P(c*cellWidth, r*cellHeight+basicfont.Face7x13.Ascent)
			d.DrawString(string(rune(ch)))
		}
	}
	return img
}
