package export

import (
	"cmp"
	"fmt"
	"image"
	"image/png"
	"io"
	"slices"

	"github.com/Faultbox/ascii-donut/internal/raster"
)

// Luminance outside this range is clamped to the ends of the colormap.
const (
	projectionLumLo = -1.0
	projectionLumHi = 1.0
)

// ProjectionSource exposes the projected screen plane. *raster.Stage implements it.
type ProjectionSource interface {
	Project() (raster.Projection, error)
	Luminance() []float64
	Extent() float64
}

// WriteProjection plots every projected point (xp, zp) as a PNG of side
// size, colored by luminance. The plot covers [-1.1 I, 1.1 I] on both axes,
// where I is the stage extent, and nearer points are drawn over farther ones.
func WriteProjection(w io.Writer, src ProjectionSource, size int) error {
	if size <= 0 {
		return fmt.Errorf("projection size must be positive, got %d", size)
	}
	proj, err := src.Project()
	if err != nil {
		return err
	}
	lum := src.Luminance()
	if len(lum) != len(proj.XP) {
		return fmt.Errorf("projection got %d luminance values for %d points", len(lum), len(proj.XP))
	}
	extent := 1.1 * src.Extent()
	if !(extent > 0) {
		return fmt.Errorf("projection extent must be positive, got %g", extent)
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}

	order := make([]int, len(proj.XP))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(proj.InvDepth[b], proj.InvDepth[a])
	})

	scale := float64(size-1) / (2 * extent)
	for _, i := range order {
		x := int((proj.XP[i] + extent) * scale)
		y := int((extent - proj.ZP[i]) * scale)
		if !image.Pt(x, y).In(img.Rect) {
			continue
		}
		img.SetRGBA(x, y, colormap(lum[i], projectionLumLo, projectionLumHi))
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}
