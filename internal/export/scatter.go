package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"slices"

	m "github.com/Faultbox/ascii-donut/pkg/math"
)

// ScatterOptions controls the point cloud plot.
type ScatterOptions struct {
	Size   int       // Image side in pixels
	Values []float64 // Per-point color scalar; nil colors by point index
	View   m.Mat3    // Camera rotation; the zero value uses DefaultView
	Dot    int       // Dot side in pixels; 0 means 2
}

// DefaultView looks at the cloud from above at an angle.
func DefaultView() m.Mat3 {
	return m.RotateX(-0.9).Mul(m.RotateZ(0.6))
}

// viridis anchor colors, low to high.
var viridis = []color.RGBA{
	{0x44, 0x01, 0x54, 0xff},
	{0x3b, 0x52, 0x8b, 0xff},
	{0x21, 0x91, 0x8c, 0xff},
	{0x5e, 0xc9, 0x62, 0xff},
	{0xfd, 0xe7, 0x25, 0xff},
}

// WriteScatter plots points orthographically after the view rotation. The
// image x axis follows view-space x, image up follows view-space z, and
// points with larger view-space y are drawn on top.
func WriteScatter(w io.Writer, points []m.Vec3, opts ScatterOptions) error {
	if opts.Size <= 0 {
		return fmt.Errorf("scatter size must be positive, got %d", opts.Size)
	}
	if opts.Values != nil && len(opts.Values) != len(points) {
		return fmt.Errorf("scatter got %d values for %d points", len(opts.Values), len(points))
	}
	if opts.View == (m.Mat3{}) {
		opts.View = DefaultView()
	}
	dot := opts.Dot
	if dot <= 0 {
		dot = 2
	}

	values := opts.Values
	if values == nil {
		values = make([]float64, len(points))
		for i := range values {
			values[i] = float64(i)
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Size, opts.Size))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	if len(points) == 0 {
		return png.Encode(w, img)
	}

	view := make([]m.Vec3, len(points))
	radius := 0.0
	for i, p := range points {
		view[i] = opts.View.MulVec3(p)
		radius = max(radius, p.Length())
	}
	if radius == 0 {
		radius = 1
	}
	lo, hi := slices.Min(values), slices.Max(values)

	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case view[a].Y < view[b].Y:
			return -1
		case view[a].Y > view[b].Y:
			return 1
		}
		return 0
	})

	// Leave a margin so dots on the rim stay inside the image.
	scale := float64(opts.Size-1) / (2.2 * radius)
	half := float64(opts.Size-1) / 2
	for _, i := range order {
		x := int(half + view[i].X*scale)
		y := int(half - view[i].Z*scale)
		c := colormap(values[i], lo, hi)
		for dy := 0; dy < dot; dy++ {
			for dx := 0; dx < dot; dx++ {
				if image.Pt(x+dx, y+dy).In(img.Rect) {
					img.SetRGBA(x+dx, y+dy, c)
				}
			}
		}
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

// colormap maps v in [lo, hi] onto the viridis gradient.
func colormap(v, lo, hi float64) color.RGBA {
	t := 0.0
	if hi > lo {
		t = (v - lo) / (hi - lo)
	}
	t = min(max(t, 0), 1)

	pos := t * float64(len(viridis)-1)
	i := min(int(pos), len(viridis)-2)
	f := pos - float64(i)
	a, b := viridis[i], viridis[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*f + 0.5)
	}
	return color.RGBA{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), 0xff}
}
