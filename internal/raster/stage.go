// Package raster projects a torus surface onto a square character grid.
//
// The observer sits at (0, f, 0) looking toward the origin and every point
// is projected onto the plane y = d. Each frame the surface is rotated,
// projected, shaded with a single directional light and painted from the
// farthest point to the nearest so that nearer points overwrite farther ones.
package raster

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/Faultbox/ascii-donut/internal/torus"
	m "github.com/Faultbox/ascii-donut/pkg/math"
)

// DefaultPalette orders characters from darkest to brightest.
const DefaultPalette = ".,-~:;=!*#$@"

// Blank is the background character.
const Blank = ' '

var (
	// ErrConfiguration is returned when the stage geometry violates f > d > R1+R2 > 0.
	ErrConfiguration = errors.New("invalid stage configuration")

	// ErrDegenerateGeometry is returned when a point cannot be projected.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)

// ClipPolicy decides what happens to points mapped outside the pixel grid.
type ClipPolicy int

const (
	// ClipClamp moves out-of-range coordinates to the nearest edge pixel.
	ClipClamp ClipPolicy = iota
	// ClipDiscard drops points that fall outside the grid.
	ClipDiscard
)

// String returns the config name of the policy.
func (c ClipPolicy) String() string {
	switch c {
	case ClipClamp:
		return "clamp"
	case ClipDiscard:
		return "discard"
	default:
		return fmt.Sprintf("ClipPolicy(%d)", int(c))
	}
}

// ParseClipPolicy converts a config name to a ClipPolicy.
func ParseClipPolicy(s string) (ClipPolicy, error) {
	switch s {
	case "", "clamp":
		return ClipClamp, nil
	case "discard":
		return ClipDiscard, nil
	default:
		return ClipClamp, fmt.Errorf("unknown clip policy %q", s)
	}
}

// Options configures a Stage.
type Options struct {
	Light     m.Vec3     // Light direction, need not be normalized
	F         float64    // Observer distance along +y
	D         float64    // Projection plane y = D
	NumPixels int        // Side of the square character grid
	Palette   string     // Darkest to brightest; empty means DefaultPalette
	Clip      ClipPolicy // Out-of-range pixel policy
	Workers   int        // Goroutines for per-point work; <= 1 is serial, 0 uses GOMAXPROCS
}

// DefaultOptions returns the stage used by the terminal demo.
func DefaultOptions() Options {
	return Options{
		Light:     m.Vec3{X: 0, Y: -1, Z: -1},
		F:         10,
		D:         5,
		NumPixels: 30,
		Palette:   DefaultPalette,
		Clip:      ClipClamp,
		Workers:   1,
	}
}

// Validate checks the options against a surface of the given outer radius.
func (o Options) Validate(radius float64) error {
	if !(o.F > o.D && o.D > radius && radius > 0) {
		return fmt.Errorf("%w: need f > d > R1+R2 > 0, got f=%g d=%g R1+R2=%g", ErrConfiguration, o.F, o.D, radius)
	}
	if o.NumPixels <= 0 {
		return fmt.Errorf("%w: pixel count must be positive, got %d", ErrConfiguration, o.NumPixels)
	}
	if !o.Light.IsFinite() {
		return fmt.Errorf("%w: light direction %v is not finite", ErrConfiguration, o.Light)
	}
	if o.Clip != ClipClamp && o.Clip != ClipDiscard {
		return fmt.Errorf("%w: unknown clip policy %d", ErrConfiguration, int(o.Clip))
	}
	for i := 0; i < len(o.Palette); i++ {
		if o.Palette[i] < 0x21 || o.Palette[i] > 0x7e {
			return fmt.Errorf("%w: palette must be printable ASCII, got %q", ErrConfiguration, o.Palette)
		}
	}
	return nil
}

// Projection holds per-point screen-plane coordinates, index-aligned with the surface.
type Projection struct {
	XP       []float64
	ZP       []float64
	InvDepth []float64 // 1/(y-f), always negative for valid stages
}

// FrameStats summarizes the most recent frame.
type FrameStats struct {
	Frame     uint64  // Frames rendered so far
	Points    int     // Points considered
	Painted   int     // Points written to the grid, including overwritten ones
	Clipped   int     // Points clamped or discarded by the clip policy
	LitPixels int     // Non-blank cells in the grid
	MaxLum    float64 // Largest luminance
}

// Stage projects, shades and rasterizes a torus surface.
type Stage struct {
	surface *torus.Surface
	light   m.Vec3
	f, d    float64
	n       int
	palette []byte
	clip    ClipPolicy
	workers int

	screen []byte // n*n cells, row-major

	// Per-frame scratch, index-aligned with the surface.
	xp, zp, invDepth []float64
	lum              []float64
	cols, rows       []int
	chars            []byte
	clipped          []bool
	order            []int

	stats FrameStats
}

// New creates a stage for surface. The stage keeps a reference to the
// surface and rotates it during RenderFrame.
func New(surface *torus.Surface, opts Options) (*Stage, error) {
	if surface == nil {
		return nil, fmt.Errorf("%w: nil surface", ErrConfiguration)
	}
	if err := opts.Validate(surface.Params().Radius()); err != nil {
		return nil, err
	}

	palette := opts.Palette
	if palette == "" {
		palette = DefaultPalette
	}

	workers := opts.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers < 1 {
		workers = 1
	}

	count := surface.Len()
	st := &Stage{
		surface:  surface,
		light:    opts.Light,
		f:        opts.F,
		d:        opts.D,
		n:        opts.NumPixels,
		palette:  []byte(palette),
		clip:     opts.Clip,
		workers:  workers,
		screen:   make([]byte, opts.NumPixels*opts.NumPixels),
		xp:       make([]float64, count),
		zp:       make([]float64, count),
		invDepth: make([]float64, count),
		lum:      make([]float64, count),
		cols:     make([]int, count),
		rows:     make([]int, count),
		chars:    make([]byte, count),
		clipped:  make([]bool, count),
		order:    make([]int, count),
	}
	st.clear()

	return st, nil
}

// Surface returns the surface the stage renders.
func (st *Stage) Surface() *torus.Surface {
	return st.surface
}

// NumPixels returns the side of the square grid.
func (st *Stage) NumPixels() int {
	return st.n
}

// Palette returns the shading characters, darkest first.
func (st *Stage) Palette() string {
	return string(st.palette)
}

// Stats returns statistics of the most recent frame.
func (st *Stage) Stats() FrameStats {
	return st.stats
}

// Extent estimates the half-width of the projected torus: the projection of
// the point (0, 0, R1+R2).
func (st *Stage) Extent() float64 {
	return st.surface.Params().Radius() * (st.f - st.d) / st.f
}

// Project computes screen-plane coordinates of every surface point.
func (st *Stage) Project() (Projection, error) {
	if err := st.parallel(st.projectRange); err != nil {
		return Projection{}, err
	}
	return Projection{
		XP:       append([]float64(nil), st.xp...),
		ZP:       append([]float64(nil), st.zp...),
		InvDepth: append([]float64(nil), st.invDepth...),
	}, nil
}

// Luminance returns -(light . normal) for every surface point. Larger is
// brighter; negative values face away from the light.
func (st *Stage) Luminance() []float64 {
	st.each(st.shadeRange)
	return append([]float64(nil), st.lum...)
}

func (st *Stage) projectRange(lo, hi int) error {
	scale := st.d - st.f
	for i := lo; i < hi; i++ {
		p := st.surface.Point(i)
		depth := p.Y - st.f
		if depth == 0 {
			return fmt.Errorf("%w: point %d lies on the observer plane y=%g", ErrDegenerateGeometry, i, st.f)
		}
		inv := 1 / depth
		xp := scale * p.X * inv
		zp := scale * p.Z * inv
		if !isFinite(inv) || !isFinite(xp) || !isFinite(zp) {
			return fmt.Errorf("%w: point %d %v projects to a non-finite value", ErrDegenerateGeometry, i, p)
		}
		st.xp[i] = xp
		st.zp[i] = zp
		st.invDepth[i] = inv
	}
	return nil
}

func (st *Stage) shadeRange(lo, hi int) {
	for i := lo; i < hi; i++ {
		st.lum[i] = -st.light.Dot(st.surface.Normal(i))
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
