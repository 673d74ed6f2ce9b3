package raster

import (
	"cmp"
	"io"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// brightnessHeadroom scales max(L) down so the brightest character appears
// on more than a handful of points.
const brightnessHeadroom = 0.9

// extentMargin widens the estimated projected extent.
const extentMargin = 1.1

// minChunk is the smallest number of points worth handing to a goroutine.
const minChunk = 1024

// RenderFrame rotates the surface by dx around X and then dy around Y and
// redraws the grid. If projection fails the grid is left blank.
func (st *Stage) RenderFrame(dx, dy float64) error {
	st.clear()
	st.stats = FrameStats{Frame: st.stats.Frame + 1, Points: st.surface.Len()}

	st.surface.RotateX(dx)
	st.surface.RotateY(dy)

	err := st.parallel(func(lo, hi int) error {
		if err := st.projectRange(lo, hi); err != nil {
			return err
		}
		st.shadeRange(lo, hi)
		return nil
	})
	if err != nil {
		return err
	}

	maxLum := maxOf(st.lum)
	st.stats.MaxLum = maxLum
	lumHi := brightnessHeadroom * maxLum
	extent := extentMargin * st.Extent()

	st.each(func(lo, hi int) {
		st.mapRange(lo, hi, lumHi, extent)
	})

	sortFarthestFirst(st.order, st.invDepth)
	st.stats.Painted, st.stats.Clipped = st.paint()
	st.stats.LitPixels = st.litPixels()

	return nil
}

// mapRange picks the palette character and pixel cell of each point.
// A point dropped by ClipDiscard gets column -1.
func (st *Stage) mapRange(lo, hi int, lumHi, extent float64) {
	top := len(st.palette) - 1
	for i := lo; i < hi; i++ {
		st.chars[i] = st.palette[paletteIndex(st.lum[i], lumHi, top)]

		col, okX := toPixel(st.xp[i], extent, st.n)
		// Screen rows grow downward while z grows upward.
		row, okZ := toPixel(-st.zp[i], extent, st.n)
		st.clipped[i] = !okX || !okZ
		if st.clipped[i] && st.clip == ClipDiscard {
			col, row = -1, -1
		}
		st.cols[i], st.rows[i] = col, row
	}
}

// paint writes characters in st.order, so later (nearer) points overwrite
// earlier (farther) ones.
func (st *Stage) paint() (painted, clipped int) {
	for _, i := range st.order {
		if st.clipped[i] {
			clipped++
		}
		col, row := st.cols[i], st.rows[i]
		if col < 0 {
			continue
		}
		st.screen[row*st.n+col] = st.chars[i]
		painted++
	}
	return painted, clipped
}

// sortFarthestFirst orders point indices by descending invDepth. Since
// y-f < 0 for every point, a larger invDepth means a smaller y, which is
// farther from the observer. Ties keep index order.
func sortFarthestFirst(order []int, invDepth []float64) {
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(invDepth[b], invDepth[a])
	})
}

// paletteIndex linearly maps lum from [0, hi] onto [0, top], clamping and
// truncating. Everything maps to 0 when hi is not positive.
func paletteIndex(lum, hi float64, top int) int {
	if !(hi > 0) || !(lum > 0) {
		return 0
	}
	if lum >= hi {
		return top
	}
	return int(lum / hi * float64(top))
}

// toPixel maps v from [-extent, extent] onto [0, n-1], truncating. Values
// outside the source range are clamped and reported with ok=false.
func toPixel(v, extent float64, n int) (px int, ok bool) {
	if v < -extent {
		return 0, false
	}
	if v > extent {
		return n - 1, false
	}
	px = int((v + extent) / (2 * extent) * float64(n-1))
	return min(max(px, 0), n-1), true
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return slices.Max(values)
}

// parallel runs fn over contiguous index ranges of the surface. Ranges are
// disjoint, so fn may write its own slice elements without locking.
func (st *Stage) parallel(fn func(lo, hi int) error) error {
	count := st.surface.Len()
	chunk := st.chunkSize(count)
	if chunk >= count {
		return fn(0, count)
	}

	var g errgroup.Group
	for lo := 0; lo < count; lo += chunk {
		hi := min(lo+chunk, count)
		g.Go(func() error {
			return fn(lo, hi)
		})
	}
	return g.Wait()
}

// each is parallel for work that cannot fail.
func (st *Stage) each(fn func(lo, hi int)) {
	count := st.surface.Len()
	chunk := st.chunkSize(count)
	if chunk >= count {
		fn(0, count)
		return
	}

	var wg sync.WaitGroup
	for lo := 0; lo < count; lo += chunk {
		hi := min(lo+chunk, count)
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(lo, hi)
		}()
	}
	wg.Wait()
}

// chunkSize returns the range length handed to each goroutine. A result of
// count or more means the work runs on the calling goroutine.
func (st *Stage) chunkSize(count int) int {
	if st.workers <= 1 || count < 2*minChunk {
		return max(count, 1)
	}
	return max((count+st.workers-1)/st.workers, minChunk)
}

func (st *Stage) clear() {
	for i := range st.screen {
		st.screen[i] = Blank
	}
}

func (st *Stage) litPixels() int {
	lit := 0
	for _, c := range st.screen {
		if c != Blank {
			lit++
		}
	}
	return lit
}

// Cell returns the character at row, col.
func (st *Stage) Cell(row, col int) byte {
	return st.screen[row*st.n+col]
}

// Screen returns a copy of the character grid, one slice per row.
func (st *Stage) Screen() [][]byte {
	out := make([][]byte, st.n)
	for r := range out {
		out[r] = append([]byte(nil), st.screen[r*st.n:(r+1)*st.n]...)
	}
	return out
}

// Rows returns each grid row with characters separated by single spaces.
func (st *Stage) Rows() []string {
	rows := make([]string, st.n)
	var b strings.Builder
	for r := range rows {
		b.Reset()
		for c := 0; c < st.n; c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			b.WriteByte(st.screen[r*st.n+c])
		}
		rows[r] = b.String()
	}
	return rows
}

// String returns the grid as text, rows joined by newlines.
func (st *Stage) String() string {
	return strings.Join(st.Rows(), "\n")
}

// WriteTo writes the grid followed by a newline.
func (st *Stage) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, st.String()+"\n")
	return int64(n), err
}
