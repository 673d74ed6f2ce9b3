// Package app drives the render loop: render a frame, show it, wait.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/ascii-donut/internal/display"
	"github.com/Faultbox/ascii-donut/internal/raster"
)

// Renderer produces frames. *raster.Stage implements it.
type Renderer interface {
	RenderFrame(dx, dy float64) error
	Rows() []string
	Stats() raster.FrameStats
}

// Options controls the loop.
type Options struct {
	DeltaX     float64       // Rotation around X per frame, radians
	DeltaY     float64       // Rotation around Y per frame, radians
	FrameDelay time.Duration // Pause between frames; 0 renders as fast as possible
	MaxFrames  int           // Stop after this many frames; 0 never stops
}

// App owns the frame loop.
type App struct {
	renderer Renderer
	display  display.Display
	opts     Options
	log      *zap.Logger

	frames int
}

// New creates an App. A nil logger discards output.
func New(r Renderer, d display.Display, opts Options, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{renderer: r, display: d, opts: opts, log: log}
}

// Frames returns how many frames have been shown.
func (a *App) Frames() int {
	return a.frames
}

// Run renders frames until ctx is cancelled, the display asks to quit or
// MaxFrames is reached. Stopping for any of those reasons is not an error.
func (a *App) Run(ctx context.Context) error {
	var quit <-chan struct{}
	if q, ok := a.display.(display.Quitter); ok {
		quit = q.Quit()
	}

	var tick <-chan time.Time
	if a.opts.FrameDelay > 0 {
		ticker := time.NewTicker(a.opts.FrameDelay)
		defer ticker.Stop()
		tick = ticker.C
	}

	a.log.Info("render loop started",
		zap.Float64("delta_x", a.opts.DeltaX),
		zap.Float64("delta_y", a.opts.DeltaY),
		zap.Duration("frame_delay", a.opts.FrameDelay),
		zap.Int("max_frames", a.opts.MaxFrames),
	)

	for a.opts.MaxFrames == 0 || a.frames < a.opts.MaxFrames {
		if reason, stop := a.stopRequested(ctx, quit); stop {
			a.log.Info("render loop stopped", zap.String("reason", reason), zap.Int("frames", a.frames))
			return nil
		}

		if err := a.renderer.RenderFrame(a.opts.DeltaX, a.opts.DeltaY); err != nil {
			return fmt.Errorf("rendering frame %d: %w", a.frames+1, err)
		}
		if err := a.display.Show(a.renderer.Rows()); err != nil {
			return fmt.Errorf("showing frame %d: %w", a.frames+1, err)
		}
		a.frames++

		if ce := a.log.Check(zap.DebugLevel, "frame"); ce != nil {
			s := a.renderer.Stats()
			ce.Write(
				zap.Uint64("frame", s.Frame),
				zap.Int("painted", s.Painted),
				zap.Int("clipped", s.Clipped),
				zap.Int("lit_pixels", s.LitPixels),
				zap.Float64("max_luminance", s.MaxLum),
			)
		}

		if tick == nil {
			continue
		}
		select {
		case <-ctx.Done():
		case <-quit:
		case <-tick:
		}
	}

	a.log.Info("render loop finished", zap.Int("frames", a.frames))
	return nil
}

func (a *App) stopRequested(ctx context.Context, quit <-chan struct{}) (string, bool) {
	select {
	case <-ctx.Done():
		return "context done", true
	case <-quit:
		return "quit requested", true
	default:
		return "", false
	}
}
