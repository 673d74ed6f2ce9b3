package export

import (
	"fmt"
	"image"
	"image/gif"
	"io"
	"time"
)

// FrameSource renders frames into a character grid. *raster.Stage implements it.
type FrameSource interface {
	RenderFrame(dx, dy float64) error
	Screen() [][]byte
}

// GIFOptions controls animation export.
type GIFOptions struct {
	Frames int           // Number of frames
	DeltaX float64       // Rotation around X per frame, radians
	DeltaY float64       // Rotation around Y per frame, radians
	Delay  time.Duration // Time each frame is shown; GIF resolution is 10ms
}

// WriteGIF renders opts.Frames frames from src and encodes them as a
// looping GIF.
func WriteGIF(w io.Writer, src FrameSource, opts GIFOptions) error {
	if opts.Frames <= 0 {
		return fmt.Errorf("gif export needs a positive frame count, got %d", opts.Frames)
	}

	delay := int(opts.Delay / (10 * time.Millisecond))
	anim := &gif.GIF{
		Image:     make([]*image.Paletted, 0, opts.Frames),
		Delay:     make([]int, 0, opts.Frames),
		LoopCount: 0,
	}

	for i := 0; i < opts.Frames; i++ {
		if err := src.RenderFrame(opts.DeltaX, opts.DeltaY); err != nil {
			return fmt.Errorf("rendering frame %d: %w", i+1, err)
		}
		anim.Image = append(anim.Image, DrawGrid(src.Screen()))
		anim.Delay = append(anim.Delay, delay)
	}

	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("encoding GIF: %w", err)
	}
	return nil
}
