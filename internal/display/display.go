// Package display shows rendered character grids in a terminal.
package display

import (
	"io"
	"strings"
)

// Display receives one frame at a time.
type Display interface {
	Show(rows []string) error
	Close() error
}

// Quitter is implemented by displays that can ask the frame loop to stop,
// for example on a key press.
type Quitter interface {
	Quit() <-chan struct{}
}

// clearScreen moves the cursor home and erases the screen.
const clearScreen = "\x1b[H\x1b[2J"

// Plain writes frames as text to an io.Writer.
type Plain struct {
	w     io.Writer
	clear bool
	buf   strings.Builder
}

// NewPlain creates a text display. With clear set, every frame starts with
// an ANSI clear-screen sequence.
func NewPlain(w io.Writer, clear bool) *Plain {
	return &Plain{w: w, clear: clear}
}

// Show writes the rows followed by a newline in a single write.
func (p *Plain) Show(rows []string) error {
	p.buf.Reset()
	if p.clear {
		p.buf.WriteString(clearScreen)
	}
	for _, row := range rows {
		p.buf.WriteString(row)
		p.buf.WriteByte('\n')
	}
	_, err := io.WriteString(p.w, p.buf.String())
	return err
}

// Close is a no-op; the writer belongs to the caller.
func (p *Plain) Close() error {
	return nil
}
