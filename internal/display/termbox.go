package display

import (
	"fmt"
	"sync"

	"github.com/nsf/termbox-go"
)

// Termbox draws frames on the alternate screen using termbox.
// Esc, q and Ctrl+C request a quit.
type Termbox struct {
	quit     chan struct{}
	quitOnce sync.Once
	done     chan struct{}
}

// NewTermbox takes over the terminal until Close is called.
func NewTermbox() (*Termbox, error) {
	if err := termbox.Init(); err != nil {
		return nil, fmt.Errorf("initializing terminal: %w", err)
	}
	termbox.SetInputMode(termbox.InputEsc)
	termbox.HideCursor()

	t := &Termbox{
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go t.pollEvents()
	return t, nil
}

func (t *Termbox) pollEvents() {
	defer close(t.done)
	for {
		ev := termbox.PollEvent()
		switch ev.Type {
		case termbox.EventKey:
			if isQuitKey(ev) {
				t.requestQuit()
			}
		case termbox.EventInterrupt, termbox.EventError:
			return
		}
	}
}

func isQuitKey(ev termbox.Event) bool {
	return ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC || ev.Ch == 'q' || ev.Ch == 'Q'
}

func (t *Termbox) requestQuit() {
	t.quitOnce.Do(func() { close(t.quit) })
}

// Quit is closed once the user asks to stop.
func (t *Termbox) Quit() <-chan struct{} {
	return t.quit
}

// Show draws the rows centered in the terminal.
func (t *Termbox) Show(rows []string) error {
	if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		return err
	}

	w, h := termbox.Size()
	ox, oy := center(w, h, rows)
	for y, row := range rows {
		for x := 0; x < len(row); x++ {
			termbox.SetCell(ox+x, oy+y, rune(row[x]), termbox.ColorDefault, termbox.ColorDefault)
		}
	}
	return termbox.Flush()
}

// Close stops event polling and restores the terminal.
func (t *Termbox) Close() error {
	select {
	case <-t.done:
	default:
		// Interrupt blocks until PollEvent picks it up.
		termbox.Interrupt()
		<-t.done
	}
	termbox.Close()
	return nil
}

// center returns the top-left cell that centers rows in a w x h terminal.
// Frames larger than the terminal are anchored at the top-left corner.
func center(w, h int, rows []string) (x, y int) {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	return max((w-width)/2, 0), max((h-len(rows))/2, 0)
}
