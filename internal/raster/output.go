package raster

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/flagball/internal/model"
)

const (
	colorReset     = "\x1b[0m"
	fallbackWidth  = 80
	fallbackHeight = 24
)

func fgCode(c model.RGBA) string {
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", c.R, c.G, c.B)
}

func bgCode(c model.RGBA) string {
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", c.R, c.G, c.B)
}

// Lines returns one string per cell row. With colour on, each row starts
// with the background colour and the foreground escape is only written
// when it changes.
func (c *Canvas) Lines(useColor bool) []string {
	lines := make([]string, 0, c.rows)
	for cy := 0; cy < c.rows; cy++ {
		var row strings.Builder
		var current model.RGBA
		haveColor := false
		if useColor {
			row.WriteString(bgCode(c.bg))
		}
		for cx := 0; cx < c.cols; cx++ {
			mask, color := c.cell(cx, cy)
			if useColor && mask != 0 && (!haveColor || color != current) {
				row.WriteString(fgCode(color))
				current = color
				haveColor = true
			}
			row.WriteRune(brailleFromMask(mask))
		}
		if useColor {
			row.WriteString(colorReset)
		}
		lines = append(lines, row.String())
	}
	return lines
}

// String renders the canvas without colour.
func (c *Canvas) String() string {
	return strings.Join(c.Lines(false), "\n")
}

// Printer writes each rendered frame to w as braille text.
type Printer struct {
	w      io.Writer
	canvas *Canvas
	color  bool
}

// NewPrinter returns a printer for a cols x rows grid.
func NewPrinter(w io.Writer, cols, rows int, bg model.RGBA, useColor bool) *Printer {
	return &Printer{
		w:      w,
		canvas: NewCanvas(cols, rows, bg),
		color:  useColor,
	}
}

// Aspect returns the aspect frames should be built with.
func (p *Printer) Aspect() float64 {
	return p.canvas.Aspect()
}

// Render draws the frame and writes it out.
func (p *Printer) Render(frame model.Frame) error {
	if err := p.canvas.Render(frame); err != nil {
		return err
	}
	for _, line := range p.canvas.Lines(p.color) {
		if _, err := fmt.Fprintln(p.w, line); err != nil {
			return err
		}
	}
	return nil
}

// ShouldUseColor reports whether ANSI colour should be written to w.
// NO_COLOR always wins; otherwise force or a terminal enables it.
func ShouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// TerminalSize returns the size of stdout in cells, falling back to 80x24.
func TerminalSize() (cols, rows int) {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		return fallbackWidth, fallbackHeight
	}
	return cols, rows
}
