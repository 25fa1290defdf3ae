// Package paint holds the drawing core: tool selection, the persistent ink
// canvas, the stroke renderer and the compositor that lays ink over a frame.
package paint

import (
	"errors"
	"image/color"
	"strings"
)

// Color is one of the four selectable ink colors.
type Color int

// Ink colors, in top bar order.
const (
	Purple Color = iota
	Blue
	Green
	Yellow
	NumColors
)

// Thickness ranges and defaults.
const (
	MinBrushThickness     = 5
	MaxBrushThickness     = 30
	DefaultBrushThickness = 12

	MinEraserThickness     = 30
	MaxEraserThickness     = 100
	DefaultEraserThickness = 60
)

// ErrUnknownColor is returned by ParseColor for names outside the palette.
var ErrUnknownColor = errors.New("unknown color")

// Background is the unpainted canvas value. The eraser draws with it.
var Background = color.RGBA{R: 0, G: 0, B: 0, A: 0}

var palette = [NumColors]color.RGBA{
	Purple: {R: 255, G: 0, B: 255, A: 0},
	Blue:   {R: 0, G: 0, B: 255, A: 0},
	Green:  {R: 0, G: 255, B: 0, A: 0},
	Yellow: {R: 255, G: 255, B: 0, A: 0},
}

var colorNames = [NumColors]string{"PURPLE", "BLUE", "GREEN", "YELLOW"}

// Valid reports whether c is part of the palette.
func (c Color) Valid() bool {
	return c >= 0 && c < NumColors
}

// RGBA returns the ink value of the color.
func (c Color) RGBA() color.RGBA {
	if !c.Valid() {
		return Background
	}
	return palette[c]
}

func (c Color) String() string {
	if !c.Valid() {
		return "NONE"
	}
	return colorNames[c]
}

// ParseColor resolves a case-insensitive color name.
func ParseColor(name string) (Color, error) {
	for i, n := range colorNames {
		if strings.EqualFold(n, name) {
			return Color(i), nil
		}
	}
	return 0, ErrUnknownColor
}

// Tool is the current ink selection. A color and the eraser are mutually
// exclusive: exactly one is active at any time.
type Tool struct {
	color           Color
	eraser          bool
	brushThickness  int
	eraserThickness int
}

// NewTool returns a tool with blue selected and default thicknesses.
func NewTool() *Tool {
	return &Tool{
		color:           Blue,
		brushThickness:  DefaultBrushThickness,
		eraserThickness: DefaultEraserThickness,
	}
}

// SelectColor selects c and turns the eraser off. Colors outside the palette
// are ignored.
func (t *Tool) SelectColor(c Color) {
	if !c.Valid() {
		return
	}
	t.color = c
	t.eraser = false
}

// SelectEraser turns the eraser on and drops the color selection.
func (t *Tool) SelectEraser() {
	t.eraser = true
}

// SetBrushThickness sets the brush width, clamped to [5,30].
func (t *Tool) SetBrushThickness(n int) {
	t.brushThickness = clamp(n, MinBrushThickness, MaxBrushThickness)
}

// SetEraserThickness sets the eraser width, clamped to [30,100].
func (t *Tool) SetEraserThickness(n int) {
	t.eraserThickness = clamp(n, MinEraserThickness, MaxEraserThickness)
}

// Color returns the selected color. ok is false while the eraser is active.
func (t *Tool) Color() (c Color, ok bool) {
	if t.eraser {
		return 0, false
	}
	return t.color, true
}

// Eraser reports whether the eraser is active.
func (t *Tool) Eraser() bool {
	return t.eraser
}

// BrushThickness returns the brush width in pixels.
func (t *Tool) BrushThickness() int {
	return t.brushThickness
}

// EraserThickness returns the eraser width in pixels.
func (t *Tool) EraserThickness() int {
	return t.eraserThickness
}

// Ink returns the value and width the next stroke segment is drawn with.
func (t *Tool) Ink() (color.RGBA, int) {
	if t.eraser {
		return Background, t.eraserThickness
	}
	return t.color.RGBA(), t.brushThickness
}

// Slot returns the top bar cell of the active selection: 0-3 for the colors,
// 4 for the eraser.
func (t *Tool) Slot() int {
	if t.eraser {
		return int(NumColors)
	}
	return int(t.color)
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
