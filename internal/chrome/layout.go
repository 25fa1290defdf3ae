// Package chrome draws the on-frame UI: the top button bar, the bottom HUD
// and the hand overlay. It only reads tool state.
package chrome

import (
	"github.com/ayusman/airdraw/internal/gesture"
)

// Reference is the nominal resolution the UI is designed at. Every size is
// scaled by the ratio of the actual frame to it.
type Reference struct {
	Width        int
	Height       int
	ButtonHeight int
	// KeyHints shows the keyboard shortcuts in the HUD.
	KeyHints bool
}

// LiveReference is the layout of the desktop window variant.
var LiveReference = Reference{Width: 1280, Height: 720, ButtonHeight: 80, KeyHints: true}

// SnapshotReference is the layout of the snapshot variant, sized for phones.
var SnapshotReference = Reference{Width: 640, Height: 480, ButtonHeight: 60}

// barPadding is added below the buttons to form the bar and its hit band.
const barPadding = 20

// Layout is the UI geometry for one frame size.
type Layout struct {
	Width  int
	Height int
	ref    Reference
	sx, sy float64
}

// NewLayout computes the geometry for a width x height frame.
func NewLayout(width, height int, ref Reference) Layout {
	l := Layout{Width: width, Height: height, ref: ref, sx: 1, sy: 1}
	if ref.Width > 0 {
		l.sx = float64(width) / float64(ref.Width)
	}
	if ref.Height > 0 {
		l.sy = float64(height) / float64(ref.Height)
	}
	return l
}

// ButtonHeight is the scaled button height.
func (l Layout) ButtonHeight() int {
	return int(float64(l.ref.ButtonHeight) * l.sy)
}

// BarHeight is the height of the top bar, which is also its hit band.
func (l Layout) BarHeight() int {
	return l.ButtonHeight() + barPadding
}

// CellWidth is the width of one of the five buttons.
func (l Layout) CellWidth() int {
	return l.Width / gesture.Cells
}

// HUDHeight is the height of the bottom status strip.
func (l Layout) HUDHeight() int {
	return int(70 * l.sy)
}

// Bar returns the hit area the classifier tests selections against.
func (l Layout) Bar() gesture.Bar {
	return gesture.Bar{Width: l.Width, Height: l.BarHeight()}
}

// Compact reports whether the frame is narrow enough for short hint text.
func (l Layout) Compact() bool {
	return l.Width < 600
}

func (l Layout) x(v float64) int { return int(v * l.sx) }
func (l Layout) y(v float64) int { return int(v * l.sy) }

// scaled returns v*sx but never less than floor.
func (l Layout) scaled(v, floor float64) float64 {
	return max(v*l.sx, floor)
}

// stroke returns a line width of v*sx, at least floor.
func (l Layout) stroke(v float64, floor int) int {
	return max(int(v*l.sx), floor)
}
