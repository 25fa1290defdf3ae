// Package gesture turns one hand's keypoints into a painting mode.
package gesture

import (
	"image"

	"github.com/ayusman/airdraw/internal/detector"
	"github.com/ayusman/airdraw/internal/paint"
)

// Mode is the outcome of classifying a frame.
type Mode int

const (
	// ModeNoHand means the detector found no hand in the frame.
	ModeNoHand Mode = iota
	// ModeIdle means a hand is visible but no gesture is active.
	ModeIdle
	// ModeSelect is index and middle finger raised: pick from the top bar.
	ModeSelect
	// ModeDraw is only the index finger raised with a color selected.
	ModeDraw
	// ModeDrawEraser is only the index finger raised with the eraser selected.
	ModeDrawEraser
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "IDLE"
	case ModeSelect:
		return "SELECT"
	case ModeDraw:
		return "DRAW"
	case ModeDrawEraser:
		return "DRAW (ERASER)"
	default:
		return "NO HAND"
	}
}

// Drawing reports whether the mode lays ink on the canvas.
func (m Mode) Drawing() bool {
	return m == ModeDraw || m == ModeDrawEraser
}

// Cells is the number of top bar buttons: four colors then the eraser.
const Cells = int(paint.NumColors) + 1

// EraserCell is the index of the eraser button.
const EraserCell = Cells - 1

// Bar is the hit area of the top button bar, anchored at the frame's top
// left corner.
type Bar struct {
	Width  int
	Height int
}

// Cell returns the button under horizontal position x, clamped to the bar.
func (b Bar) Cell(x int) int {
	w := b.Width / Cells
	if w < 1 {
		w = 1
	}
	return clamp(x/w, 0, EraserCell)
}

// Contains reports whether p lies in the bar's vertical band.
func (b Bar) Contains(p image.Point) bool {
	return p.Y < b.Height
}

// Result is the classification of one frame.
type Result struct {
	Mode    Mode
	Pointer image.Point
	// Cell is the button hit while selecting, or -1.
	Cell int
}

// IndexUp reports whether the index finger is raised. The vertical axis
// grows downward, so a raised tip has a smaller y than its joint.
func IndexUp(kp *detector.Keypoints) bool {
	return kp[detector.IndexTip].Y < kp[detector.IndexPIP].Y
}

// MiddleUp reports whether the middle finger is raised.
func MiddleUp(kp *detector.Keypoints) bool {
	return kp[detector.MiddleTip].Y < kp[detector.MiddlePIP].Y
}

// Classify maps a hand to a mode. A nil hand means none was detected.
// Selecting over the bar updates tool. Every outcome other than a draw mode
// ends the current stroke by resetting track.
func Classify(kp *detector.Keypoints, tool *paint.Tool, track *paint.Track, bar Bar) Result {
	if kp == nil {
		track.Reset()
		return Result{Mode: ModeNoHand, Cell: -1}
	}

	res := Result{Pointer: kp.Fingertip(), Cell: -1}
	index, middle := IndexUp(kp), MiddleUp(kp)

	switch {
	case index && middle:
		res.Mode = ModeSelect
		track.Reset()
		if bar.Contains(res.Pointer) {
			res.Cell = bar.Cell(res.Pointer.X)
			apply(tool, res.Cell)
		}
	case index:
		res.Mode = ModeDraw
		if tool.Eraser() {
			res.Mode = ModeDrawEraser
		}
	default:
		res.Mode = ModeIdle
		track.Reset()
	}
	return res
}

func apply(tool *paint.Tool, cell int) {
	if cell == EraserCell {
		tool.SelectEraser()
		return
	}
	tool.SelectColor(paint.Color(cell))
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
