package paint

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Canvas is the persistent ink layer. It is a BGR 8-bit raster the same size
// as the frames it is composited onto; unpainted pixels hold Background.
type Canvas struct {
	mat gocv.Mat
}

// NewCanvas returns a background-filled canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{mat: blank(width, height)}
}

func blank(width, height int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width, gocv.MatTypeCV8UC3)
}

// Size returns the canvas width and height.
func (c *Canvas) Size() (width, height int) {
	return c.mat.Cols(), c.mat.Rows()
}

// Mat exposes the underlying raster. Callers must not modify it.
func (c *Canvas) Mat() gocv.Mat {
	return c.mat
}

// Fit makes the canvas match a width x height frame. A canvas of any other
// size is replaced by a blank one and its strokes are lost. Fit reports
// whether a reset happened.
func (c *Canvas) Fit(width, height int) bool {
	w, h := c.Size()
	if w == width && h == height {
		return false
	}
	c.reset(width, height)
	return true
}

// Clear wipes every stroke, keeping the current size.
func (c *Canvas) Clear() {
	w, h := c.Size()
	c.reset(w, h)
}

func (c *Canvas) reset(width, height int) {
	old := c.mat
	c.mat = blank(width, height)
	old.Close()
}

// Line draws a segment directly onto the canvas. A zero-length segment
// leaves a round dot of the given thickness.
func (c *Canvas) Line(from, to image.Point, ink color.RGBA, thickness int) {
	gocv.Line(&c.mat, from, to, ink, thickness)
}

// Stroke extends the current stroke to at using the tool's ink. The first
// sample of a run has no previous point, so it is drawn as a dot.
func (c *Canvas) Stroke(track *Track, tool *Tool, at image.Point) {
	prev, ok := track.Last()
	if !ok {
		prev = at
	}
	ink, thickness := tool.Ink()
	c.Line(prev, at, ink, thickness)
	track.Move(at)
}

// Pixel returns the B, G, R values at (x, y).
func (c *Canvas) Pixel(x, y int) [3]uint8 {
	v := c.mat.GetVecbAt(y, x)
	return [3]uint8{v[0], v[1], v[2]}
}

// Painted counts the pixels the compositor treats as ink.
func (c *Canvas) Painted() int {
	mask := InkMask(c.mat)
	defer mask.Close()
	return gocv.CountNonZero(mask)
}

// Close releases the raster.
func (c *Canvas) Close() error {
	return c.mat.Close()
}
