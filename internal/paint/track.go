package paint

import "image"

// Track remembers the fingertip position of the previous frame while a DRAW
// run is in progress, so consecutive samples join into one stroke.
type Track struct {
	last image.Point
	ok   bool
}

// Last returns the previous position of the run, if any.
func (t *Track) Last() (image.Point, bool) {
	return t.last, t.ok
}

// Move records p as the latest position of the run.
func (t *Track) Move(p image.Point) {
	t.last = p
	t.ok = true
}

// Reset ends the run; the next sample starts a new stroke.
func (t *Track) Reset() {
	t.last = image.Point{}
	t.ok = false
}
