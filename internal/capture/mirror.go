package capture

import (
	"gocv.io/x/gocv"
)

// Mirror flips frame horizontally in place so the feed behaves like a
// mirror: moving a hand right moves it right on screen.
func Mirror(frame *gocv.Mat) {
	gocv.Flip(*frame, frame, 1)
}
