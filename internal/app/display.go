package app

import (
	"gocv.io/x/gocv"
)

// Display shows frames and reports key presses.
type Display interface {
	Show(frame *gocv.Mat)
	// WaitKey waits up to ms milliseconds and returns the key pressed, or -1.
	WaitKey(ms int) int
	Close() error
}

// Window is a Display backed by an OpenCV HighGUI window.
type Window struct {
	win *gocv.Window
}

// NewWindow opens a window with the given title.
func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

func (w *Window) Show(frame *gocv.Mat) {
	w.win.IMShow(*frame)
}

func (w *Window) WaitKey(ms int) int {
	return w.win.WaitKey(ms)
}

func (w *Window) Close() error {
	return w.win.Close()
}
