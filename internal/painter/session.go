// Package painter ties the drawing core together into a per-user session:
// one tool, one canvas and one stroke track driven frame by frame.
package painter

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ayusman/airdraw/internal/capture"
	"github.com/ayusman/airdraw/internal/chrome"
	"github.com/ayusman/airdraw/internal/detector"
	"github.com/ayusman/airdraw/internal/gesture"
	"github.com/ayusman/airdraw/internal/paint"
)

// ErrEmptyFrame is returned when Process is handed a frame with no pixels.
var ErrEmptyFrame = errors.New("frame is empty")

// Session holds the drawing state of a single user. All methods are safe
// for concurrent use; frames are processed one at a time.
type Session struct {
	id       string
	ref      chrome.Reference
	detector detector.Detector
	log      *logrus.Entry

	mu     sync.Mutex
	tool   *paint.Tool
	canvas *paint.Canvas
	track  paint.Track
	mode   gesture.Mode
	frames int
}

// NewSession returns a session with BLUE selected, default thicknesses and
// no canvas. The canvas is created by the first frame.
func NewSession(id string, d detector.Detector, ref chrome.Reference, logger logrus.FieldLogger) *Session {
	return &Session{
		id:       id,
		ref:      ref,
		detector: d,
		log:      logger.WithField("session", id),
		tool:     paint.NewTool(),
		mode:     gesture.ModeNoHand,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Process runs the drawing pipeline on frame in place: mirror, top bar,
// detection, classification, stroke, hand overlay, composite and HUD.
//
// A detector failure is treated as a frame without a hand. The frame is
// still fully rendered and the failure is returned wrapped.
func (s *Session) Process(frame *gocv.Mat) (gesture.Result, error) {
	if frame == nil || frame.Empty() {
		return gesture.Result{Mode: gesture.ModeNoHand, Cell: -1}, ErrEmptyFrame
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	capture.Mirror(frame)
	w, h := frame.Cols(), frame.Rows()
	s.fit(w, h)

	layout := chrome.NewLayout(w, h, s.ref)
	chrome.DrawTopBar(frame, layout, s.tool)

	var detectErr error
	hands, err := s.detector.Detect(frame)
	if err != nil {
		detectErr = fmt.Errorf("detect hands: %w", err)
		hands = nil
	}

	kp := detector.First(hands, w, h)
	res := gesture.Classify(kp, s.tool, &s.track, layout.Bar())
	if res.Mode.Drawing() {
		s.canvas.Stroke(&s.track, s.tool, res.Pointer)
	}

	chrome.DrawHand(frame, kp, res.Mode, s.tool)
	paint.Composite(frame, s.canvas)
	chrome.DrawHUD(frame, layout, res.Mode, s.tool)

	if res.Mode != s.mode {
		s.log.WithFields(logrus.Fields{
			"from": s.mode.String(),
			"to":   res.Mode.String(),
		}).Debug("mode changed")
		s.mode = res.Mode
	}
	if res.Cell >= 0 {
		s.log.WithField("cell", res.Cell).Debug("tool selected")
	}
	s.frames++

	return res, detectErr
}

// fit creates the canvas on the first frame and resets it when the frame
// size changes. Must be called with mu held.
func (s *Session) fit(w, h int) {
	if s.canvas == nil {
		s.canvas = paint.NewCanvas(w, h)
		s.log.WithFields(logrus.Fields{"width": w, "height": h}).Debug("canvas created")
		return
	}
	if ow, oh := s.canvas.Size(); s.canvas.Fit(w, h) {
		s.track.Reset()
		s.log.WithFields(logrus.Fields{
			"from": fmt.Sprintf("%dx%d", ow, oh),
			"to":   fmt.Sprintf("%dx%d", w, h),
		}).Info("frame size changed, canvas reset")
	}
}

// SelectColor switches to color c and leaves eraser mode.
func (s *Session) SelectColor(c paint.Color) error {
	if !c.Valid() {
		return paint.ErrUnknownColor
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tool.SelectColor(c)
	return nil
}

// SelectEraser switches to the eraser.
func (s *Session) SelectEraser() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tool.SelectEraser()
}

// SetBrushThickness sets the brush width, clamped to its range.
func (s *Session) SetBrushThickness(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tool.SetBrushThickness(n)
}

// SetEraserThickness sets the eraser width, clamped to its range.
func (s *Session) SetEraserThickness(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tool.SetEraserThickness(n)
}

// Clear wipes the canvas and ends the current stroke. Before the first
// frame there is nothing to wipe.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.canvas != nil {
		s.canvas.Clear()
	}
	s.track.Reset()
	s.log.Info("canvas cleared")
}

// Painted returns the number of inked canvas pixels.
func (s *Session) Painted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.canvas == nil {
		return 0
	}
	return s.canvas.Painted()
}

// State is a point-in-time view of a session.
type State struct {
	ID              string `json:"id"`
	Mode            string `json:"mode"`
	Color           string `json:"color,omitempty"`
	Eraser          bool   `json:"eraser"`
	BrushThickness  int    `json:"brush_thickness"`
	EraserThickness int    `json:"eraser_thickness"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	Frames          int    `json:"frames"`
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		ID:              s.id,
		Mode:            s.mode.String(),
		Eraser:          s.tool.Eraser(),
		BrushThickness:  s.tool.BrushThickness(),
		EraserThickness: s.tool.EraserThickness(),
		Frames:          s.frames,
	}
	if c, ok := s.tool.Color(); ok {
		st.Color = c.String()
	}
	if s.canvas != nil {
		st.Width, st.Height = s.canvas.Size()
	}
	return st
}

// Close releases the canvas.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.canvas == nil {
		return nil
	}
	err := s.canvas.Close()
	s.canvas = nil
	return err
}
