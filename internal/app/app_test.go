package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"gocv.io/x/gocv"

	"github.com/ayusman/airdraw/internal/capture"
	"github.com/ayusman/airdraw/internal/detector"
)

// fakeDisplay records shown frames and replays a scripted key sequence.
type fakeDisplay struct {
	keys   []int
	shown  int
	closed bool
}

func (d *fakeDisplay) Show(frame *gocv.Mat) { d.shown++ }

func (d *fakeDisplay) WaitKey(ms int) int {
	if len(d.keys) == 0 {
		return -1
	}
	k := d.keys[0]
	d.keys = d.keys[1:]
	return k
}

func (d *fakeDisplay) Close() error {
	d.closed = true
	return nil
}

type recorder struct {
	mu     sync.Mutex
	frames [][]byte
}

func (r *recorder) Publish(jpeg []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, jpeg)
}

func setup(t *testing.T, keys ...int) (*App, *capture.MockCamera, *detector.MockDetector, *fakeDisplay) {
	t.Helper()

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { frame.Close() })

	cam := capture.NewMockCamera([]*gocv.Mat{&frame}, true)
	det := detector.NewMockDetector()
	display := &fakeDisplay{keys: keys}
	logger, _ := test.NewNullLogger()

	a := New(Config{Camera: cam, Detector: det, Display: display, Logger: logger})
	t.Cleanup(func() { a.Close() })
	return a, cam, det, display
}

func TestApp_QuitKey(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	a, cam, _, display := setup(t, -1, -1, KeyQuit)

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if display.shown != 3 {
		t.Errorf("shown %d frames, want 3", display.shown)
	}
	if cam.IsOpen() {
		t.Error("camera should be closed after Run returns")
	}
}

func TestApp_ClearKey(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	a, _, det, _ := setup(t, -1, KeyClear, KeyQuit)
	det.SetSequence([][]detector.HandLandmarks{
		{detector.PointAt(detector.PointingLandmarks(), 0.5, 0.5)},
		nil,
		nil,
	})

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if n := a.Session().Painted(); n != 0 {
		t.Errorf("Painted() = %d after clear, want 0", n)
	}
	if st := a.Session().State(); st.Frames != 3 {
		t.Errorf("Frames = %d, want 3", st.Frames)
	}
}

func TestApp_DrawsAcrossFrames(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	a, _, det, _ := setup(t, -1, -1, KeyQuit)
	det.SetSequence([][]detector.HandLandmarks{
		{detector.PointAt(detector.PointingLandmarks(), 0.25, 0.5)},
		{detector.PointAt(detector.PointingLandmarks(), 0.75, 0.5)},
		nil,
	})

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if a.Session().Painted() == 0 {
		t.Error("expected a stroke on the canvas")
	}
	if st := a.Session().State(); st.Mode != "NO HAND" {
		t.Errorf("Mode = %q, want NO HAND after the hand leaves", st.Mode)
	}
}

func TestApp_CameraFailureEndsLoop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	unplugged := errors.New("device unplugged")
	a, cam, _, display := setup(t)
	cam.FailAfter(2, unplugged)

	err := a.Run(context.Background())
	if !errors.Is(err, unplugged) {
		t.Fatalf("Run() error = %v, want %v", err, unplugged)
	}
	if display.shown != 2 {
		t.Errorf("shown %d frames before the failure, want 2", display.shown)
	}
}

func TestApp_DetectorFailureKeepsRunning(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	a, _, det, display := setup(t, -1, KeyQuit)
	det.SetError(errors.New("model crashed"))

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if display.shown != 2 {
		t.Errorf("shown %d frames, want 2", display.shown)
	}
}

func TestApp_ContextCancel(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	a, cam, _, display := setup(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if display.shown != 0 {
		t.Errorf("shown %d frames after cancel, want 0", display.shown)
	}
	if cam.Reads() != 0 {
		t.Errorf("Reads() = %d, want 0", cam.Reads())
	}
}

func TestApp_Publish(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer frame.Close()

	rec := &recorder{}
	logger, _ := test.NewNullLogger()
	a := New(Config{
		Camera:    capture.NewMockCamera([]*gocv.Mat{&frame}, true),
		Detector:  detector.NewMockDetector(),
		Display:   &fakeDisplay{keys: []int{-1, KeyQuit}},
		Publisher: rec,
		Logger:    logger,
	})
	defer a.Close()

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(rec.frames) != 2 {
		t.Fatalf("published %d frames, want 2", len(rec.frames))
	}
	img, err := gocv.IMDecode(rec.frames[1], gocv.IMReadColor)
	if err != nil {
		t.Fatalf("IMDecode() error = %v", err)
	}
	defer img.Close()
	if img.Cols() != 320 || img.Rows() != 240 {
		t.Errorf("published %dx%d, want 320x240", img.Cols(), img.Rows())
	}
}
