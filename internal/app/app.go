// Package app runs the live Air Draw window: camera in, painted frames out,
// keyboard for quit and clear.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ayusman/airdraw/internal/capture"
	"github.com/ayusman/airdraw/internal/chrome"
	"github.com/ayusman/airdraw/internal/detector"
	"github.com/ayusman/airdraw/internal/painter"
)

// Keys handled by the live window.
const (
	KeyQuit  = 'q'
	KeyClear = 'c'
)

// Publisher receives every finished frame as JPEG, e.g. for an MJPEG preview.
type Publisher interface {
	Publish(jpeg []byte)
}

// Config holds the collaborators of the live loop.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	Display  Display
	// Publisher is optional.
	Publisher Publisher
	Logger    *logrus.Logger
}

// App is the live variant: one session painted from one camera.
type App struct {
	camera    capture.Camera
	display   Display
	publisher Publisher
	session   *painter.Session
	log       *logrus.Entry
}

// New creates an App. The session uses the desktop chrome layout.
func New(config Config) *App {
	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &App{
		camera:    config.Camera,
		display:   config.Display,
		publisher: config.Publisher,
		session:   painter.NewSession("live", config.Detector, chrome.LiveReference, logger),
		log:       logger.WithField("component", "app"),
	}
}

// Session returns the live drawing session, for controls outside the
// window such as the tray.
func (a *App) Session() *painter.Session {
	return a.session
}

// Run processes frames until ctx is done, the user presses q, or the camera
// fails. A camera failure is returned; the other two end the loop cleanly.
func (a *App) Run(ctx context.Context) error {
	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	defer func() {
		if err := a.camera.Close(); err != nil {
			a.log.WithError(err).Warn("Error closing camera")
		}
	}()

	a.log.Info("Live loop started")
	defer a.log.Info("Live loop stopped")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		quit, err := a.step()
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// step runs one frame through the session and handles the key pressed
// while it was shown.
func (a *App) step() (quit bool, err error) {
	frame, err := a.camera.ReadFrame()
	if err != nil {
		return false, fmt.Errorf("read frame: %w", err)
	}
	defer frame.Close()

	if _, err := a.session.Process(frame); err != nil {
		if errors.Is(err, painter.ErrEmptyFrame) {
			return false, fmt.Errorf("read frame: %w", err)
		}
		a.log.WithError(err).Warn("Hand detection failed")
	}

	a.display.Show(frame)
	a.publish(frame)

	switch a.display.WaitKey(1) & 0xFF {
	case KeyQuit:
		return true, nil
	case KeyClear:
		a.session.Clear()
	}
	return false, nil
}

func (a *App) publish(frame *gocv.Mat) {
	if a.publisher == nil {
		return
	}
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		a.log.WithError(err).Debug("JPEG encode failed")
		return
	}
	defer buf.Close()

	// The native buffer is released on return; publish a copy.
	data := append([]byte(nil), buf.GetBytes()...)
	a.publisher.Publish(data)
}

// Close releases the session.
func (a *App) Close() error {
	return a.session.Close()
}
