package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/airdraw/internal/app"
	"github.com/ayusman/airdraw/internal/capture"
	"github.com/ayusman/airdraw/internal/chrome"
	"github.com/ayusman/airdraw/internal/config"
	"github.com/ayusman/airdraw/internal/detector"
	"github.com/ayusman/airdraw/internal/logging"
	"github.com/ayusman/airdraw/internal/paint"
	"github.com/ayusman/airdraw/internal/painter"
	"github.com/ayusman/airdraw/internal/server"
	"github.com/ayusman/airdraw/internal/tray"
)

func main() {
	cfg, err := config.Load(os.Args[1:], ".env")
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "airdraw: %v\n", err)
		os.Exit(2)
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "airdraw: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	det := newDetector(cfg, logger)
	defer det.Close()

	switch cfg.Mode {
	case config.ModeServe:
		err = serve(ctx, stop, cfg, det, logger)
	default:
		err = live(ctx, cfg, det, logger)
	}
	if err != nil {
		logger.WithError(err).Fatal("Air Draw stopped")
	}
}

// newDetector tries MediaPipe first and falls back to the mock detector,
// which never reports a hand.
func newDetector(cfg config.Config, logger *logrus.Logger) detector.Detector {
	dcfg := detector.DefaultConfig()
	dcfg.ScriptPath = cfg.DetectorScript

	mp, err := detector.NewMediaPipeDetector(dcfg)
	if err != nil {
		logger.WithError(err).Warn("MediaPipe not available, using mock detector")
		return detector.NewMockDetector()
	}
	logger.Info("Using MediaPipe hand detection")
	return mp
}

func live(ctx context.Context, cfg config.Config, det detector.Detector, logger *logrus.Logger) error {
	if cfg.Tray {
		logger.Warn("The tray menu is only available in serve mode")
	}

	var publisher app.Publisher
	if cfg.HTTP != "" {
		hub := server.NewFrameHub()
		publisher = hub
		srv := server.New(server.Config{Frames: hub, Logger: logger})
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.HTTP); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.WithError(err).Error("Preview server failed")
			}
		}()
	}

	window := app.NewWindow(chrome.Title)
	defer window.Close()

	a := app.New(app.Config{
		Camera:    capture.NewCamera(cfg.CameraID, cfg.Width, cfg.Height),
		Detector:  det,
		Display:   window,
		Publisher: publisher,
		Logger:    logger,
	})
	defer a.Close()

	return a.Run(ctx)
}

func serve(ctx context.Context, stop context.CancelFunc, cfg config.Config, det detector.Detector, logger *logrus.Logger) error {
	registry := painter.NewRegistry(det, chrome.SnapshotReference, logger)
	defer registry.Close()

	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = findWebDir()
	}
	if staticDir != "" {
		logger.WithField("dir", staticDir).Info("Serving static files")
	}

	srv := server.New(server.Config{
		StaticDir: staticDir,
		Registry:  registry,
		MaxFPS:    cfg.MaxFPS,
		Logger:    logger,
	})

	if !cfg.Tray {
		return srv.ListenAndServe(ctx, cfg.HTTP)
	}

	// The tray owns the main thread until it quits.
	t := tray.New()
	t.OnColor(func(c paint.Color) {
		registry.Each(func(s *painter.Session) { s.SelectColor(c) })
	})
	t.OnEraser(func() {
		registry.Each(func(s *painter.Session) { s.SelectEraser() })
	})
	t.OnClear(func() {
		registry.Each(func(s *painter.Session) { s.Clear() })
	})
	t.OnQuit(stop)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(ctx, cfg.HTTP)
		t.Quit()
	}()
	t.Run()
	stop()
	return <-errCh
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.airdraw/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	homeWebDir := filepath.Join(homeDir, ".airdraw", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}
	return ""
}
