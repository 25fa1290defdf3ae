// Package config loads airdraw settings from an optional .env file, the
// AIRDRAW_* environment and command line flags, in increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Run modes.
const (
	ModeLive  = "live"
	ModeServe = "serve"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "AIRDRAW_"

// Config is the full application configuration.
type Config struct {
	Mode string `validate:"oneof=live serve"`

	CameraID int `validate:"gte=0"`
	Width    int `validate:"gte=160,lte=3840"`
	Height   int `validate:"gte=120,lte=2160"`

	// HTTP is the listen address. Serve mode requires it; live mode only
	// starts the MJPEG preview when it is set.
	HTTP      string `validate:"required_if=Mode serve,omitempty,hostname_port"`
	StaticDir string `validate:"omitempty,dir"`
	// MaxFPS caps how many snapshots per second a websocket client may send.
	MaxFPS int `validate:"gte=1,lte=120"`

	LogLevel  string `validate:"oneof=trace debug info warn error"`
	LogFormat string `validate:"oneof=text json"`
	LogFile   string

	Tray bool
	// DetectorScript overrides the hand service script location.
	DetectorScript string `validate:"omitempty,file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Mode:      ModeLive,
		CameraID:  0,
		Width:     1280,
		Height:    720,
		HTTP:      "",
		MaxFPS:    15,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

var validate = validator.New()

// Load builds the configuration for a run with the given command line
// arguments (without the program name). envFile is loaded first when it
// exists; a missing file is not an error.
func Load(args []string, envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Default()
	if err := cfg.fromEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	fset := flag.NewFlagSet("airdraw", flag.ContinueOnError)
	fset.SetOutput(io.Discard)
	cfg.bind(fset)
	if err := fset.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fset.SetOutput(os.Stderr)
			fset.PrintDefaults()
		}
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: %s fails %q", verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) bind(fset *flag.FlagSet) {
	fset.StringVar(&c.Mode, "mode", c.Mode, "run mode: live or serve")
	fset.IntVar(&c.CameraID, "camera", c.CameraID, "camera device id")
	fset.IntVar(&c.Width, "width", c.Width, "requested capture width")
	fset.IntVar(&c.Height, "height", c.Height, "requested capture height")
	fset.StringVar(&c.HTTP, "http", c.HTTP, "HTTP listen address, e.g. :8080")
	fset.StringVar(&c.StaticDir, "static", c.StaticDir, "directory served at /")
	fset.IntVar(&c.MaxFPS, "max-fps", c.MaxFPS, "snapshots per second accepted per websocket")
	fset.StringVar(&c.LogLevel, "log-level", c.LogLevel, "trace, debug, info, warn or error")
	fset.StringVar(&c.LogFormat, "log-format", c.LogFormat, "text or json")
	fset.StringVar(&c.LogFile, "log-file", c.LogFile, "also write logs to this rotated file")
	fset.BoolVar(&c.Tray, "tray", c.Tray, "show the system tray menu (serve mode)")
	fset.StringVar(&c.DetectorScript, "detector-script", c.DetectorScript, "path to the hand service script")
}

type lookupFunc func(key string) (string, bool)

func (c *Config) fromEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
		return nil
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = b
		return nil
	}

	str("MODE", &c.Mode)
	str("HTTP", &c.HTTP)
	str("STATIC_DIR", &c.StaticDir)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	str("LOG_FILE", &c.LogFile)
	str("DETECTOR_SCRIPT", &c.DetectorScript)

	return errors.Join(
		num("CAMERA", &c.CameraID),
		num("WIDTH", &c.Width),
		num("HEIGHT", &c.Height),
		num("MAX_FPS", &c.MaxFPS),
		boolean("TRAY", &c.Tray),
	)
}
