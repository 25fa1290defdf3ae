package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "text", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.WithField("session", "abc").Info("canvas cleared")
	logger.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, "canvas cleared") || !strings.Contains(out, "abc") {
		t.Errorf("output %q missing message or field", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug entry written at info level")
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.WithField("mode", "DRAW").Debug("mode changed")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "mode changed" || entry["mode"] != "DRAW" || entry["level"] != "debug" {
		t.Errorf("entry = %v", entry)
	}
	if _, ok := entry["func"]; !ok {
		t.Error("debug level should report the caller")
	}
}

func TestNew_Defaults(t *testing.T) {
	logger, err := New(Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if logger.GetLevel() != logrus.InfoLevel {
		t.Errorf("level = %v, want info", logger.GetLevel())
	}
	if logger.Out != os.Stderr {
		t.Error("default output should be stderr")
	}
}

func TestNew_Invalid(t *testing.T) {
	if _, err := New(Options{Level: "shouty"}); err == nil {
		t.Error("New() accepted an unknown level")
	}
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Error("New() accepted an unknown format")
	}
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "airdraw.log")

	var buf bytes.Buffer
	logger, err := New(Options{File: path, Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("session created")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "session created") {
		t.Errorf("log file = %q, want the entry", data)
	}
	if !strings.Contains(buf.String(), "session created") {
		t.Error("entry missing from the primary output")
	}
	if strings.Contains(string(data), "\x1b[") {
		t.Error("file output should not be colored")
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing to see")
}
