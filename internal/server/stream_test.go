package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFrameHub(t *testing.T) {
	hub := NewFrameHub()

	frame, seq, wake := hub.Latest()
	if frame != nil || seq != 0 {
		t.Errorf("Latest() before publish = %q, %d", frame, seq)
	}

	hub.Publish([]byte("one"))
	select {
	case <-wake:
	default:
		t.Fatal("Publish did not wake waiters")
	}

	frame, seq, _ = hub.Latest()
	if string(frame) != "one" || seq != 1 {
		t.Errorf("Latest() = %q, %d; want one, 1", frame, seq)
	}

	_, _, wake = hub.Latest()
	hub.Close()
	hub.Close()
	select {
	case <-wake:
	default:
		t.Fatal("Close did not wake waiters")
	}

	hub.Publish([]byte("late"))
	if frame, _, _ := hub.Latest(); string(frame) != "one" {
		t.Errorf("Publish after Close replaced the frame with %q", frame)
	}
}

func TestStreamHandler(t *testing.T) {
	hub := NewFrameHub()
	hub.Publish([]byte("one"))

	ts := httptest.NewServer(NewStreamHandler(hub))
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL)
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "multipart/x-mixed-replace; boundary=frame" {
		t.Errorf("Content-Type = %q", ct)
	}

	hub.Publish([]byte("two"))
	time.Sleep(20 * time.Millisecond)
	hub.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	got := string(body)
	for _, want := range []string{"--frame\r\n", "Content-Type: image/jpeg", "Content-Length: 3", "one", "two"} {
		if !strings.Contains(got, want) {
			t.Errorf("stream missing %q in %q", want, got)
		}
	}
	if strings.Index(got, "one") > strings.Index(got, "two") {
		t.Error("frames arrived out of order")
	}
}

func TestStreamHandler_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	NewStreamHandler(NewFrameHub()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/stream", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
