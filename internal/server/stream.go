package server

import (
	"fmt"
	"net/http"
	"sync"
)

// FrameHub keeps the most recent encoded frame and wakes every waiting
// stream when a new one arrives.
type FrameHub struct {
	mu     sync.Mutex
	frame  []byte
	seq    uint64
	wake   chan struct{}
	closed bool
}

// NewFrameHub creates an empty hub.
func NewFrameHub() *FrameHub {
	return &FrameHub{wake: make(chan struct{})}
}

// Publish replaces the current frame. The hub keeps jpeg; callers must not
// modify it afterwards.
func (h *FrameHub) Publish(jpeg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.frame = jpeg
	h.seq++
	close(h.wake)
	h.wake = make(chan struct{})
}

// Latest returns the current frame, its sequence number (0 before the first
// publish) and a channel closed on the next publish.
func (h *FrameHub) Latest() ([]byte, uint64, <-chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frame, h.seq, h.wake
}

// Close wakes all streams for the last time.
func (h *FrameHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.wake)
}

func (h *FrameHub) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// StreamHandler serves MJPEG frames from a FrameHub.
type StreamHandler struct {
	hub *FrameHub
}

// NewStreamHandler creates a new StreamHandler reading from hub.
func NewStreamHandler(hub *FrameHub) *StreamHandler {
	return &StreamHandler{hub: hub}
}

// ServeHTTP streams each published frame to the client until it leaves or
// the hub is closed.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var sent uint64
	for {
		frame, seq, wake := h.hub.Latest()
		if seq != sent && frame != nil {
			if err := writePart(w, frame); err != nil {
				return
			}
			sent = seq
		}
		if h.hub.isClosed() {
			return
		}

		select {
		case <-r.Context().Done():
			return
		case <-wake:
		}
	}
}

func writePart(w http.ResponseWriter, jpeg []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(jpeg)); err != nil {
		return err
	}
	if _, err := w.Write(jpeg); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\r\n"); err != nil {
		return err
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}
