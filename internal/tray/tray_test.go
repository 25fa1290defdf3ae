package tray

import (
	"testing"

	"github.com/ayusman/airdraw/internal/paint"
)

func TestTray_Callbacks(t *testing.T) {
	tr := New()

	var (
		picked  paint.Color = -1
		erasing bool
		cleared int
		quit    bool
	)
	tr.OnColor(func(c paint.Color) { picked = c })
	tr.OnEraser(func() { erasing = true })
	tr.OnClear(func() { cleared++ })
	tr.OnQuit(func() { quit = true })

	// Menu items only exist once the tray is running; handlers must cope.
	tr.handleColor(paint.Green)
	tr.handleEraser()
	tr.handleClear()
	tr.handleClear()

	if picked != paint.Green {
		t.Errorf("picked = %v, want GREEN", picked)
	}
	if !erasing {
		t.Error("eraser callback not called")
	}
	if cleared != 2 {
		t.Errorf("clear called %d times, want 2", cleared)
	}
	if quit {
		t.Error("quit called without a click")
	}
}

func TestTray_NoCallbacks(t *testing.T) {
	tr := New()
	tr.handleColor(paint.Purple)
	tr.handleEraser()
	tr.handleClear()
	tr.SetSelection("BLUE")
}
