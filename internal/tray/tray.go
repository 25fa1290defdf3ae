// Package tray provides the system tray menu of Air Draw: color and eraser
// selection, clear and quit.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/airdraw/internal/paint"
)

// Tray represents the system tray application.
type Tray struct {
	onColor  func(c paint.Color)
	onEraser func()
	onClear  func()
	onQuit   func()
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuSelection *systray.MenuItem
}

// New creates a new Tray instance.
func New() *Tray {
	return &Tray{}
}

// OnColor sets the callback called when a color is picked.
func (t *Tray) OnColor(fn func(c paint.Color)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onColor = fn
}

// OnEraser sets the callback called when the eraser is picked.
func (t *Tray) OnEraser(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onEraser = fn
}

// OnClear sets the callback called when "Clear canvas" is clicked.
func (t *Tray) OnClear(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onClear = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Air Draw")
	systray.SetTooltip("Air Draw - paint with your index finger")

	t.mu.Lock()
	t.menuSelection = systray.AddMenuItem("Selected: "+paint.Blue.String(), "Current tool")
	t.menuSelection.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	colors := make([]*systray.MenuItem, paint.NumColors)
	for c := paint.Color(0); c < paint.NumColors; c++ {
		colors[c] = systray.AddMenuItem(c.String(), "Draw in "+c.String())
	}
	menuEraser := systray.AddMenuItem("ERASER", "Erase strokes")
	systray.AddSeparator()

	menuClear := systray.AddMenuItem("Clear canvas", "Wipe every stroke")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Air Draw")

	for c, item := range colors {
		go func(c paint.Color, item *systray.MenuItem) {
			for range item.ClickedCh {
				t.handleColor(c)
			}
		}(paint.Color(c), item)
	}

	go func() {
		for {
			select {
			case <-menuEraser.ClickedCh:
				t.handleEraser()
			case <-menuClear.ClickedCh:
				t.handleClear()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

func (t *Tray) handleColor(c paint.Color) {
	t.mu.RLock()
	callback := t.onColor
	t.mu.RUnlock()

	t.SetSelection(c.String())
	if callback != nil {
		callback(c)
	}
}

func (t *Tray) handleEraser() {
	t.mu.RLock()
	callback := t.onEraser
	t.mu.RUnlock()

	t.SetSelection("ERASER")
	if callback != nil {
		callback()
	}
}

func (t *Tray) handleClear() {
	t.mu.RLock()
	callback := t.onClear
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetSelection updates the selected tool display in the menu.
func (t *Tray) SetSelection(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuSelection != nil {
		t.menuSelection.SetTitle("Selected: " + name)
	}
}
