package paint

import (
	"errors"
	"testing"
)

func TestNewTool_Defaults(t *testing.T) {
	tool := NewTool()

	c, ok := tool.Color()
	if !ok || c != Blue {
		t.Errorf("Color() = %v, %v; want BLUE, true", c, ok)
	}
	if tool.Eraser() {
		t.Error("eraser should be off by default")
	}
	if got := tool.BrushThickness(); got != DefaultBrushThickness {
		t.Errorf("BrushThickness() = %d, want %d", got, DefaultBrushThickness)
	}
	if got := tool.EraserThickness(); got != DefaultEraserThickness {
		t.Errorf("EraserThickness() = %d, want %d", got, DefaultEraserThickness)
	}
}

// exclusive checks that exactly one of "a color is selected" and "eraser
// active" holds.
func exclusive(t *testing.T, tool *Tool) {
	t.Helper()
	_, hasColor := tool.Color()
	if hasColor == tool.Eraser() {
		t.Fatalf("color selected = %v, eraser = %v; exactly one must hold", hasColor, tool.Eraser())
	}
}

func TestTool_SelectionIsExclusive(t *testing.T) {
	// Every sequence of three actions over {PURPLE..YELLOW, ERASER}.
	actions := []func(*Tool){
		func(t *Tool) { t.SelectColor(Purple) },
		func(t *Tool) { t.SelectColor(Blue) },
		func(t *Tool) { t.SelectColor(Green) },
		func(t *Tool) { t.SelectColor(Yellow) },
		func(t *Tool) { t.SelectEraser() },
	}

	for a := range actions {
		for b := range actions {
			for c := range actions {
				tool := NewTool()
				for _, i := range []int{a, b, c} {
					actions[i](tool)
					exclusive(t, tool)
				}

				last := c
				if last == len(actions)-1 {
					if !tool.Eraser() {
						t.Errorf("sequence %d,%d,%d: eraser should be active", a, b, c)
					}
					continue
				}
				if got, _ := tool.Color(); got != Color(last) {
					t.Errorf("sequence %d,%d,%d: Color() = %v, want %v", a, b, c, got, Color(last))
				}
			}
		}
	}
}

func TestTool_SelectColorClearsEraser(t *testing.T) {
	tool := NewTool()
	tool.SelectEraser()
	tool.SelectColor(Green)

	if tool.Eraser() {
		t.Error("selecting a color should turn the eraser off")
	}
	if c, ok := tool.Color(); !ok || c != Green {
		t.Errorf("Color() = %v, %v; want GREEN, true", c, ok)
	}
}

func TestTool_SelectColorIgnoresInvalid(t *testing.T) {
	tool := NewTool()
	tool.SelectEraser()
	tool.SelectColor(Color(7))

	if !tool.Eraser() {
		t.Error("an invalid color must not change the selection")
	}
}

func TestTool_Thickness(t *testing.T) {
	tests := []struct {
		name       string
		brush      int
		eraser     int
		wantBrush  int
		wantEraser int
	}{
		{"in range", 20, 75, 20, 75},
		{"lower bounds", 5, 30, 5, 30},
		{"upper bounds", 30, 100, 30, 100},
		{"below range", 1, 10, 5, 30},
		{"above range", 99, 500, 30, 100},
		{"negative", -3, -3, 5, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := NewTool()
			tool.SetBrushThickness(tt.brush)
			tool.SetEraserThickness(tt.eraser)

			if got := tool.BrushThickness(); got != tt.wantBrush {
				t.Errorf("BrushThickness() = %d, want %d", got, tt.wantBrush)
			}
			if got := tool.EraserThickness(); got != tt.wantEraser {
				t.Errorf("EraserThickness() = %d, want %d", got, tt.wantEraser)
			}
		})
	}
}

func TestTool_Ink(t *testing.T) {
	tool := NewTool()
	tool.SelectColor(Yellow)
	tool.SetBrushThickness(8)

	ink, width := tool.Ink()
	if ink != Yellow.RGBA() || width != 8 {
		t.Errorf("Ink() = %v, %d; want %v, 8", ink, width, Yellow.RGBA())
	}

	tool.SelectEraser()
	tool.SetEraserThickness(40)

	ink, width = tool.Ink()
	if ink != Background || width != 40 {
		t.Errorf("eraser Ink() = %v, %d; want background, 40", ink, width)
	}
}

func TestTool_Slot(t *testing.T) {
	tool := NewTool()
	for c := Purple; c < NumColors; c++ {
		tool.SelectColor(c)
		if got := tool.Slot(); got != int(c) {
			t.Errorf("Slot() = %d, want %d", got, c)
		}
	}
	tool.SelectEraser()
	if got := tool.Slot(); got != 4 {
		t.Errorf("Slot() = %d, want 4", got)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr error
	}{
		{"purple", Purple, nil},
		{"BLUE", Blue, nil},
		{"Green", Green, nil},
		{"yellow", Yellow, nil},
		{"red", 0, ErrUnknownColor},
		{"", 0, ErrUnknownColor},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseColor(%q) error = %v, want %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestColor_String(t *testing.T) {
	want := []string{"PURPLE", "BLUE", "GREEN", "YELLOW"}
	for i, w := range want {
		if got := Color(i).String(); got != w {
			t.Errorf("Color(%d).String() = %q, want %q", i, got, w)
		}
	}
	if got := Color(-1).String(); got != "NONE" {
		t.Errorf("invalid color String() = %q, want NONE", got)
	}
}
