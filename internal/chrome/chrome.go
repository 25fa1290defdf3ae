package chrome

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/airdraw/internal/detector"
	"github.com/ayusman/airdraw/internal/gesture"
	"github.com/ayusman/airdraw/internal/paint"
)

// Title is drawn at the left of the top bar.
const Title = "AIR DRAW"

// Hint texts shown in the HUD.
const (
	GestureHint        = "INDEX+MIDDLE: Select | INDEX: Draw"
	CompactGestureHint = "2 Fingers: Select | 1 Finger: Draw"
	KeyHint            = "C: Clear  |  Q: Quit"
)

// CursorRadius is the radius of the fingertip marker.
const CursorRadius = 14

var (
	white      = gray(255)
	barShade   = gray(20)
	eraserFill = gray(60)
	idleBorder = gray(180)
	hintText   = gray(200)
	sizeText   = gray(220)
	black      = gray(0)
	jointColor = color.RGBA{R: 255, G: 0, B: 0, A: 0}
)

func gray(v uint8) color.RGBA {
	return color.RGBA{R: v, G: v, B: v, A: 0}
}

// label returns the button text and fill for cell i.
func label(i int) (string, color.RGBA) {
	if i == gesture.EraserCell {
		return "ERASER", eraserFill
	}
	c := paint.Color(i)
	return c.String(), c.RGBA()
}

// shade darkens rect of img by blending a filled copy over it.
func shade(img *gocv.Mat, rect image.Rectangle, fill color.RGBA, alpha float64) {
	overlay := img.Clone()
	defer overlay.Close()
	gocv.Rectangle(&overlay, rect, fill, -1)
	gocv.AddWeighted(overlay, alpha, *img, 1-alpha, 0, img)
}

func text(img *gocv.Mat, s string, org image.Point, font gocv.HersheyFont, scale float64, c color.RGBA, thickness int) {
	gocv.PutTextWithParams(img, s, org, font, scale, c, thickness, gocv.LineAA, false)
}

// DrawTopBar draws the title and the five selection buttons, outlining the
// active one.
func DrawTopBar(img *gocv.Mat, l Layout, tool *paint.Tool) {
	shade(img, image.Rect(0, 0, l.Width, l.BarHeight()), barShade, 0.7)

	text(img, Title, image.Pt(l.x(20), l.y(55)), gocv.FontHersheySimplex,
		l.scaled(1, 0.5)*1.3, white, l.stroke(2, 1))

	cw := l.CellWidth()
	y1 := barPadding
	y2 := y1 + l.ButtonHeight() - barPadding
	labelScale := l.scaled(0.6, 0.3)
	labelThickness := l.stroke(2, 1)

	for i := 0; i < gesture.Cells; i++ {
		x1 := i * cw
		x2 := x1 + cw
		name, fill := label(i)
		button := image.Rect(x1+5, y1, x2-5, y2)

		gocv.Rectangle(img, button, fill, -1)
		if i == tool.Slot() {
			gocv.Rectangle(img, button, white, l.stroke(4, 2))
		} else {
			gocv.Rectangle(img, button, idleBorder, l.stroke(2, 1))
		}

		size := gocv.GetTextSize(name, gocv.FontHersheySimplex, labelScale, labelThickness)
		tx := x1 + (cw-size.X)/2
		text(img, name, image.Pt(tx, y2-10), gocv.FontHersheySimplex, labelScale, white, labelThickness)
	}
}

// DrawHUD draws the bottom strip: current mode, gesture hints and a circle
// sized to the active thickness.
func DrawHUD(img *gocv.Mat, l Layout, mode gesture.Mode, tool *paint.Tool) {
	top := l.Height - l.HUDHeight()
	shade(img, image.Rect(0, top, l.Width, l.Height), black, 0.6)

	large := l.scaled(0.8, 0.4)
	small := l.scaled(0.6, 0.3)
	thickness := l.stroke(2, 1)
	baseline := l.Height - l.y(25)

	text(img, "MODE: "+mode.String(), image.Pt(l.x(20), baseline), gocv.FontHersheySimplex, large, white, thickness)

	hint := GestureHint
	if l.Compact() {
		hint = CompactGestureHint
	}
	size := gocv.GetTextSize(hint, gocv.FontHersheySimplex, small, thickness)
	text(img, hint, image.Pt(l.Width/2-size.X/2, baseline), gocv.FontHersheySimplex, small, hintText, thickness)

	if l.ref.KeyHints {
		text(img, KeyHint, image.Pt(l.Width-l.x(310), baseline), gocv.FontHersheySimplex, small, idleBorder, thickness)
	}

	_, width := tool.Ink()
	center := image.Pt(l.Width-l.x(70), l.Height-l.y(40))
	radius := max(int(float64(width/4)*l.sx), 5)
	gocv.Circle(img, center, radius, white, thickness)
	text(img, "SIZE", image.Pt(center.X-l.x(25), center.Y-l.y(25)), gocv.FontHersheyPlain,
		l.scaled(1.2, 0.5), sizeText, l.stroke(1, 1))
}

// DrawHand marks the fingertip and draws the hand skeleton. The marker is
// white while selecting and takes the ink color while drawing.
func DrawHand(img *gocv.Mat, kp *detector.Keypoints, mode gesture.Mode, tool *paint.Tool) {
	if kp == nil {
		return
	}

	switch {
	case mode == gesture.ModeSelect:
		gocv.Circle(img, kp.Fingertip(), CursorRadius, white, -1)
	case mode.Drawing():
		ink, _ := tool.Ink()
		gocv.Circle(img, kp.Fingertip(), CursorRadius, ink, -1)
	}

	for _, bone := range detector.HandConnections {
		gocv.Line(img, kp[bone[0]], kp[bone[1]], white, 2)
	}
	for _, p := range kp {
		gocv.Circle(img, p, 3, jointColor, -1)
	}
}
