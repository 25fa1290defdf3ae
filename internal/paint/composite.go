package paint

import (
	"gocv.io/x/gocv"
)

// InkThreshold is the channel value a canvas pixel must exceed to count as
// painted. Anything at or below it is treated as background.
const InkThreshold = 20

// InkMask returns a single channel mask that is 255 where any channel of
// canvas exceeds InkThreshold and 0 elsewhere. The caller closes it.
func InkMask(canvas gocv.Mat) gocv.Mat {
	bin := gocv.NewMat()
	defer bin.Close()
	gocv.Threshold(canvas, &bin, InkThreshold, 255, gocv.ThresholdBinary)

	channels := gocv.Split(bin)
	defer func() {
		for _, ch := range channels {
			ch.Close()
		}
	}()

	mask := gocv.NewMatWithSize(canvas.Rows(), canvas.Cols(), gocv.MatTypeCV8U)
	mask.SetTo(gocv.NewScalar(0, 0, 0, 0))
	for _, ch := range channels {
		gocv.BitwiseOr(mask, ch, &mask)
	}
	return mask
}

// Composite overlays the canvas on frame in place. Painted canvas pixels
// replace the frame pixel outright; unpainted ones leave the frame as is.
// There is no blending, so the latest ink on a pixel is what shows.
func Composite(frame *gocv.Mat, canvas *Canvas) {
	mask := InkMask(canvas.mat)
	defer mask.Close()
	canvas.mat.CopyToWithMask(frame, mask)
}
