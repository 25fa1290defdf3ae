package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu       sync.Mutex
	hands    []HandLandmarks
	sequence [][]HandLandmarks
	calls    int
	err      error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by every Detect call.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
	m.sequence = nil
}

// SetSequence makes Detect return one entry per call, in order. Once the
// sequence is exhausted Detect reports no hands.
func (m *MockDetector) SetSequence(seq [][]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequence = seq
	m.hands = nil
	m.calls = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.sequence != nil {
		i := m.calls - 1
		if i >= len(m.sequence) {
			return nil, nil
		}
		return m.sequence[i], nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// PointAt returns a copy of hand translated so the index fingertip sits at
// the normalized position (x, y).
func PointAt(hand HandLandmarks, x, y float64) HandLandmarks {
	dx := x - hand.Points[IndexTip].X
	dy := y - hand.Points[IndexTip].Y
	for i := range hand.Points {
		hand.Points[i].X += dx
		hand.Points[i].Y += dy
	}
	hand.Points[IndexTip].X = x
	hand.Points[IndexTip].Y = y
	return hand
}

// palm fills the wrist, thumb and the ring/pinky fingers of a right hand in a
// loose curl shared by every preset.
func palm() HandLandmarks {
	lm := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	lm.Points[Wrist] = Point3D{X: 0.50, Y: 0.80, Z: 0.0}

	lm.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.76, Z: 0.0}
	lm.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.72, Z: 0.0}
	lm.Points[ThumbIP] = Point3D{X: 0.57, Y: 0.69, Z: -0.01}
	lm.Points[ThumbTip] = Point3D{X: 0.54, Y: 0.68, Z: -0.02}

	lm.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	lm.Points[RingMCP] = Point3D{X: 0.46, Y: 0.67, Z: 0.0}
	lm.Points[RingPIP] = Point3D{X: 0.46, Y: 0.62, Z: -0.04}
	lm.Points[RingDIP] = Point3D{X: 0.46, Y: 0.65, Z: -0.04}
	lm.Points[RingTip] = Point3D{X: 0.46, Y: 0.69, Z: -0.02}

	lm.Points[PinkyMCP] = Point3D{X: 0.42, Y: 0.69, Z: 0.0}
	lm.Points[PinkyPIP] = Point3D{X: 0.42, Y: 0.65, Z: -0.03}
	lm.Points[PinkyDIP] = Point3D{X: 0.42, Y: 0.67, Z: -0.03}
	lm.Points[PinkyTip] = Point3D{X: 0.42, Y: 0.70, Z: -0.02}

	lm.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.67, Z: 0.0}
	return lm
}

func raiseIndex(lm *HandLandmarks) {
	lm.Points[IndexPIP] = Point3D{X: 0.56, Y: 0.55, Z: 0.0}
	lm.Points[IndexDIP] = Point3D{X: 0.57, Y: 0.46, Z: 0.0}
	lm.Points[IndexTip] = Point3D{X: 0.57, Y: 0.38, Z: 0.0}
}

func curlIndex(lm *HandLandmarks) {
	lm.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.61, Z: -0.04}
	lm.Points[IndexDIP] = Point3D{X: 0.54, Y: 0.64, Z: -0.04}
	lm.Points[IndexTip] = Point3D{X: 0.54, Y: 0.68, Z: -0.02}
}

func raiseMiddle(lm *HandLandmarks) {
	lm.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	lm.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.42, Z: 0.0}
	lm.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.33, Z: 0.0}
}

func curlMiddle(lm *HandLandmarks) {
	lm.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.60, Z: -0.04}
	lm.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.63, Z: -0.04}
	lm.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.67, Z: -0.02}
}

// PointingLandmarks returns a hand with only the index finger raised, the
// drawing pose.
func PointingLandmarks() HandLandmarks {
	lm := palm()
	raiseIndex(&lm)
	curlMiddle(&lm)
	return lm
}

// TwoFingerLandmarks returns a hand with index and middle fingers raised,
// the selection pose.
func TwoFingerLandmarks() HandLandmarks {
	lm := palm()
	raiseIndex(&lm)
	raiseMiddle(&lm)
	return lm
}

// FistLandmarks returns a closed hand with every finger curled.
func FistLandmarks() HandLandmarks {
	lm := palm()
	curlIndex(&lm)
	curlMiddle(&lm)
	return lm
}

// MiddleOnlyLandmarks returns a hand with the middle finger raised and the
// index finger curled.
func MiddleOnlyLandmarks() HandLandmarks {
	lm := palm()
	curlIndex(&lm)
	raiseMiddle(&lm)
	return lm
}
