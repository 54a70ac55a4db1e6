package soundbank

import "math"

// FlowScale is the two-octave C-D-E-G-A table used for the mouse melody.
var FlowScale = [10]float64{
	261.63, 293.66, 329.63, 392.00, 440.00,
	523.25, 587.33, 659.25, 783.99, 880.00,
}

// FlowIndex maps a horizontal position to an index into FlowScale.
func FlowIndex(x, width int) int {
	if width <= 0 || x <= 0 {
		return 0
	}
	idx := int(math.Floor(float64(x) / float64(width) * float64(len(FlowScale))))
	if idx >= len(FlowScale) {
		idx = len(FlowScale) - 1
	}
	return idx
}

// FlowFrequency returns the mouse-melody pitch for a horizontal position.
func FlowFrequency(x, width int) float64 {
	return FlowScale[FlowIndex(x, width)]
}

// Fixed pitches for non-keyboard events.
const (
	ClickFrequency = 880.00
	FocusFrequency = 523.25
)

// ScrollFrequency is 440 + (position mod 200).
func ScrollFrequency(position int) float64 {
	m := position % 200
	if m < 0 {
		m += 200
	}
	return 440 + float64(m)
}
