// Package synth renders and plays short instrument tones.
package synth

import (
	"math"
	"time"

	"github.com/verte-zerg/symphony/internal/soundbank"
)

// Waveform is the oscillator shape.
type Waveform int

const (
	Sine Waveform = iota
	Triangle
	Sawtooth
	Square
)

// FilterKind selects the biquad response.
type FilterKind int

const (
	Lowpass FilterKind = iota
	Highpass
	Bandpass
)

// Filter describes the single biquad stage after the gain envelope.
type Filter struct {
	Kind   FilterKind
	Cutoff float64
	Q      float64
}

// Curve is the interpolation used to reach a segment target.
type Curve int

const (
	Linear Curve = iota
	Exponential
)

// Segment ramps the gain to To, arriving at At after note start.
type Segment struct {
	To    float64
	At    time.Duration
	Curve Curve
}

// Envelope is a gain automation starting at zero.
type Envelope []Segment

// silence is the floor used by exponential ramps, which cannot reach zero.
const silence = 0.001

// Value returns the gain at offset t.
func (e Envelope) Value(t time.Duration) float64 {
	prevV := 0.0
	prevT := time.Duration(0)
	for _, s := range e {
		if t < s.At {
			if s.At <= prevT {
				return s.To
			}
			frac := float64(t-prevT) / float64(s.At-prevT)
			switch s.Curve {
			case Exponential:
				from := prevV
				if from <= 0 {
					from = silence
				}
				return from * math.Pow(s.To/from, frac)
			default:
				return prevV + (s.To-prevV)*frac
			}
		}
		prevV, prevT = s.To, s.At
	}
	return prevV
}

// Tone is everything a backend needs to emit one note.
type Tone struct {
	Frequency float64
	Waveform  Waveform
	Filter    Filter
	Envelope  Envelope
	Duration  time.Duration
}

// DefaultDuration is the note length used when callers pass zero.
func DefaultDuration(family soundbank.Family) time.Duration {
	switch family {
	case soundbank.Piano:
		return 800 * time.Millisecond
	case soundbank.Guitar:
		return 1200 * time.Millisecond
	case soundbank.Ambient:
		return 400 * time.Millisecond
	default:
		return 300 * time.Millisecond
	}
}

// ToneFor builds the family recipe for a note.
func ToneFor(freq float64, family soundbank.Family, dur time.Duration) Tone {
	if dur <= 0 {
		dur = DefaultDuration(family)
	}
	switch family {
	case soundbank.Piano:
		return Tone{
			Frequency: freq,
			Waveform:  Triangle,
			Filter:    Filter{Kind: Lowpass, Cutoff: freq * 3, Q: 1},
			Envelope: Envelope{
				{To: 0.3, At: 10 * time.Millisecond, Curve: Linear},
				{To: 0.1, At: 200 * time.Millisecond, Curve: Exponential},
				{To: silence, At: dur, Curve: Exponential},
			},
			Duration: dur,
		}
	case soundbank.Guitar:
		return Tone{
			Frequency: freq,
			Waveform:  Sawtooth,
			Filter:    Filter{Kind: Bandpass, Cutoff: freq * 2, Q: 3},
			Envelope: Envelope{
				{To: 0.4, At: 20 * time.Millisecond, Curve: Linear},
				{To: silence, At: dur, Curve: Exponential},
			},
			Duration: dur,
		}
	case soundbank.Ambient:
		return Tone{
			Frequency: freq,
			Waveform:  Sine,
			Filter:    Filter{Kind: Lowpass, Cutoff: freq * 2, Q: 1},
			Envelope: Envelope{
				{To: 0.15, At: 50 * time.Millisecond, Curve: Linear},
				{To: silence, At: dur, Curve: Exponential},
			},
			Duration: dur,
		}
	default:
		wave := Square
		if freq < 100 {
			wave = Sine
		}
		return Tone{
			Frequency: freq,
			Waveform:  wave,
			Filter:    Filter{Kind: Highpass, Cutoff: freq * 0.5, Q: 1},
			Envelope: Envelope{
				{To: 0.5, At: 10 * time.Millisecond, Curve: Linear},
				{To: silence, At: dur, Curve: Exponential},
			},
			Duration: dur,
		}
	}
}
