package synth

import (
	"math"
	"time"

	"github.com/viterin/vek/vek32"
)

// Render synthesizes a mono buffer for t at the given sample rate.
// Signal chain is oscillator, gain envelope, then filter.
func Render(t Tone, sampleRate int) []float32 {
	if sampleRate <= 0 || t.Duration <= 0 || t.Frequency <= 0 {
		return nil
	}
	n := int(t.Duration.Seconds() * float64(sampleRate))
	if n <= 0 {
		return nil
	}
	out := make([]float32, n)
	env := make([]float32, n)

	phase := 0.0
	inc := t.Frequency / float64(sampleRate)
	for i := range out {
		out[i] = float32(oscillate(t.Waveform, phase))
		phase += inc
		phase -= math.Floor(phase)
		offset := time.Duration(float64(i) / float64(sampleRate) * float64(time.Second))
		env[i] = float32(t.Envelope.Value(offset))
	}
	vek32.Mul_Inplace(out, env)

	bq := newBiquad(t.Filter, sampleRate)
	bq.process(out)

	// Resonant filters can overshoot; keep the buffer inside [-1, 1].
	abs := vek32.Abs(out)
	if peak := vek32.Max(abs); peak > 1 {
		vek32.MulNumber_Inplace(out, 1/peak)
	}
	return out
}

func oscillate(w Waveform, phase float64) float64 {
	switch w {
	case Triangle:
		return 4*math.Abs(phase-0.5) - 1
	case Sawtooth:
		return 2*phase - 1
	case Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

type biquad struct {
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

func newBiquad(f Filter, sampleRate int) *biquad {
	nyquist := float64(sampleRate) / 2
	fc := f.Cutoff
	if fc > nyquist*0.9 {
		fc = nyquist * 0.9
	}
	if fc < 1 {
		fc = 1
	}
	q := f.Q
	if q <= 0 {
		q = 1
	}
	w0 := 2 * math.Pi * fc / float64(sampleRate)
	cosw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	var b0, b1, b2 float64
	switch f.Kind {
	case Highpass:
		b0 = (1 + cosw) / 2
		b1 = -(1 + cosw)
		b2 = (1 + cosw) / 2
	case Bandpass:
		b0 = alpha
		b1 = 0
		b2 = -alpha
	default:
		b0 = (1 - cosw) / 2
		b1 = 1 - cosw
		b2 = (1 - cosw) / 2
	}
	a0 := 1 + alpha
	return &biquad{
		b0: b0 / a0,
		b1: b1 / a0,
		b2: b2 / a0,
		a1: -2 * cosw / a0,
		a2: (1 - alpha) / a0,
	}
}

func (b *biquad) process(buf []float32) {
	for i, v := range buf {
		x := float64(v)
		y := b.b0*x + b.b1*b.x1 + b.b2*b.x2 - b.a1*b.y1 - b.a2*b.y2
		b.x2, b.x1 = b.x1, x
		b.y2, b.y1 = b.y1, y
		buf[i] = float32(y)
	}
}
