package synth

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"
)

// DefaultSampleRate is used when no rate is configured.
const DefaultSampleRate = 44100

// OtoBackend plays each tone on its own oto player.
type OtoBackend struct {
	sampleRate int
	ctx        *oto.Context
	ready      chan struct{}
	start      time.Time
	suspended  bool
	players    []*oto.Player
}

// NewOtoBackend returns a backend that opens the device lazily in Init.
func NewOtoBackend(sampleRate int) *OtoBackend {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &OtoBackend{sampleRate: sampleRate}
}

// Init opens the audio device. Only the first call has an effect.
func (b *OtoBackend) Init() error {
	if b.ctx != nil {
		return nil
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   b.sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return fmt.Errorf("cannot create oto context: %w", err)
	}
	b.ctx = ctx
	b.ready = ready
	b.start = time.Now()
	return nil
}

// Suspended implements Backend.
func (b *OtoBackend) Suspended() bool {
	return b.suspended
}

// Suspend implements Backend.
func (b *OtoBackend) Suspend() error {
	if b.ctx == nil {
		return ErrNotReady
	}
	if err := b.ctx.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	b.suspended = true
	return nil
}

// Resume implements Backend.
func (b *OtoBackend) Resume() error {
	if b.ctx == nil {
		return ErrNotReady
	}
	if err := b.ctx.Resume(); err != nil {
		return fmt.Errorf("cannot resume oto context: %w", err)
	}
	b.suspended = false
	return nil
}

// Play renders t and starts it without waiting for it to finish.
func (b *OtoBackend) Play(t Tone) error {
	if b.ctx == nil {
		return ErrNotReady
	}
	select {
	case <-b.ready:
	default:
		return ErrNotReady
	}
	if err := b.ctx.Err(); err != nil {
		return fmt.Errorf("oto context failed: %w", err)
	}
	b.reap()
	samples := Render(t, b.sampleRate)
	if len(samples) == 0 {
		return nil
	}
	player := b.ctx.NewPlayer(bytes.NewReader(stereoFloat32LE(samples)))
	player.Play()
	b.players = append(b.players, player)
	return nil
}

// Now implements Backend.
func (b *OtoBackend) Now() time.Duration {
	if b.start.IsZero() {
		return 0
	}
	return time.Since(b.start)
}

// Close releases all players.
func (b *OtoBackend) Close() error {
	var firstErr error
	for _, p := range b.players {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("cannot close oto player: %w", err)
		}
	}
	b.players = nil
	return firstErr
}

func (b *OtoBackend) reap() {
	alive := b.players[:0]
	for _, p := range b.players {
		if p.IsPlaying() {
			alive = append(alive, p)
			continue
		}
		// Best-effort close of a finished player.
		_ = p.Close()
	}
	b.players = alive
}

// stereoFloat32LE duplicates a mono buffer into interleaved float32 LE frames.
func stereoFloat32LE(mono []float32) []byte {
	buf := make([]byte, len(mono)*8)
	for i, s := range mono {
		v := math.Float32bits(s)
		binary.LittleEndian.PutUint32(buf[i*8:], v)
		binary.LittleEndian.PutUint32(buf[i*8+4:], v)
	}
	return buf
}
