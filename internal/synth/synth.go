package synth

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/verte-zerg/symphony/internal/soundbank"
)

// ErrNotReady is returned by backends that cannot emit sound yet.
var ErrNotReady = errors.New("audio backend not ready")

// Backend is the audio device abstraction.
type Backend interface {
	Init() error
	Suspended() bool
	Suspend() error
	Resume() error
	Play(t Tone) error
	Now() time.Duration
}

// Synthesizer plays fire-and-forget notes on a Backend. Failures are logged
// and never reach the caller.
type Synthesizer struct {
	backend     Backend
	log         *slog.Logger
	initialized bool
}

// New wraps a backend. A nil logger discards diagnostics.
func New(backend Backend, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Synthesizer{backend: backend, log: logger}
}

// Init initializes the backend once and reports whether this call did it.
// A failed init is logged and retried on the next call.
func (s *Synthesizer) Init() bool {
	if s.initialized {
		return false
	}
	if err := s.backend.Init(); err != nil {
		s.log.Error("audio init failed", "err", err)
		return false
	}
	s.initialized = true
	s.log.Debug("audio initialized")
	return true
}

// Ready reports whether Init has succeeded.
func (s *Synthesizer) Ready() bool {
	return s.initialized
}

// Suspend pauses the backend; the next Play resumes it.
func (s *Synthesizer) Suspend() {
	if !s.initialized {
		return
	}
	if err := s.backend.Suspend(); err != nil {
		s.log.Warn("audio suspend failed", "err", err)
	}
}

// Play emits one note. Calls before Init are dropped.
func (s *Synthesizer) Play(freq float64, family soundbank.Family, dur time.Duration) {
	if !s.initialized {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("synthesis panic", "family", family.String(), "freq", freq, "panic", fmt.Sprint(r))
		}
	}()
	if freq <= 0 {
		s.log.Warn("ignoring non-positive frequency", "freq", freq)
		return
	}
	if s.backend.Suspended() {
		if err := s.backend.Resume(); err != nil {
			s.log.Error("audio resume failed", "err", err)
			return
		}
	}
	tone := ToneFor(freq, family, dur)
	if err := s.backend.Play(tone); err != nil {
		if errors.Is(err, ErrNotReady) {
			s.log.Debug("note dropped", "family", family.String(), "freq", freq, "err", err)
			return
		}
		s.log.Error("synthesis failed", "family", family.String(), "freq", freq, "err", err)
		return
	}
	s.log.Debug("note", "family", family.String(), "freq", freq, "dur", tone.Duration, "at", s.backend.Now())
}

// NullBackend accepts every call and produces no sound.
type NullBackend struct {
	start     time.Time
	suspended bool
}

// Init implements Backend.
func (n *NullBackend) Init() error {
	n.start = time.Now()
	return nil
}

// Suspended implements Backend.
func (n *NullBackend) Suspended() bool { return n.suspended }

// Suspend implements Backend.
func (n *NullBackend) Suspend() error {
	n.suspended = true
	return nil
}

// Resume implements Backend.
func (n *NullBackend) Resume() error {
	n.suspended = false
	return nil
}

// Play implements Backend.
func (n *NullBackend) Play(Tone) error { return nil }

// Now implements Backend.
func (n *NullBackend) Now() time.Duration {
	if n.start.IsZero() {
		return 0
	}
	return time.Since(n.start)
}
