// Package session holds the state shared by the recorder and playback.
package session

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/verte-zerg/symphony/internal/activity"
	"github.com/verte-zerg/symphony/internal/sched"
	"github.com/verte-zerg/symphony/internal/soundbank"
	"github.com/verte-zerg/symphony/internal/status"
)

// Log is the append-only activity log.
type Log interface {
	Append(ctx context.Context, e activity.Entry) error
	Entries(ctx context.Context) ([]activity.Entry, error)
	Len(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

// Synth plays one fire-and-forget note.
type Synth interface {
	Init() bool
	Play(freq float64, family soundbank.Family, dur time.Duration)
}

// Sink receives every entry as it is recorded, for display.
type Sink interface {
	Append(e activity.Entry)
	// Reset drops all displayed rows and shows banner instead.
	Reset(banner string)
}

// Session is the context object handed to the recorder and playback engines.
type Session struct {
	Log    Log
	Synth  Synth
	Sched  sched.Scheduler
	Status *status.Line
	Sink   Sink
	Logger *slog.Logger
	Now    func() time.Time

	epoch   time.Time
	cleared int
}

// Options configures New. Zero values pick sensible defaults.
type Options struct {
	Sink   Sink
	Logger *slog.Logger
	Now    func() time.Time
}

// New builds a session around a log, synthesizer and scheduler.
func New(log Log, synth Synth, s sched.Scheduler, opts Options) *Session {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	sink := opts.Sink
	if sink == nil {
		sink = discardSink{}
	}
	return &Session{
		Log:    log,
		Synth:  synth,
		Sched:  s,
		Status: status.New(s, ""),
		Sink:   sink,
		Logger: logger,
		Now:    now,
		epoch:  now(),
	}
}

// Record stamps and appends an entry, then forwards it to the sink.
// A failing log is reported but does not stop the entry from being shown.
func (s *Session) Record(kind activity.Kind, details, tag string, payload activity.Payload) activity.Entry {
	now := s.Now()
	e := activity.Entry{
		WallClock:   now,
		MonotonicMs: now.Sub(s.epoch).Milliseconds(),
		Kind:        kind,
		Details:     details,
		Tag:         tag,
		Payload:     payload,
	}
	if err := s.Log.Append(context.Background(), e); err != nil {
		s.Logger.Error("failed to record activity", "kind", string(kind), "err", err)
	}
	s.Sink.Append(e)
	return e
}

const (
	testNoteDelay = 100 * time.Millisecond
	testNoteFreq  = 440.0
	testNoteDur   = 300 * time.Millisecond
)

// InitAudio initializes the synthesizer. The first successful call also
// plays a short A4 and logs that audio is ready.
func (s *Session) InitAudio() {
	if !s.Synth.Init() {
		return
	}
	s.Sched.AfterFunc(testNoteDelay, func() {
		s.Synth.Play(testNoteFreq, soundbank.Piano, testNoteDur)
		s.Record(activity.KindAudio, "Audio system initialized!", activity.TagNone, nil)
	})
}

// Entries returns a snapshot of the log. Errors are logged and yield nil.
func (s *Session) Entries() []activity.Entry {
	entries, err := s.Log.Entries(context.Background())
	if err != nil {
		s.Logger.Error("failed to read activity log", "err", err)
		return nil
	}
	return entries
}

// Empty reports whether nothing has been recorded.
func (s *Session) Empty() bool {
	n, err := s.Log.Len(context.Background())
	if err != nil {
		s.Logger.Error("failed to read activity log", "err", err)
		return true
	}
	return n == 0
}

// Clear empties the log and shows banner on the sink.
func (s *Session) Clear(banner string) {
	if err := s.Log.Clear(context.Background()); err != nil {
		s.Logger.Error("failed to clear activity log", "err", err)
	}
	s.cleared++
	s.Sink.Reset(banner)
}

// Generation changes every time the log is cleared.
func (s *Session) Generation() int {
	return s.cleared
}

type discardSink struct{}

func (discardSink) Append(activity.Entry) {}
func (discardSink) Reset(string)          {}
