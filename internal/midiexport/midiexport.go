// Package midiexport writes the activity log as a Standard MIDI File.
package midiexport

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/verte-zerg/symphony/internal/activity"
	"github.com/verte-zerg/symphony/internal/playback"
	"github.com/verte-zerg/symphony/internal/soundbank"
)

// ErrNothingToExport is returned when no entry makes a sound.
var ErrNothingToExport = errors.New("no sounding activity to export")

const (
	ticksPerQuarter = 960
	tempoBPM        = 120
	velocity        = 100
)

// ticks per millisecond at tempoBPM.
const ticksPerMs = float64(ticksPerQuarter) * tempoBPM / 60000

type voice struct {
	channel uint8
	program uint8
}

// General MIDI programs per family.
var voices = map[soundbank.Family]voice{
	soundbank.Piano:      {channel: 0, program: 0},
	soundbank.Guitar:     {channel: 1, program: 25},
	soundbank.Percussion: {channel: 2, program: 118},
	soundbank.Ambient:    {channel: 3, program: 88},
}

// Note is one exported note.
type Note struct {
	Start    time.Duration
	Duration time.Duration
	Key      uint8
	Family   soundbank.Family
}

// Key converts a frequency to the nearest MIDI key.
func Key(freq float64) uint8 {
	if freq <= 0 {
		return 0
	}
	k := math.Round(69 + 12*math.Log2(freq/440))
	switch {
	case k < 0:
		return 0
	case k > 127:
		return 127
	}
	return uint8(k)
}

// Notes lists the sounding entries at their recorded offsets, using the
// replay sound of each entry.
func Notes(entries []activity.Entry) []Note {
	var out []Note
	for _, e := range entries {
		cue, ok := playback.CueFor(e)
		if !ok {
			continue
		}
		out = append(out, Note{
			Start:    time.Duration(e.MonotonicMs) * time.Millisecond,
			Duration: cue.Duration,
			Key:      Key(cue.Frequency),
			Family:   cue.Family,
		})
	}
	return out
}

type event struct {
	tick uint32
	off  bool
	msg  midi.Message
}

// Write encodes entries as a single-track SMF to w. Time starts at the first
// sounding entry.
func Write(w io.Writer, entries []activity.Entry) error {
	notes := Notes(entries)
	if len(notes) == 0 {
		return ErrNothingToExport
	}
	origin := notes[0].Start
	for _, n := range notes {
		if n.Start < origin {
			origin = n.Start
		}
	}

	var events []event
	used := map[soundbank.Family]bool{}
	for _, n := range notes {
		v := voices[n.Family]
		used[n.Family] = true
		on := toTicks(n.Start - origin)
		off := toTicks(n.Start - origin + n.Duration)
		events = append(events,
			event{tick: on, msg: midi.NoteOn(v.channel, n.Key, velocity)},
			event{tick: off, off: true, msg: midi.NoteOff(v.channel, n.Key)},
		)
	}
	// Offs first so a repeated key is released before it sounds again.
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName("symphony"))
	tr.Add(0, smf.MetaMeter(4, 4))
	tr.Add(0, smf.MetaTempo(tempoBPM))
	for _, f := range []soundbank.Family{soundbank.Piano, soundbank.Guitar, soundbank.Percussion, soundbank.Ambient} {
		if used[f] {
			tr.Add(0, midi.ProgramChange(voices[f].channel, voices[f].program))
		}
	}
	var last uint32
	for _, ev := range events {
		tr.Add(ev.tick-last, ev.msg)
		last = ev.tick
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)
	if err := s.Add(tr); err != nil {
		return fmt.Errorf("failed to add track: %w", err)
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write midi: %w", err)
	}
	return nil
}

// FileName is the export name for a session exported at t.
func FileName(t time.Time) string {
	return "symphony-" + t.Format("20060102-150405") + ".mid"
}

// WriteFile exports entries into dir and returns the written path.
func WriteFile(dir string, t time.Time, entries []activity.Entry) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(t))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	if err := Write(f, entries); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close export file: %w", err)
	}
	return path, nil
}

func toTicks(d time.Duration) uint32 {
	if d < 0 {
		return 0
	}
	return uint32(math.Round(float64(d.Milliseconds()) * ticksPerMs))
}
