// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/verte-zerg/symphony/internal/activity"
	"github.com/verte-zerg/symphony/internal/playback"
)

const (
	sparkChars          = " .:-=+*#%@"
	colorBold           = "\x1b[1m"
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
	sparkLabel          = "Density: "
)

// EventRate returns events per minute over durationMs.
func EventRate(events int, durationMs int64) float64 {
	if durationMs <= 0 {
		return 0
	}
	return float64(events) / (float64(durationMs) / 60000.0)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Density counts sounding entries per bucket of recorded time.
func Density(entries []activity.Entry, bucket time.Duration) []float64 {
	if bucket <= 0 || len(entries) == 0 {
		return nil
	}
	size := bucket.Milliseconds()
	if size <= 0 {
		size = 1
	}
	first := entries[0].MonotonicMs
	last := entries[len(entries)-1].MonotonicMs
	out := make([]float64, (last-first)/size+1)
	for _, e := range entries {
		if _, ok := playback.CueFor(e); !ok {
			continue
		}
		i := (e.MonotonicMs - first) / size
		if i >= 0 && i < int64(len(out)) {
			out[i]++
		}
	}
	return out
}

// Fit averages values down to at most width points.
func Fit(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// TerminalWidth returns the width of stdout, or a fallback.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// ShouldUseColor reports whether w is a colour-capable terminal.
func ShouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func heading(w io.Writer, text string, useColor bool) error {
	if useColor {
		text = colorBold + text + colorReset
	}
	_, err := fmt.Fprintln(w, text)
	return err
}
