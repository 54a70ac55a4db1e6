package stats

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/symphony/internal/model"
	"github.com/verte-zerg/symphony/internal/recorder"
	"github.com/verte-zerg/symphony/internal/store"
)

// Report contains precomputed data for the end-of-session summary.
type Report struct {
	Duration    time.Duration
	Counters    recorder.Stats
	Instruments int
	Kinds       []store.KindCount
	Sounding    int
	Density     []float64
}

// BuildReport loads the activity log and prepares the summary.
func BuildReport(ctx context.Context, st *store.Store, counters recorder.Stats, instruments int, cfg model.ReportConfig) (Report, error) {
	entries, err := st.Entries(ctx)
	if err != nil {
		return Report{}, err
	}
	kinds, err := st.CountByKind(ctx)
	if err != nil {
		return Report{}, err
	}
	bucket := cfg.Bucket
	if bucket <= 0 {
		bucket = model.DefaultReportBucket
	}
	r := Report{
		Counters:    counters,
		Instruments: instruments,
		Kinds:       kinds,
		Density:     Density(entries, bucket),
	}
	if len(entries) > 0 {
		r.Duration = time.Duration(entries[len(entries)-1].MonotonicMs-entries[0].MonotonicMs) * time.Millisecond
	}
	for _, v := range r.Density {
		r.Sounding += int(v)
	}
	return r, nil
}

// Render prints the summary, the per-kind table and the density sparkline.
func Render(w io.Writer, r Report, cfg model.ReportConfig) error {
	useColor := ShouldUseColor(w, cfg.Color)
	if len(r.Kinds) == 0 {
		_, err := fmt.Fprintln(w, "No activity recorded.")
		return err
	}
	if err := heading(w, "Symphony Summary", useColor); err != nil {
		return err
	}
	c := r.Counters
	lines := []string{
		fmt.Sprintf("Duration: %s", r.Duration.Round(time.Second)),
		fmt.Sprintf("Keystrokes: %d", c.Keystrokes),
		fmt.Sprintf("Mouse clicks: %d", c.MouseClicks),
		fmt.Sprintf("Mouse movements: %d", c.MouseMovements),
		fmt.Sprintf("Tab switches: %d", c.TabSwitches),
		fmt.Sprintf("Tempo: %.1f BPM", c.Tempo),
		fmt.Sprintf("Instruments: %d", r.Instruments),
		fmt.Sprintf("Notes per minute: %.2f", EventRate(r.Sounding, r.Duration.Milliseconds())),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	if err := heading(w, "Activity", useColor); err != nil {
		return err
	}
	kinds := append([]store.KindCount(nil), r.Kinds...)
	sort.SliceStable(kinds, func(i, j int) bool {
		if kinds[i].Count == kinds[j].Count {
			return kinds[i].Kind < kinds[j].Kind
		}
		return kinds[i].Count > kinds[j].Count
	})
	total := 0
	for _, k := range kinds {
		total += k.Count
	}
	tbl := newTable("Kind", "Count", "Share")
	tbl.alignRight(1, 2)
	for _, k := range kinds {
		tbl.add(string(k.Kind), fmt.Sprintf("%d", k.Count), fmt.Sprintf("%.2f%%", float64(k.Count)/float64(total)*100))
	}
	if err := tbl.write(w); err != nil {
		return err
	}

	if len(r.Density) > 1 {
		width := cfg.Width
		if width <= 0 {
			width = TerminalWidth()
		}
		width -= len(sparkLabel)
		if width < 1 {
			width = 1
		}
		smooth := cfg.Smooth
		if smooth == 0 {
			smooth = model.DefaultReportSmooth
		}
		series := Fit(MovingAverage(r.Density, smooth), width)
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, sparkLabel+strings.TrimRight(Sparkline(series), " ")); err != nil {
			return err
		}
	}
	return nil
}
