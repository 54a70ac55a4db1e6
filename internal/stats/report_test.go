package stats

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/symphony/internal/activity"
	"github.com/verte-zerg/symphony/internal/model"
	"github.com/verte-zerg/symphony/internal/recorder"
	"github.com/verte-zerg/symphony/internal/soundbank"
	"github.com/verte-zerg/symphony/internal/store"
)

func TestBuildAndRenderReport(t *testing.T) {
	st, err := store.Open()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	add := func(ms int64, kind activity.Kind, payload activity.Payload) {
		e := activity.Entry{WallClock: base.Add(time.Duration(ms) * time.Millisecond), MonotonicMs: ms, Kind: kind, Payload: payload}
		if err := st.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	add(0, activity.KindSession, nil)
	for i := int64(0); i < 6; i++ {
		add(1000+i*500, activity.KindPiano, activity.Note{Bank: soundbank.BankPiano, Key: "q"})
	}
	add(12000, activity.KindClick, activity.Point{X: 1, Y: 1})
	add(60000, activity.KindSession, nil)

	counters := recorder.Stats{Keystrokes: 6, MouseClicks: 1, Tempo: 123}
	cfg := model.ReportConfig{Bucket: 5 * time.Second, Width: 40}
	r, err := BuildReport(ctx, st, counters, 2, cfg)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if r.Duration != time.Minute {
		t.Fatalf("expected 1m duration, got %v", r.Duration)
	}
	if r.Sounding != 7 {
		t.Fatalf("expected 7 sounding entries, got %d", r.Sounding)
	}
	if len(r.Density) != 13 {
		t.Fatalf("expected 13 buckets, got %d", len(r.Density))
	}

	var buf bytes.Buffer
	if err := Render(&buf, r, cfg); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Symphony Summary", "Keystrokes: 6", "Tempo: 123.0 BPM", "Notes per minute: 7.00", "Piano", "Density: "} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no colour for a buffer")
	}
}

func TestRenderEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, Report{}, model.ReportConfig{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No activity recorded." {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
