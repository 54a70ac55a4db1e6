package tui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	got := wrapText("Try Q-W-E-R-T-Y for piano notes", 12)
	if strings.Join(got, "|") != "Try|Q-W-E-R-T-Y|for piano|notes" {
		t.Fatalf("unexpected wrap %q", got)
	}
	for _, line := range got {
		if runewidth.StringWidth(line) > 12 {
			t.Fatalf("line %q exceeds width", line)
		}
	}
}

func TestWrapTextShortLineUnchanged(t *testing.T) {
	got := wrapText("C4 (Q)", 40)
	if len(got) != 1 || got[0] != "C4 (Q)" {
		t.Fatalf("unexpected wrap %q", got)
	}
}

func TestWrapTextHardBreaksLongWords(t *testing.T) {
	got := wrapText("abcdefghij", 4)
	if strings.Join(got, "|") != "abcd|efgh|ij" {
		t.Fatalf("unexpected wrap %q", got)
	}
}

func TestWrapTextWideRunes(t *testing.T) {
	got := wrapText("きらきら星", 4)
	if strings.Join(got, "|") != "きら|きら|星" {
		t.Fatalf("unexpected wrap %q", got)
	}
}

func TestFitLinesPadsAndCrops(t *testing.T) {
	out := fitLines("a\nb\nc", 3, 2)
	if out != "a  \nb  " {
		t.Fatalf("unexpected fit %q", out)
	}
	out = fitLines("a", 2, 3)
	if out != "a \n  \n  " {
		t.Fatalf("unexpected fit %q", out)
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("Mary Had a Little Lamb", 10); got != "Mary Ha..." {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncateLine("Ode", 10); got != "Ode" {
		t.Fatalf("unexpected truncation %q", got)
	}
}
