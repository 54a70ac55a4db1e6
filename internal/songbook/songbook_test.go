package songbook

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/symphony/internal/soundbank"
)

func TestBuiltinSongsUsePianoKeys(t *testing.T) {
	book := Builtin()
	if book.Len() == 0 {
		t.Fatalf("expected built-in songs")
	}
	for _, s := range book.Songs {
		for _, k := range s.Keys() {
			if _, ok := soundbank.LookupPiano(k); !ok {
				t.Fatalf("song %q: key %q is not a piano key", s.Name, k)
			}
		}
	}
}

func TestFindByNameAndIndex(t *testing.T) {
	book := Builtin()
	s, err := book.Find("ode to joy")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if s.Name != "Ode to Joy" {
		t.Fatalf("unexpected song %q", s.Name)
	}
	s, err = book.Find("1")
	if err != nil {
		t.Fatalf("find by index: %v", err)
	}
	if s.Name != book.Songs[0].Name {
		t.Fatalf("expected first song, got %q", s.Name)
	}
	if _, err := book.Find("Bohemian Rhapsody"); !errors.Is(err, ErrUnknownSong) {
		t.Fatalf("expected ErrUnknownSong, got %v", err)
	}
	if _, err := book.Find("99"); !errors.Is(err, ErrUnknownSong) {
		t.Fatalf("expected ErrUnknownSong for out-of-range index, got %v", err)
	}
}

func TestLoadMergesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "songs.yaml")
	data := `songs:
  - name: Scale
    sequence: "q w e r t y u i"
  - name: ode to joy
    sequence: "e e r t"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	book, err := Load(path, false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if book.Len() != len(builtin)+1 {
		t.Fatalf("expected %d songs, got %d", len(builtin)+1, book.Len())
	}
	s, err := book.Find("Ode to Joy")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(s.Keys()) != 4 {
		t.Fatalf("expected the file to override the built-in song, got %v", s.Keys())
	}
	last, _ := book.At(book.Len() - 1)
	if last.Name != "Scale" {
		t.Fatalf("expected Scale appended, got %q", last.Name)
	}
}

func TestLoadMissingOptionalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	book, err := Load(path, true)
	if err != nil {
		t.Fatalf("expected missing optional file to be ignored: %v", err)
	}
	if book.Len() != len(builtin) {
		t.Fatalf("expected built-in songs only")
	}
	if _, err := Load(path, false); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestParseRejectsBadSongs(t *testing.T) {
	cases := []string{
		"songs:\n  - sequence: \"q w\"\n",
		"songs:\n  - name: Empty\n    sequence: \"  \"\n",
		"songs:\n  - name: A\n    sequence: q\n  - name: a\n    sequence: w\n",
		"songs: [",
	}
	for i, c := range cases {
		if _, err := Parse([]byte(c)); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}
