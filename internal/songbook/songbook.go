// Package songbook lists the melodies that can be played by name.
package songbook

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownSong is returned by Find when no song matches.
var ErrUnknownSong = errors.New("unknown song")

// Song is a named sequence of piano keys.
type Song struct {
	Name     string `yaml:"name"`
	Sequence string `yaml:"sequence"`
}

// Keys splits the sequence on whitespace.
func (s Song) Keys() []string {
	return strings.Fields(s.Sequence)
}

// Book is an ordered song list.
type Book struct {
	Songs []Song `yaml:"songs"`
}

var builtin = []Song{
	{Name: "Twinkle Twinkle", Sequence: "q q t t y y t r r e e w w q"},
	{Name: "Happy Birthday", Sequence: "q q w q r e q q w q t r"},
	{Name: "Mary Had a Little Lamb", Sequence: "e w q w e e e w w w e t t"},
	{Name: "Ode to Joy", Sequence: "e e r t t r e w q q w e e w w"},
	{Name: "Jingle Bells", Sequence: "e e e e e e e t q w e"},
	{Name: "Hot Cross Buns", Sequence: "e w q e w q q q q q w w w w e w q"},
	{Name: "Frere Jacques", Sequence: "q w e q q w e q e r t e r t"},
	{Name: "London Bridge", Sequence: "t y t r e r t w e r e r t"},
}

// Builtin returns the songs that ship with the program.
func Builtin() *Book {
	return &Book{Songs: append([]Song(nil), builtin...)}
}

// Parse decodes a YAML songbook. Songs without a name or any keys are rejected.
func Parse(data []byte) (*Book, error) {
	var b Book
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to decode songbook: %w", err)
	}
	seen := make(map[string]struct{}, len(b.Songs))
	for i, s := range b.Songs {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return nil, fmt.Errorf("song %d: missing name", i+1)
		}
		if len(s.Keys()) == 0 {
			return nil, fmt.Errorf("song %q: empty sequence", name)
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("song %q: duplicate name", name)
		}
		seen[key] = struct{}{}
		b.Songs[i].Name = name
	}
	return &b, nil
}

// LoadFile reads a YAML songbook from path.
func LoadFile(path string) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read songbook: %w", err)
	}
	return Parse(data)
}

// Load returns the built-in songs followed by the songs in path. A missing
// file is not an error when optional is set.
func Load(path string, optional bool) (*Book, error) {
	book := Builtin()
	if path == "" {
		return book, nil
	}
	extra, err := LoadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return book, nil
		}
		return nil, err
	}
	book.Merge(extra)
	return book, nil
}

// Merge appends other's songs. A song with the same name replaces the existing one in place.
func (b *Book) Merge(other *Book) {
	for _, s := range other.Songs {
		if i := b.index(s.Name); i >= 0 {
			b.Songs[i] = s
			continue
		}
		b.Songs = append(b.Songs, s)
	}
}

// Find returns the song named name (case-insensitive) or, if name is a
// 1-based number, the song at that position.
func (b *Book) Find(name string) (Song, error) {
	name = strings.TrimSpace(name)
	if i := b.index(name); i >= 0 {
		return b.Songs[i], nil
	}
	if n, err := strconv.Atoi(name); err == nil && n >= 1 && n <= len(b.Songs) {
		return b.Songs[n-1], nil
	}
	return Song{}, fmt.Errorf("%w: %q", ErrUnknownSong, name)
}

// At returns the i-th song (0-based).
func (b *Book) At(i int) (Song, bool) {
	if i < 0 || i >= len(b.Songs) {
		return Song{}, false
	}
	return b.Songs[i], true
}

// Len returns the number of songs.
func (b *Book) Len() int {
	return len(b.Songs)
}

func (b *Book) index(name string) int {
	for i, s := range b.Songs {
		if strings.EqualFold(s.Name, name) {
			return i
		}
	}
	return -1
}
