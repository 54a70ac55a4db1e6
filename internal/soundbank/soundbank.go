// Package soundbank maps input keys to notes.
package soundbank

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// Family is the timbre category that decides envelope and filter shape.
type Family int

const (
	Piano Family = iota
	Guitar
	Percussion
	Ambient
)

func (f Family) String() string {
	switch f {
	case Piano:
		return "piano"
	case Guitar:
		return "guitar"
	case Percussion:
		return "percussion"
	case Ambient:
		return "ambient"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

// Bank identifies which table resolved a key.
type Bank int

const (
	BankPiano Bank = iota
	BankGuitar
	BankSpecial
	BankFallback
)

// Tag returns the instrument tag used for log entries from this bank.
func (b Bank) Tag() string {
	switch b {
	case BankPiano:
		return "piano"
	case BankGuitar:
		return "guitar"
	case BankSpecial:
		return "percussion"
	default:
		return "other"
	}
}

func (b Bank) String() string {
	return b.Tag()
}

// Entry is an immutable sound bank record.
type Entry struct {
	Symbol    string
	Label     string
	Frequency float64
	Family    Family
	Bank      Bank
}

type note struct {
	label string
	freq  float64
}

var pianoNotes = map[string]note{
	"q": {"C4", 261.63},
	"w": {"D4", 293.66},
	"e": {"E4", 329.63},
	"r": {"F4", 349.23},
	"t": {"G4", 392.00},
	"y": {"A4", 440.00},
	"u": {"B4", 493.88},
	"i": {"C5", 523.25},
	"o": {"D5", 587.33},
	"p": {"E5", 659.25},

	"a": {"F5", 698.46},
	"s": {"G5", 783.99},
	"d": {"A5", 880.00},
	"f": {"B5", 987.77},
	"g": {"C6", 1046.50},
	"h": {"D6", 1174.66},
	"j": {"E6", 1318.51},
	"k": {"F6", 1396.91},
	"l": {"G6", 1567.98},

	"z": {"C3", 130.81},
	"x": {"D3", 146.83},
	"c": {"E3", 164.81},
	"v": {"F3", 174.61},
	"b": {"G3", 196.00},
	"n": {"A3", 220.00},
	"m": {"B3", 246.94},
}

// Standard tuning, string 1 is the highest.
var guitarStrings = map[string]note{
	"1": {"High E", 329.63},
	"2": {"B", 246.94},
	"3": {"G", 196.00},
	"4": {"D", 146.83},
	"5": {"A", 110.00},
	"6": {"Low E", 82.41},
	"0": {"All Strings", 220.00},
}

var specialSounds = map[string]note{
	" ":         {"Kick Drum", 60.00},
	"Enter":     {"Snare", 200.00},
	"Backspace": {"Hi-Hat", 800.00},
	"Tab":       {"Cymbal", 1200.00},
	"Shift":     {"Bass", 80.00},
	"Control":   {"Tom", 150.00},
}

// LookupPiano resolves a letter key, ignoring case.
func LookupPiano(key string) (Entry, bool) {
	sym := Normalize(key)
	n, ok := pianoNotes[sym]
	if !ok {
		return Entry{}, false
	}
	return Entry{Symbol: sym, Label: n.label, Frequency: n.freq, Family: Piano, Bank: BankPiano}, true
}

// LookupGuitar resolves a digit key.
func LookupGuitar(key string) (Entry, bool) {
	sym := Normalize(key)
	n, ok := guitarStrings[sym]
	if !ok {
		return Entry{}, false
	}
	return Entry{Symbol: sym, Label: n.label, Frequency: n.freq, Family: Guitar, Bank: BankGuitar}, true
}

// LookupSpecial resolves a named key. Matching is exact.
func LookupSpecial(key string) (Entry, bool) {
	n, ok := specialSounds[key]
	if !ok {
		return Entry{}, false
	}
	return Entry{Symbol: key, Label: n.label, Frequency: n.freq, Family: Percussion, Bank: BankSpecial}, true
}

// Fallback derives a tone from the first character code of key.
func Fallback(key string) Entry {
	r, _ := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError {
		r = 0
	}
	// Runes outside the BMP are keyed by their leading UTF-16 surrogate.
	if hi, _ := utf16.EncodeRune(r); hi != utf8.RuneError {
		r = hi
	}
	freq := FallbackFrequency(r)
	return Entry{
		Symbol:    key,
		Label:     fmt.Sprintf("%.0fHz", freq),
		Frequency: freq,
		Family:    Percussion,
		Bank:      BankFallback,
	}
}

// FallbackFrequency is 300 + (code mod 26) * 20.
func FallbackFrequency(code rune) float64 {
	return 300 + float64(int(code)%26)*20
}

// Lookup resolves key against a single bank.
func Lookup(bank Bank, key string) (Entry, bool) {
	switch bank {
	case BankPiano:
		return LookupPiano(key)
	case BankGuitar:
		return LookupGuitar(key)
	case BankSpecial:
		return LookupSpecial(key)
	case BankFallback:
		if key == "" {
			return Entry{}, false
		}
		return Fallback(key), true
	default:
		return Entry{}, false
	}
}

// Resolve tries Piano, Guitar, Special and finally Fallback. It never fails.
func Resolve(key string) Entry {
	if e, ok := LookupPiano(key); ok {
		return e
	}
	if e, ok := LookupGuitar(key); ok {
		return e
	}
	if e, ok := LookupSpecial(key); ok {
		return e
	}
	return Fallback(key)
}

// Normalize lowercases single letter and digit keys. Named keys are kept as is.
func Normalize(key string) string {
	r, size := utf8.DecodeRuneInString(key)
	if size == len(key) && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
		return strings.ToLower(key)
	}
	return key
}

// DisplayKey renders a key the way it appears in log details.
func DisplayKey(key string) string {
	switch key {
	case " ":
		return "Space"
	case "":
		return "?"
	}
	r, size := utf8.DecodeRuneInString(key)
	if size == len(key) && unicode.IsLetter(r) {
		return strings.ToUpper(key)
	}
	return key
}

// Keys returns the symbols of a bank in no particular order.
func Keys(bank Bank) []string {
	var src map[string]note
	switch bank {
	case BankPiano:
		src = pianoNotes
	case BankGuitar:
		src = guitarStrings
	case BankSpecial:
		src = specialSounds
	default:
		return nil
	}
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	return keys
}
