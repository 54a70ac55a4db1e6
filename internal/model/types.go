// Package model defines shared data structures.
package model

import "time"

// Config defines the resolved settings for a symphony session.
type Config struct {
	MouseFlow    bool
	Mute         bool
	ScrollStep   int
	Location     string
	SampleRate   int
	SongbookPath string
	ExportDir    string
	LogFile      string
}

// ReportConfig defines options for the end-of-session report.
type ReportConfig struct {
	Bucket time.Duration
	Smooth int
	Width  int
	Color  bool
}

// Default values used when neither a flag nor the config file sets one.
const (
	DefaultScrollStep   = 40
	DefaultLocation     = "terminal"
	DefaultReportBucket = 5 * time.Second
	DefaultReportSmooth = 3
)
