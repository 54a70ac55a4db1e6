// Package main provides the CLI entrypoint for symphony.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/symphony/internal/activity"
	"github.com/verte-zerg/symphony/internal/config"
	"github.com/verte-zerg/symphony/internal/model"
	"github.com/verte-zerg/symphony/internal/playback"
	"github.com/verte-zerg/symphony/internal/sched"
	"github.com/verte-zerg/symphony/internal/session"
	"github.com/verte-zerg/symphony/internal/songbook"
	"github.com/verte-zerg/symphony/internal/stats"
	"github.com/verte-zerg/symphony/internal/store"
	"github.com/verte-zerg/symphony/internal/synth"
	"github.com/verte-zerg/symphony/internal/tui"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	maxScrollStep = 1000
	maxSampleRate = 192000
	minSampleRate = 8000

	// songTail lets the last note ring out before the headless player exits.
	songTail = 800 * time.Millisecond
)

var (
	sessionMouseFlow  bool
	sessionScrollStep int
	sessionLocation   string
	sessionExportDir  string
	sessionNoReport   bool

	audioMute       bool
	audioSampleRate int
	songbookPath    string
	logFile         string
	logDebug        bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "symphony",
		Short:         "Turn keyboard and mouse activity into music",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runSessionCmd,
	}

	rootCmd.Flags().BoolVar(&sessionMouseFlow, "mouse-flow", false, "play a melody while the mouse moves")
	rootCmd.Flags().IntVar(&sessionScrollStep, "scroll-step", model.DefaultScrollStep, "scroll position change per wheel tick")
	rootCmd.Flags().StringVar(&sessionLocation, "location", model.DefaultLocation, "name shown in focus entries")
	rootCmd.Flags().StringVar(&sessionExportDir, "export-dir", "", "directory for MIDI exports (default: XDG data dir)")
	rootCmd.Flags().BoolVar(&sessionNoReport, "no-report", false, "skip the summary printed on exit")

	rootCmd.PersistentFlags().BoolVar(&audioMute, "mute", false, "disable audio output")
	rootCmd.PersistentFlags().IntVar(&audioSampleRate, "sample-rate", synth.DefaultSampleRate, "audio sample rate in Hz")
	rootCmd.PersistentFlags().StringVar(&songbookPath, "songbook", "", "YAML songbook merged over the built-in songs")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write diagnostics to this file")
	rootCmd.PersistentFlags().BoolVar(&logDebug, "debug", false, "log every note at debug level")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSongsCmd())
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// resolveConfig merges the config file under the command-line flags.
func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyBoolConfig(cmd, "mouse-flow", &sessionMouseFlow, fileCfg.Session.MouseFlow)
	applyIntConfig(cmd, "scroll-step", &sessionScrollStep, fileCfg.Session.ScrollStep)
	applyStringConfig(cmd, "location", &sessionLocation, fileCfg.Session.Location)
	applyBoolConfig(cmd, "mute", &audioMute, fileCfg.Audio.Mute)
	applyIntConfig(cmd, "sample-rate", &audioSampleRate, fileCfg.Audio.SampleRate)
	applyStringConfig(cmd, "songbook", &songbookPath, fileCfg.Songs.Path)
	applyStringConfig(cmd, "export-dir", &sessionExportDir, fileCfg.Export.Dir)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)

	cfg := model.Config{
		MouseFlow:    sessionMouseFlow,
		Mute:         audioMute,
		ScrollStep:   sessionScrollStep,
		Location:     strings.TrimSpace(sessionLocation),
		SampleRate:   audioSampleRate,
		SongbookPath: config.ExpandHome(songbookPath),
		ExportDir:    config.ExpandHome(sessionExportDir),
		LogFile:      config.ExpandHome(logFile),
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = config.DefaultExportDir()
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if cfg.ScrollStep <= 0 || cfg.ScrollStep > maxScrollStep {
		return fmt.Errorf("scroll-step must be between 1 and %d", maxScrollStep)
	}
	if cfg.Location == "" {
		return fmt.Errorf("location must not be empty")
	}
	if cfg.SampleRate < minSampleRate || cfg.SampleRate > maxSampleRate {
		return fmt.Errorf("sample-rate must be between %d and %d", minSampleRate, maxSampleRate)
	}
	return nil
}

// loadBook reads the songbook. The default path may be missing; an explicit one may not.
func loadBook(cfg model.Config) (*songbook.Book, error) {
	path := cfg.SongbookPath
	optional := false
	if path == "" {
		path = config.DefaultSongbookPath()
		optional = true
	}
	book, err := songbook.Load(path, optional)
	if err != nil {
		return nil, fmt.Errorf("failed to load songbook: %w", err)
	}
	return book, nil
}

// initLogger returns a text logger writing to path, or a discarding one when
// path is empty. The terminal belongs to the UI, so nothing goes to stderr.
func initLogger(path string, debug bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level, AddSource: debug}
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, opts)), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, opts))
	slog.SetDefault(logger)
	closeFn := func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}
	return logger, closeFn, nil
}

// openSynth picks the oto backend, or a silent one when muted.
func openSynth(cfg model.Config, logger *slog.Logger) (*synth.Synthesizer, func()) {
	if cfg.Mute {
		return synth.New(&synth.NullBackend{}, logger), func() {}
	}
	backend := synth.NewOtoBackend(cfg.SampleRate)
	closeFn := func() {
		if err := backend.Close(); err != nil {
			logger.Warn("failed to close audio backend", "err", err)
		}
	}
	return synth.New(backend, logger), closeFn
}

func openStore() (*store.Store, func(), error) {
	st, err := store.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open activity log: %w", err)
	}
	closeFn := func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close activity log: %v\n", cerr)
		}
	}
	return st, closeFn, nil
}

func runSessionCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := initLogger(cfg.LogFile, logDebug)
	if err != nil {
		return err
	}
	defer closeLog()

	book, err := loadBook(cfg)
	if err != nil {
		return err
	}
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	syn, closeSynth := openSynth(cfg, logger)
	defer closeSynth()

	logger.Info("symphony starting", "version", version, "mute", cfg.Mute, "mouse_flow", cfg.MouseFlow, "songs", book.Len())
	m := tui.NewModel(st, syn, tui.Options{
		Config:  cfg,
		Book:    book,
		Logger:  logger,
		Suspend: syn.Suspend,
	})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithReportFocus())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	if sessionNoReport {
		return nil
	}
	rec := m.Recorder()
	reportCfg := model.ReportConfig{
		Bucket: model.DefaultReportBucket,
		Smooth: model.DefaultReportSmooth,
		Width:  stats.TerminalWidth(),
	}
	report, err := stats.BuildReport(cmd.Context(), st, rec.Stats(), rec.Instruments(), reportCfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err := stats.Render(cmd.OutOrStdout(), report, reportCfg); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func newSongsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "songs",
		Short: "List available songs",
		Args:  cobra.NoArgs,
		RunE:  runSongsCmd,
	}
}

func runSongsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	book, err := loadBook(cfg)
	if err != nil {
		return err
	}
	return writeSongs(cmd.OutOrStdout(), book)
}

func writeSongs(w io.Writer, book *songbook.Book) error {
	for i := 0; i < book.Len(); i++ {
		s, _ := book.At(i)
		key := ""
		if i < 12 {
			key = fmt.Sprintf("F%d", i+1)
		}
		if _, err := fmt.Fprintf(w, "%2d  %-3s  %-24s %s\n", i+1, key, s.Name, s.Sequence); err != nil {
			return err
		}
	}
	return nil
}

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <song>",
		Short: "Play a song by name or number without the UI",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlayCmd,
	}
}

func runPlayCmd(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := initLogger(cfg.LogFile, logDebug)
	if err != nil {
		return err
	}
	defer closeLog()

	book, err := loadBook(cfg)
	if err != nil {
		return err
	}
	song, err := book.Find(args[0])
	if err != nil {
		if errors.Is(err, songbook.ErrUnknownSong) {
			return fmt.Errorf("unknown song %q; run `symphony songs` to list them", args[0])
		}
		return err
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()
	syn, closeSynth := openSynth(cfg, logger)
	defer closeSynth()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := sched.NewLoop()
	sess := session.New(st, syn, loop, session.Options{Sink: newPrintSink(cmd.OutOrStdout()), Logger: logger})
	player := playback.NewSong(sess)
	player.OnDone = func() {
		loop.AfterFunc(songTail, cancel)
	}
	loop.Do(func() {
		player.Play(song.Keys(), song.Name)
	})
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	// Interrupted before the last note: the loop has stopped, so this runs alone.
	player.Cancel()
	return nil
}

// printSink writes session entries as plain lines for the headless player.
type printSink struct {
	w io.Writer
}

func newPrintSink(w io.Writer) *printSink {
	return &printSink{w: w}
}

func (p *printSink) Append(e activity.Entry) {
	if _, err := fmt.Fprintf(p.w, "%s  %-12s %s\n", e.WallClock.Format("15:04:05"), e.Kind, e.Details); err != nil {
		logErrf("failed to write entry: %v\n", err)
	}
}

func (p *printSink) Reset(banner string) {
	if _, err := fmt.Fprintln(p.w, banner); err != nil {
		logErrf("failed to write banner: %v\n", err)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "symphony %s\n", version); err != nil {
				logErrf("failed to print version: %v\n", err)
			}
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# symphony configuration
# Uncomment a value to enable it. CLI flags override config values.

[session]
# mouse-flow = false        # Melody while the mouse moves
# scroll-step = %d          # Scroll position change per wheel tick
# location = %q     # Name shown in focus entries

[audio]
# mute = false              # Disable audio output
# sample-rate = %d       # Output sample rate in Hz

[songs]
# path = %q

[export]
# dir = %q

[log]
# file = ""                 # Diagnostics file; empty disables logging
`, model.DefaultScrollStep, model.DefaultLocation, synth.DefaultSampleRate,
		config.DefaultSongbookPath(), config.DefaultExportDir())
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
