package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Glubus/prism-vsrg/internal/chart"
	"github.com/Glubus/prism-vsrg/internal/config"
	"github.com/Glubus/prism-vsrg/internal/engine"
	"github.com/Glubus/prism-vsrg/internal/platform/tui"
	"github.com/Glubus/prism-vsrg/internal/session"
	"github.com/Glubus/prism-vsrg/internal/storage"
)

var (
	flagRate     float64
	flagPractice bool
	flagMode     string
	flagWindow   float64
	flagScroll   float64
)

var playCmd = &cobra.Command{
	Use:   "play <chart>",
	Short: "Play a chart",
	Long: `Start playing the specified chart file.

Controls:
  D F J K     - Hit notes (4K default, configurable)
  P/Esc       - Pause
  Tab         - Place checkpoint (practice mode)
  R           - Restore checkpoint (practice mode)
  Q/Ctrl+C    - Quit

Hit window modes:
  od     - osu! Overall Difficulty (0-10, higher is tighter)
  judge  - Etterna judge level (1-9, higher is tighter)

Examples:
  prism play charts/example.yaml
  prism play charts/example.yaml --rate 1.5
  prism play charts/example.yaml --practice
  prism play charts/example.yaml --mode judge --window 7`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().Float64Var(&flagRate, "rate", 0, "Playback rate multiplier (0.5-2.0, default from settings)")
	playCmd.Flags().BoolVar(&flagPractice, "practice", false, "Enable practice mode with checkpoints")
	playCmd.Flags().StringVar(&flagMode, "mode", "", "Hit window mode: od or judge (default from settings)")
	playCmd.Flags().Float64Var(&flagWindow, "window", 0, "Hit window value: OD 0-10 or judge 1-9")
	playCmd.Flags().Float64Var(&flagScroll, "scroll", 0, "Scroll window in milliseconds")
}

func runPlay(_ *cobra.Command, args []string) {
	settings := loadSettings()

	c, err := chart.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading chart: %v\n", err)
		os.Exit(1)
	}

	// Check the terminal fits the playfield before taking over the screen
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		if w < c.KeyCount*6+2 || h < 12 {
			fmt.Fprintf(os.Stderr, "Error: terminal %dx%d is too small for %dK play\n", w, h, c.KeyCount)
			os.Exit(1)
		}
	}

	cfg, err := sessionConfig(settings, flagRate, flagPractice)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}

	runErr := tui.Run(c, settings, cfg, store, newLogger())

	if store != nil {
		store.Close()
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running session: %v\n", runErr)
		os.Exit(1)
	}
}

// sessionConfig resolves per-session gameplay config from settings and
// command line overrides.
func sessionConfig(settings config.Settings, rate float64, practice bool) (session.Config, error) {
	mode := settings.WindowMode()
	value := settings.HitWindow.Value
	if flagMode != "" {
		m, err := engine.ParseWindowMode(flagMode)
		if err != nil {
			return session.Config{}, err
		}
		mode = m
		value = flagWindow
	}

	if rate == 0 {
		rate = settings.Rate
	}
	scroll := settings.ScrollSpeedMS
	if flagScroll > 0 {
		scroll = flagScroll
	}

	return session.Config{
		Rate:        rate,
		WindowMode:  mode,
		WindowValue: value,
		GhostTaps:   settings.GhostTaps(),
		Practice:    practice,
		TPS:         settings.TPS,
		ScrollMS:    scroll,
	}, nil
}
