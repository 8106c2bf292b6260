// prism is a vertical-scrolling rhythm game for the terminal.
//
// Usage:
//
//	prism play <chart>       - Play a chart
//	prism menu [dir]         - Interactive chart picker
//	prism list [dir]         - List charts in a directory
//	prism scores <chart>     - Show high scores for a chart
//	prism replay <score-id> <chart> - Resimulate a stored replay
//	prism serve              - Start SSH server for remote play
//
// Global flags:
//
//	--db <path>        - Scores database path (default: ~/.prism/scores.db)
//	--settings <path>  - Settings file path (default: ~/.prism/settings.yaml)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Glubus/prism-vsrg/internal/config"
)

var (
	// Global flags
	flagDBPath   string
	flagSettings string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "prism",
	Short: "Prism - a vertical-scrolling rhythm game in your terminal",
	Long: `Prism is a terminal rhythm game: notes scroll down fixed lanes and you
hit them in time with the music using your keyboard.

Available commands:
  play     - Play a chart directly
  menu     - Interactive chart picker
  list     - List charts in a directory
  scores   - View high scores for a chart
  replay   - Resimulate a stored replay
  serve    - Start SSH server for remote play

Examples:
  prism play charts/example.yaml
  prism play charts/example.yaml --rate 1.2 --practice
  prism menu charts
  prism scores charts/example.yaml
  prism replay 42 charts/example.yaml --mode judge --window 7
  prism serve --ssh :2222`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.prism/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagSettings, "settings", "", "Path to settings file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadSettings loads and validates user settings, falling back to the
// embedded defaults on failure.
func loadSettings() config.Settings {
	settings, err := config.Load(flagSettings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		return config.DefaultSettings()
	}
	return settings
}

// newLogger builds the process logger. Gameplay logging goes to stderr
// so it never corrupts the alternate screen.
func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "prism",
	})
}
