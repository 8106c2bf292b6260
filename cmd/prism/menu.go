package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Glubus/prism-vsrg/internal/chart"
	"github.com/Glubus/prism-vsrg/internal/platform/tui"
	"github.com/Glubus/prism-vsrg/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu [dir]",
	Short: "Interactive chart picker",
	Long: `Open the chart picker for the given directory (default: ./charts),
then play the selected chart. Returns to the picker after each play.

Examples:
  prism menu
  prism menu ~/charts`,
	Args: cobra.MaximumNArgs(1),
	Run:  runMenu,
}

func runMenu(_ *cobra.Command, args []string) {
	dir := "charts"
	if len(args) > 0 {
		dir = args[0]
	}

	settings := loadSettings()
	logger := newLogger()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	for {
		result, err := tui.RunMenu(dir, store)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if result.Quit {
			return
		}

		c, err := chart.Load(result.ChartPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading chart: %v\n", err)
			continue
		}
		cfg, err := sessionConfig(settings, result.Rate, result.Practice)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		if err := tui.Run(c, settings, cfg, store, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error running session: %v\n", err)
			os.Exit(1)
		}
	}
}
