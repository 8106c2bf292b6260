package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Glubus/prism-vsrg/internal/chart"
)

var listCmd = &cobra.Command{
	Use:   "list [dir]",
	Short: "List charts in a directory",
	Long: `Shows every chart in the directory (default: ./charts) along with its
key count and length. Charts that fail validation are reported.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runList,
}

func runList(_ *cobra.Command, args []string) {
	dir := "charts"
	if len(args) > 0 {
		dir = args[0]
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var found int
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		c, err := chart.Load(path)
		if err != nil {
			fmt.Printf("  %-30s  INVALID: %v\n", e.Name(), err)
			continue
		}
		found++
		fmt.Printf("  %-30s  %s - %s [%s]  %dK  %d notes  %.0fs\n",
			e.Name(), c.Artist, c.Title, c.Version, c.KeyCount,
			len(c.Notes), c.Duration()/1000)
	}

	if found == 0 {
		fmt.Println("No charts found.")
		return
	}
	fmt.Println()
	fmt.Println("Run 'prism play <path>' to play a chart.")
}
