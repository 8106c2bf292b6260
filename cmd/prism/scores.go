package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Glubus/prism-vsrg/internal/chart"
	"github.com/Glubus/prism-vsrg/internal/platform/tui"
	"github.com/Glubus/prism-vsrg/internal/storage"
)

var flagScoresUI bool

var scoresCmd = &cobra.Command{
	Use:   "scores <chart>",
	Short: "Show high scores for a chart",
	Long: `Display the top 10 scores for the specified chart. Scores are keyed by
chart content, so renaming or moving the file keeps its history.

Examples:
  prism scores charts/example.yaml
  prism scores charts/example.yaml -i    # Browse in a scrollable table`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVarP(&flagScoresUI, "interactive", "i", false, "Browse scores in a scrollable table")
}

func runScores(_ *cobra.Command, args []string) {
	c, err := chart.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading chart: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresUI {
		title := fmt.Sprintf("%s - %s [%s]", c.Artist, c.Title, c.Version)
		if _, err := tui.RunScoreboard(store, c.Hash(), title, 0, 0); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	scores, err := store.TopScores(c.Hash(), 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("High Scores - %s - %s [%s]\n", c.Artist, c.Title, c.Version)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		return
	}

	fmt.Printf("  %-4s  %-6s  %-10s  %-8s  %-7s  %-5s  %s\n",
		"Rank", "ID", "Score", "Acc", "Combo", "Rate", "Date")
	for i, entry := range scores {
		practice := ""
		if entry.Practice {
			practice = "  (practice)"
		}
		fmt.Printf("  %-4d  %-6d  %-10d  %-7.2f%%  %-7d  %-5.2f  %s%s\n",
			i+1, entry.ID, entry.Score, entry.Accuracy, entry.MaxCombo,
			entry.Rate, entry.CreatedAt.Format("2006-01-02 15:04"), practice)
	}

	fmt.Println()
	fmt.Println("Run 'prism replay <id> <chart>' to resimulate a score.")
}
