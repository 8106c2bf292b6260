package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Glubus/prism-vsrg/internal/chart"
	"github.com/Glubus/prism-vsrg/internal/engine"
	"github.com/Glubus/prism-vsrg/internal/replay"
	"github.com/Glubus/prism-vsrg/internal/storage"
)

var (
	flagRejudgeMode  string
	flagRejudgeValue float64
)

var replayCmd = &cobra.Command{
	Use:   "replay <score-id> <chart>",
	Short: "Resimulate a stored replay",
	Long: `Resimulate a stored replay against the chart and print the outcome.

Replays store raw inputs, not judgements, so a replay can be re-judged
under a different hit window than the one it was recorded with.

Examples:
  prism replay 42 charts/example.yaml
  prism replay 42 charts/example.yaml --mode judge --window 7
  prism replay 42 charts/example.yaml --mode od --window 9.5`,
	Args: cobra.ExactArgs(2),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&flagRejudgeMode, "mode", "", "Re-judge under this window mode: od or judge")
	replayCmd.Flags().Float64Var(&flagRejudgeValue, "window", 0, "Window value for --mode")
}

func runReplay(_ *cobra.Command, args []string) {
	scoreID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid score id %q\n", args[0])
		os.Exit(1)
	}

	c, err := chart.Load(args[1])
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

	data, err := store.LoadReplay(scoreID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading replay: %v\n", err)
		os.Exit(1)
	}

	var outcome *replay.Outcome
	if flagRejudgeMode != "" {
		mode, parseErr := engine.ParseWindowMode(flagRejudgeMode)
		if parseErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", parseErr)
			os.Exit(1)
		}
		outcome, err = replay.Rejudge(data, c, mode, flagRejudgeValue)
	} else {
		outcome, err = replay.Resimulate(data, c)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resimulating: %v\n", err)
		os.Exit(1)
	}

	modeName := data.WindowMode.String()
	value := data.WindowValue
	if flagRejudgeMode != "" {
		modeName = flagRejudgeMode
		value = flagRejudgeValue
	}

	fmt.Printf("Replay #%d - %s - %s [%s]\n", scoreID, c.Artist, c.Title, c.Version)
	fmt.Printf("Rate %.2fx, window %s %.1f\n", data.Rate, modeName, value)
	if data.Practice {
		fmt.Println("Recorded in practice mode.")
	}
	fmt.Println()
	fmt.Printf("Score     %d\n", outcome.Score)
	fmt.Printf("Accuracy  %.2f%%\n", outcome.Accuracy)
	fmt.Printf("Max combo %dx\n", outcome.MaxCombo)
	fmt.Println()
	s := outcome.Stats
	fmt.Printf("Marv %d / Perfect %d / Great %d / Good %d / Bad %d / Miss %d\n",
		s.Marv, s.Perfect, s.Great, s.Good, s.Bad, s.Miss)
	if s.GhostTap > 0 {
		fmt.Printf("Ghost taps: %d\n", s.GhostTap)
	}
}
