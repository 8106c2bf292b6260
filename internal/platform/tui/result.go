package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Glubus/prism-vsrg/internal/engine"
	"github.com/Glubus/prism-vsrg/internal/session"
)

var (
	resultTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).MarginBottom(1)
	resultBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(1, 3)
	resultDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// renderResult draws the post-session result screen.
func renderResult(final session.FinalData, scoreID int64, saveErr error, width int) string {
	var b strings.Builder

	title := fmt.Sprintf("RESULTS - %s (%.2fx)", final.ChartTitle, final.Rate)
	b.WriteString(resultTitleStyle.Render(centerText(title, width)))
	b.WriteString("\n")

	var box strings.Builder
	box.WriteString(fmt.Sprintf("Score     %d\n", final.Score))
	box.WriteString(fmt.Sprintf("Accuracy  %.2f%%\n", final.Accuracy))
	box.WriteString(fmt.Sprintf("Max combo %dx\n", final.MaxCombo))
	box.WriteString("\n")

	tiers := []struct {
		j engine.Judgement
		n int
	}{
		{engine.JudgeMarv, final.Stats.Marv},
		{engine.JudgePerfect, final.Stats.Perfect},
		{engine.JudgeGreat, final.Stats.Great},
		{engine.JudgeGood, final.Stats.Good},
		{engine.JudgeBad, final.Stats.Bad},
		{engine.JudgeMiss, final.Stats.Miss},
	}
	for _, t := range tiers {
		style := judgementStyles[t.j]
		box.WriteString(fmt.Sprintf("%-9s %d\n", style.Render(t.j.String()), t.n))
	}
	if final.Stats.GhostTap > 0 {
		box.WriteString(fmt.Sprintf("%-9s %d\n",
			judgementStyles[engine.JudgeGhostTap].Render("Ghost"), final.Stats.GhostTap))
	}

	b.WriteString(centerText(resultBoxStyle.Render(box.String()), width))
	b.WriteString("\n")

	switch {
	case saveErr != nil:
		b.WriteString(resultDimStyle.Render(centerText("score not saved: "+saveErr.Error(), width)))
	case scoreID > 0:
		b.WriteString(resultDimStyle.Render(centerText(fmt.Sprintf("saved as score #%d", scoreID), width)))
	}
	b.WriteString("\n")
	b.WriteString(resultDimStyle.Render(centerText("press enter or q to exit", width)))

	return b.String()
}

// centerText centers a possibly multi-line block within the width.
func centerText(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}
