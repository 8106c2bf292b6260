package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Glubus/prism-vsrg/internal/engine"
)

const laneWidth = 6

var (
	receptorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	heldStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	noteStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	holdStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	hudStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	comboStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)

	judgementStyles = map[engine.Judgement]lipgloss.Style{
		engine.JudgeMarv:     lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
		engine.JudgePerfect:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		engine.JudgeGreat:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		engine.JudgeGood:     lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		engine.JudgeBad:      lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		engine.JudgeMiss:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		engine.JudgeGhostTap: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
)

// renderPlayfield draws the vertical-scrolling lanes from a snapshot.
// Notes scroll down toward the receptor row; vertical position
// interpolates between the snapshot time and each note's target time.
func renderPlayfield(s engine.Snapshot, scrollMS float64, width, height int) string {
	fieldH := height - 4 // reserve HUD lines
	if fieldH < 4 {
		fieldH = 4
	}

	cells := make([][]string, fieldH)
	for y := range cells {
		cells[y] = make([]string, s.KeyCount)
	}

	for _, n := range s.Notes {
		if n.State == engine.NoteResolved {
			continue
		}
		drawNote(cells, n, s.TimeMS, scrollMS, fieldH)
	}

	var sb strings.Builder
	header := fmt.Sprintf(" %s  %s",
		hudStyle.Render(fmt.Sprintf("Score %8d  Acc %6.2f%%  NPS %4.1f  HP %3.0f", s.Score, s.Accuracy, s.NPS, s.HP)),
		comboStyle.Render(fmt.Sprintf("%dx", s.Combo)))
	sb.WriteString(header)
	sb.WriteByte('\n')

	blank := strings.Repeat(" ", laneWidth-2)
	for y := 0; y < fieldH; y++ {
		sb.WriteByte(' ')
		for lane := 0; lane < s.KeyCount; lane++ {
			sb.WriteByte('|')
			if cell := cells[y][lane]; cell != "" {
				sb.WriteString(cell)
			} else {
				sb.WriteString(blank)
			}
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}

	// Receptor row: held lanes light up.
	sb.WriteByte(' ')
	for lane := 0; lane < s.KeyCount; lane++ {
		mark := receptorStyle.Render(strings.Repeat("=", laneWidth-2))
		if lane < len(s.KeysHeld) && s.KeysHeld[lane] {
			mark = heldStyle.Render(strings.Repeat("#", laneWidth-2))
		}
		sb.WriteByte('|')
		sb.WriteString(mark)
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')

	if s.HasJudgement {
		style := judgementStyles[s.LastJudgement]
		sb.WriteString(fmt.Sprintf(" %s %+.1fms",
			style.Render(s.LastJudgement.String()), s.LastDeltaMS))
	}
	return sb.String()
}

// drawNote fills the lane cells covered by a note. Row 0 is the top of
// the field; the receptor sits just below the last row.
func drawNote(cells [][]string, n engine.NoteView, nowMS, scrollMS float64, fieldH int) {
	row := func(timeMS float64) int {
		// Fraction of the scroll window remaining until the hit line.
		frac := (timeMS - nowMS) / scrollMS
		return fieldH - 1 - int(frac*float64(fieldH))
	}

	body := strings.Repeat("#", laneWidth-2)
	tail := strings.Repeat(":", laneWidth-2)

	headRow := row(n.TimeMS)
	if n.Hold {
		endRow := row(n.HoldEndMS)
		for y := endRow; y < headRow; y++ {
			if y >= 0 && y < fieldH {
				cells[y][n.Lane] = holdStyle.Render(tail)
			}
		}
	}
	if headRow >= 0 && headRow < fieldH {
		style := noteStyle
		if n.State == engine.NoteActiveHold {
			style = heldStyle
		}
		cells[headRow][n.Lane] = style.Render(body)
	}
}

// renderProgress draws the song position bar with checkpoint markers.
func renderProgress(s engine.Snapshot, width int) string {
	if s.DurationMS <= 0 || width < 10 {
		return ""
	}
	barW := width - 2
	filled := int(s.TimeMS / s.DurationMS * float64(barW))
	if filled < 0 {
		filled = 0
	}
	if filled > barW {
		filled = barW
	}

	bar := []rune(strings.Repeat("-", barW))
	for i := 0; i < filled; i++ {
		bar[i] = '='
	}
	for _, cp := range s.Checkpoints {
		pos := int(cp / s.DurationMS * float64(barW))
		if pos >= 0 && pos < barW {
			bar[pos] = '*'
		}
	}
	return "[" + string(bar) + "]"
}
