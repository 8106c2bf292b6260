package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Glubus/prism-vsrg/internal/chart"
	"github.com/Glubus/prism-vsrg/internal/engine"
	"github.com/Glubus/prism-vsrg/internal/storage"
)

// MenuItem is one playable chart discovered in the chart directory.
type MenuItem struct {
	Path    string
	Title   string
	Artist  string
	Version string
	Keys    int
	Best    int
}

// MenuModel is the Bubble Tea model for the chart picker.
type MenuModel struct {
	items    []MenuItem
	cursor   int
	rate     float64
	practice bool
	width    int
	height   int
	quitting bool
	selected *MenuItem
}

// NewMenuModel scans dir for chart files and loads the stored high
// score for each.
func NewMenuModel(dir string, store *storage.Store) (MenuModel, error) {
	items, err := scanCharts(dir, store)
	if err != nil {
		return MenuModel{}, err
	}
	return MenuModel{items: items, rate: 1.0}, nil
}

func scanCharts(dir string, store *storage.Store) ([]MenuItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("tui: read chart dir: %w", err)
	}

	var items []MenuItem
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
			// Broken charts are skipped, not fatal.
			continue
		}
		item := MenuItem{
			Path:    path,
			Title:   c.Title,
			Artist:  c.Artist,
			Version: c.Version,
			Keys:    c.KeyCount,
		}
		if store != nil {
			if best, err := store.HighScore(c.Hash()); err == nil {
				item.Best = best
			}
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Title < items[j].Title })
	return items, nil
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case "+", "=":
		m.rate = engine.ClampRate(m.rate + 0.05)

	case "-", "_":
		m.rate = engine.ClampRate(m.rate - 0.05)

	case "p":
		m.practice = !m.practice

	case "enter", " ":
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText("  P R I S M  ", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a chart", m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText("no charts found", m.width))
		b.WriteString("\n")
	}

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%s - %s [%s] %dK", cursor, item.Artist, item.Title, item.Version, item.Keys)
		if item.Best > 0 {
			line += fmt.Sprintf("  (best %d)", item.Best)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	mode := "normal"
	if m.practice {
		mode = "practice"
	}
	b.WriteString(centerText(fmt.Sprintf("rate %.2fx  |  mode: %s", m.rate, mode), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Up/Down: Navigate  |  +/-: Rate  |  P: Practice  |  Enter: Play  |  Q: Quit", m.width))
	b.WriteString("\n")
	return b.String()
}

// MenuResult is what the picker hands back to the caller.
type MenuResult struct {
	ChartPath string
	Rate      float64
	Practice  bool
	Quit      bool
}

// RunMenu shows the chart picker and returns the selection.
func RunMenu(dir string, store *storage.Store) (MenuResult, error) {
	model, err := NewMenuModel(dir, store)
	if err != nil {
		return MenuResult{Quit: true}, err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Quit: true}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok || m.selected == nil {
		return MenuResult{Quit: true}, nil
	}
	return MenuResult{
		ChartPath: m.selected.Path,
		Rate:      m.rate,
		Practice:  m.practice,
	}, nil
}
