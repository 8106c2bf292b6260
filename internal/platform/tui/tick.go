// Package tui provides the Bubble Tea front-end: the render thread of
// the core. It feeds raw key transitions into the session bus and
// pulls the latest gameplay snapshot each frame; the logic loop runs at
// its own fixed rate underneath.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg drives the render loop. Frames are independent of logic
// ticks: the renderer consumes the latest snapshot and may skip
// intermediate ones under load.
type FrameMsg time.Time

// frameCmd returns a Bubble Tea command emitting frame messages at the
// given rate.
func frameCmd(fps int) tea.Cmd {
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}
