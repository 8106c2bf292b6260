// Package app holds the top-level application state machine. Exactly
// one state is live at a time; transitioning destroys the previous
// state's resources. Nothing is shared across transitions except the
// finalized result data handed from Game to Result.
package app

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/Glubus/prism-vsrg/internal/audio"
	"github.com/Glubus/prism-vsrg/internal/bus"
	"github.com/Glubus/prism-vsrg/internal/chart"
	"github.com/Glubus/prism-vsrg/internal/input"
	"github.com/Glubus/prism-vsrg/internal/session"
)

// State is the application mode.
type State int

const (
	StateMenu State = iota
	StateGame
	StateEditor
	StateResult
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StateGame:
		return "game"
	case StateEditor:
		return "editor"
	case StateResult:
		return "result"
	default:
		return "unknown"
	}
}

// Machine gates which subsystems are active. Transitions come from UI
// events external to the core.
type Machine struct {
	state   State
	session *session.Session
	result  *session.FinalData
	logger  *log.Logger
}

// NewMachine starts in the menu.
func NewMachine(logger *log.Logger) *Machine {
	return &Machine{state: StateMenu, logger: logger}
}

// State returns the live state.
func (m *Machine) State() State { return m.state }

// Session returns the live play session, nil outside Game.
func (m *Machine) Session() *session.Session { return m.session }

// Result returns the finalized result data, nil outside Result.
func (m *Machine) Result() *session.FinalData { return m.result }

// EnterGame constructs a fresh engine and clock from the selected chart
// and configuration and transitions to Game. On construction failure
// (empty or unsorted chart, bad keymap) the machine stays in its prior
// state and the error surfaces to the caller.
func (m *Machine) EnterGame(c *chart.Chart, km *input.Keymap, aclock audio.Clock, sink audio.Sink, b *bus.Bus, cfg session.Config) error {
	if m.state != StateMenu && m.state != StateResult {
		return fmt.Errorf("app: cannot enter game from %s", m.state)
	}

	s, err := session.New(c, km, aclock, sink, b, cfg, m.logger)
	if err != nil {
		return fmt.Errorf("app: session construction: %w", err)
	}

	m.discard()
	m.state = StateGame
	m.session = s
	s.Start()
	m.logger.Info("entering game", "chart", c.Title, "rate", cfg.Rate)
	return nil
}

// FinishGame transitions Game to Result, finalizing the session into a
// persisted score/replay record. The session must already be done.
func (m *Machine) FinishGame() (*session.FinalData, error) {
	if m.state != StateGame || m.session == nil {
		return nil, fmt.Errorf("app: cannot finish game from %s", m.state)
	}
	m.session.Stop()
	<-m.session.Done()

	final := m.session.Finalize()
	m.session = nil
	m.state = StateResult
	m.result = &final
	return &final, nil
}

// EnterEditor transitions Menu to Editor.
func (m *Machine) EnterEditor() error {
	if m.state != StateMenu {
		return fmt.Errorf("app: cannot enter editor from %s", m.state)
	}
	m.state = StateEditor
	return nil
}

// ToMenu abandons the current state and returns to the menu. A live
// game session's state is discarded, not finalized.
func (m *Machine) ToMenu() {
	m.discard()
	m.state = StateMenu
}

// discard destroys the resources of the current state variant.
func (m *Machine) discard() {
	if m.session != nil {
		m.session.Stop()
		<-m.session.Done()
		m.session = nil
	}
	m.result = nil
}
