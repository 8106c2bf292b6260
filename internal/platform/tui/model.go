package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Glubus/prism-vsrg/internal/app"
	"github.com/Glubus/prism-vsrg/internal/audio"
	"github.com/Glubus/prism-vsrg/internal/bus"
	"github.com/Glubus/prism-vsrg/internal/chart"
	"github.com/Glubus/prism-vsrg/internal/config"
	"github.com/Glubus/prism-vsrg/internal/engine"
	"github.com/Glubus/prism-vsrg/internal/input"
	"github.com/Glubus/prism-vsrg/internal/session"
	"github.com/Glubus/prism-vsrg/internal/storage"
)

// Terminals report key presses but never key releases, so held keys are
// inferred: a bound key is considered held while auto-repeat events keep
// arriving, and a synthetic release is emitted once they stop.
const keyReleaseTimeout = 150 * time.Millisecond

const renderFPS = 60

// Model is the Bubble Tea model for a play session. It is the render
// side of the bus: key events go in as raw input, snapshots come out
// once per frame. It never touches the engine directly.
type Model struct {
	machine  *app.Machine
	bus      *bus.Bus
	store    *storage.Store
	keymap   *input.Keymap
	chart    *chart.Chart
	settings config.Settings
	cfg      session.Config
	logger   *log.Logger

	snap    engine.Snapshot
	hasSnap bool
	held    map[string]time.Time
	paused  bool
	width   int
	height  int
	saved   bool
	saveErr error
	scoreID int64

	quitting bool
}

// NewModel builds the gameplay model. The session must already be
// running inside the machine.
func NewModel(machine *app.Machine, b *bus.Bus, store *storage.Store, km *input.Keymap, c *chart.Chart, settings config.Settings, cfg session.Config, logger *log.Logger) Model {
	return Model{
		machine:  machine,
		bus:      b,
		store:    store,
		keymap:   km,
		chart:    c,
		settings: settings,
		cfg:      cfg,
		logger:   logger,
		held:     make(map[string]time.Time),
	}
}

func (m Model) Init() tea.Cmd {
	return frameCmd(renderFPS)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case FrameMsg:
		return m.handleFrame(time.Time(msg))
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := input.NormalizeKey(msg.String())

	if m.machine.State() == app.StateResult {
		switch k {
		case "q", "ctrl+c", "enter", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch k {
	case "ctrl+c", "q":
		m.quitting = true
		m.machine.ToMenu()
		return m, tea.Quit

	case "esc", "p":
		if sess := m.machine.Session(); sess != nil {
			if m.paused {
				sess.Control(session.CtrlResume)
			} else {
				sess.Control(session.CtrlPause)
			}
			m.paused = !m.paused
		}
		return m, nil

	case "tab":
		if m.cfg.Practice {
			if sess := m.machine.Session(); sess != nil {
				sess.Control(session.CtrlPlaceCheckpoint)
			}
		}
		return m, nil

	case "r":
		if m.cfg.Practice {
			if sess := m.machine.Session(); sess != nil {
				sess.Control(session.CtrlRestoreCheckpoint)
				m.held = make(map[string]time.Time)
			}
		}
		return m, nil
	}

	if _, ok := m.keymap.Lane(k); ok {
		// Only the first event of a held key is a press; auto-repeat
		// just refreshes the hold deadline.
		if _, holding := m.held[k]; !holding {
			m.bus.SendRawInput(input.RawEvent{Key: k, Down: true})
		}
		m.held[k] = time.Now()
	}
	return m, nil
}

func (m Model) handleFrame(now time.Time) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, tea.Quit
	}

	// Expire held keys that stopped repeating.
	for k, last := range m.held {
		if now.Sub(last) > keyReleaseTimeout {
			m.bus.SendRawInput(input.RawEvent{Key: k, Down: false})
			delete(m.held, k)
		}
	}

	if s, ok := m.bus.LatestSnapshot(); ok {
		m.snap = s
		m.hasSnap = true
	}

	if m.machine.State() == app.StateGame && m.hasSnap && m.snap.Finished {
		final, err := m.machine.FinishGame()
		if err == nil && final != nil && m.store != nil && !m.saved {
			m.scoreID, m.saveErr = m.store.SaveResult(*final)
			m.saved = true
			if m.saveErr != nil {
				m.logger.Error("failed to save result", "err", m.saveErr)
			}
		}
	}

	return m, frameCmd(renderFPS)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.machine.State() {
	case app.StateResult:
		if r := m.machine.Result(); r != nil {
			return renderResult(*r, m.scoreID, m.saveErr, m.width)
		}
		return ""
	default:
		if !m.hasSnap {
			return "loading..."
		}
		out := renderPlayfield(m.snap, m.cfg.ScrollMS, m.width, m.height)
		if bar := renderProgress(m.snap, m.width); bar != "" {
			out += "\n" + bar
		}
		if m.paused {
			out += "\n" + comboStyle.Render("PAUSED") + hudStyle.Render("  (p to resume, q to quit)")
		} else if m.snap.TimeMS < 0 {
			out += "\n" + hudStyle.Render("get ready...")
		}
		return out
	}
}

// IsQuitting reports whether the player exited the session.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Run starts one play-through of a chart in the local terminal and
// blocks until the player quits or the chart finishes.
func Run(c *chart.Chart, settings config.Settings, cfg session.Config, store *storage.Store, logger *log.Logger) error {
	km, err := settings.Keymap(c.KeyCount)
	if err != nil {
		return err
	}

	b := bus.New()
	transport := audio.NewTransport()
	machine := app.NewMachine(logger)
	if err := machine.EnterGame(c, km, transport, transport, b, cfg); err != nil {
		return err
	}

	model := NewModel(machine, b, store, km, c, settings, cfg, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	machine.ToMenu()
	return err
}
