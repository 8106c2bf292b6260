package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/Glubus/prism-vsrg/internal/app"
	"github.com/Glubus/prism-vsrg/internal/audio"
	"github.com/Glubus/prism-vsrg/internal/bus"
	"github.com/Glubus/prism-vsrg/internal/chart"
	"github.com/Glubus/prism-vsrg/internal/config"
	"github.com/Glubus/prism-vsrg/internal/session"
	"github.com/Glubus/prism-vsrg/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.prism/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// ChartDir is the directory served to remote players.
	ChartDir string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.prism/scores.db",
		ChartDir:    "charts",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server serving the game to remote
// terminals. Remote play has no audio device, so sessions run on the
// headless transport clock; judgement works the same as local play.
type SSHServer struct {
	config   SSHServerConfig
	settings config.Settings
	server   *ssh.Server
	store    *storage.Store
	logger   *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, settings config.Settings) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "prism-ssh",
	})

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage.
	}

	srv := &SSHServer{
		config:   cfg,
		settings: settings,
		store:    store,
		logger:   logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".prism", "host_key")
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	model := NewSessionModel(s.store, s.settings, s.config.ChartDir, s.logger.With("user", sshSession.User()))
	model.width = pty.Window.Width
	model.height = pty.Window.Height

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionModel manages the full remote flow: menu -> play -> result ->
// menu. This is the top-level model used for SSH sessions.
type SessionModel struct {
	store     *storage.Store
	settings  config.Settings
	chartDir  string
	logger    *log.Logger
	menu      MenuModel
	gameModel *Model
	width     int
	height    int
	inGame    bool
	quitting  bool
}

// NewSessionModel creates a new session model rooted at the menu.
func NewSessionModel(store *storage.Store, settings config.Settings, chartDir string, logger *log.Logger) SessionModel {
	menu, err := NewMenuModel(chartDir, store)
	if err != nil {
		logger.Warn("could not scan chart directory", "dir", chartDir, "error", err)
	}
	return SessionModel{
		store:    store,
		settings: settings,
		chartDir: chartDir,
		logger:   logger,
		menu:     menu,
	}
}

func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	if m.inGame && m.gameModel != nil {
		return m.updateGame(msg)
	}
	return m.updateMenu(msg)
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.quitting {
		m.quitting = true
		return m, tea.Quit
	}

	if sel := m.menu.selected; sel != nil {
		gameModel, err := m.startGame(sel.Path, m.menu.rate, m.menu.practice)
		if err != nil {
			m.logger.Error("could not start session", "chart", sel.Path, "error", err)
			m.menu.selected = nil
			return m, nil
		}
		m.gameModel = gameModel
		m.inGame = true
		return m, m.gameModel.Init()
	}

	return m, cmd
}

// startGame loads the selected chart and spins up a live session with
// a headless audio transport.
func (m *SessionModel) startGame(path string, rate float64, practice bool) (*Model, error) {
	c, err := chart.Load(path)
	if err != nil {
		return nil, err
	}
	km, err := m.settings.Keymap(c.KeyCount)
	if err != nil {
		return nil, err
	}

	cfg := session.Config{
		Rate:        rate,
		WindowMode:  m.settings.WindowMode(),
		WindowValue: m.settings.HitWindow.Value,
		GhostTaps:   m.settings.GhostTaps(),
		Practice:    practice,
		TPS:         m.settings.TPS,
		ScrollMS:    m.settings.ScrollSpeedMS,
	}

	b := bus.New()
	transport := audio.NewTransport()
	machine := app.NewMachine(m.logger)
	if err := machine.EnterGame(c, km, transport, transport, b, cfg); err != nil {
		return nil, err
	}

	model := NewModel(machine, b, m.store, km, c, m.settings, cfg, m.logger)
	model.width = m.width
	model.height = m.height
	return &model, nil
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.gameModel = &gameModel
	}

	// A quit inside a remote game returns to the menu rather than
	// closing the connection; the inner tea.Quit is swallowed.
	if m.gameModel.IsQuitting() {
		m.inGame = false
		m.gameModel = nil
		menu, err := NewMenuModel(m.chartDir, m.store)
		if err == nil {
			menu.width = m.width
			menu.height = m.height
			m.menu = menu
		}
		return m, m.menu.Init()
	}

	return m, cmd
}

func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	if m.inGame && m.gameModel != nil {
		return m.gameModel.View()
	}
	return m.menu.View()
}
