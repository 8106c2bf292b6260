package session

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Glubus/prism-vsrg/internal/audio"
	"github.com/Glubus/prism-vsrg/internal/bus"
	"github.com/Glubus/prism-vsrg/internal/chart"
	"github.com/Glubus/prism-vsrg/internal/engine"
	"github.com/Glubus/prism-vsrg/internal/input"
	"github.com/Glubus/prism-vsrg/internal/replay"
)

// stubClock reports a fixed audio position. A position far past the
// chart's end makes the simulation clock hard-sync forward, so a run
// to completion takes a tick instead of real minutes.
type stubClock struct {
	ms     float64
	signal bool
}

func (c *stubClock) PositionMS() (float64, bool) { return c.ms, c.signal }

// recordingSink captures transport commands for inspection.
type recordingSink struct {
	mu   sync.Mutex
	cmds []audio.Command
}

func (s *recordingSink) Submit(cmd audio.Command) {
	s.mu.Lock()
	s.cmds = append(s.cmds, cmd)
	s.mu.Unlock()
}

func (s *recordingSink) kinds() []audio.CommandKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]audio.CommandKind, len(s.cmds))
	for i, c := range s.cmds {
		out[i] = c.Kind
	}
	return out
}

func testChart() *chart.Chart {
	return &chart.Chart{
		Title:    "Session Test",
		KeyCount: 4,
		MinRate:  0.5,
		MaxRate:  2.0,
		Notes: []chart.Note{
			{TimeMS: 100, Lane: 0},
			{TimeMS: 200, Lane: 1},
		},
	}
}

func newTestSession(t *testing.T, aclock audio.Clock, sink audio.Sink, cfg Config) (*Session, *bus.Bus) {
	t.Helper()
	km, err := input.DefaultKeymap(4)
	if err != nil {
		t.Fatalf("DefaultKeymap() failed: %v", err)
	}
	b := bus.New()
	s, err := New(testChart(), km, aclock, sink, b, cfg, log.New(io.Discard))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return s, b
}

func waitDone(t *testing.T, s *Session) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("session did not finish in time")
	}
}

func TestNewRejectsInvalidChart(t *testing.T) {
	km, err := input.DefaultKeymap(4)
	if err != nil {
		t.Fatalf("DefaultKeymap() failed: %v", err)
	}
	empty := &chart.Chart{KeyCount: 4}
	_, err = New(empty, km, &stubClock{}, &recordingSink{}, bus.New(), Config{Rate: 1.0}, log.New(io.Discard))
	if err == nil {
		t.Error("expected an error for an empty chart")
	}
}

func TestSimTimeStartsAtPreRoll(t *testing.T) {
	s, _ := newTestSession(t, &stubClock{}, &recordingSink{}, Config{Rate: 1.0})
	if got := s.SimTimeMS(); got != -3000 {
		t.Errorf("SimTimeMS() = %.1f, want -3000", got)
	}
}

func TestSessionRunsToCompletion(t *testing.T) {
	// Chart ends at 200ms; 200ms + the 2s tail is well behind 6000ms,
	// so the first synced tick already finishes the session.
	sink := &recordingSink{}
	s, b := newTestSession(t, &stubClock{ms: 6000, signal: true}, sink, Config{Rate: 1.0})

	s.Start()
	waitDone(t, s)

	final := s.Finalize()
	if final.Stats.Miss != 2 {
		t.Errorf("untouched notes: miss = %d, want 2", final.Stats.Miss)
	}
	if final.Score != 0 {
		t.Errorf("score = %d, want 0", final.Score)
	}

	// The pump exits with the session, so a command issued on the final
	// tick may still sit in the bus. Count both.
	kinds := sink.kinds()
	for {
		select {
		case cmd := <-b.AudioCommands():
			kinds = append(kinds, cmd.Kind)
			continue
		default:
		}
		break
	}
	var sawRate, sawPlay bool
	for _, k := range kinds {
		switch k {
		case audio.CmdSetRate:
			sawRate = true
		case audio.CmdPlay:
			sawPlay = true
		}
	}
	if !sawRate {
		t.Error("transport never received the rate command")
	}
	if !sawPlay {
		t.Error("transport never received the play command")
	}
}

func TestStopClosesDone(t *testing.T) {
	// No audio signal: the clock free-runs through the pre-roll and the
	// session would take seconds to finish on its own.
	s, _ := newTestSession(t, &stubClock{}, &recordingSink{}, Config{Rate: 1.0})

	s.Start()
	s.Stop()
	s.Stop() // idempotent
	waitDone(t, s)
}

func TestControlAfterDoneDoesNotBlock(t *testing.T) {
	s, _ := newTestSession(t, &stubClock{ms: 6000, signal: true}, &recordingSink{}, Config{Rate: 1.0})
	s.Start()
	waitDone(t, s)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			s.Control(CtrlPause)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Control() blocked after the session finished")
	}
}

func TestFinalizeCarriesConfiguration(t *testing.T) {
	cfg := Config{
		Rate:        1.25,
		WindowMode:  engine.ModeEtternaJudge,
		WindowValue: 4,
	}
	s, _ := newTestSession(t, &stubClock{ms: 6000, signal: true}, &recordingSink{}, cfg)
	s.Start()
	waitDone(t, s)

	final := s.Finalize()
	c := testChart()
	if final.ChartHash != c.Hash() {
		t.Errorf("chart hash = %q, want %q", final.ChartHash, c.Hash())
	}
	if final.ChartTitle != "Session Test" {
		t.Errorf("chart title = %q", final.ChartTitle)
	}
	if final.Rate != 1.25 {
		t.Errorf("rate = %.2f, want 1.25", final.Rate)
	}
	if final.WindowMode != engine.ModeEtternaJudge || final.WindowValue != 4 {
		t.Errorf("window = %v/%.0f, want judge/4", final.WindowMode, final.WindowValue)
	}
	if final.Replay.Version != replay.FormatVersion {
		t.Errorf("replay version = %d, want %d", final.Replay.Version, replay.FormatVersion)
	}
	if final.Replay.Rate != 1.25 {
		t.Errorf("replay rate = %.2f, want 1.25", final.Replay.Rate)
	}
}

func TestRateClampedAtConstruction(t *testing.T) {
	s, _ := newTestSession(t, &stubClock{}, &recordingSink{}, Config{Rate: 9.0})
	if s.cfg.Rate != 2.0 {
		t.Errorf("rate = %.2f, want clamp to 2.0", s.cfg.Rate)
	}
}
