// Package session wires one live play session together: the fixed-rate
// logic loop that owns the judgement engine and simulation clock, the
// input stage goroutine, and the audio command pump. All cross-thread
// traffic goes through the bus; engine and clock state belong to the
// logic goroutine exclusively.
package session

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Glubus/prism-vsrg/internal/audio"
	"github.com/Glubus/prism-vsrg/internal/bus"
	"github.com/Glubus/prism-vsrg/internal/chart"
	"github.com/Glubus/prism-vsrg/internal/engine"
	"github.com/Glubus/prism-vsrg/internal/input"
	"github.com/Glubus/prism-vsrg/internal/replay"
)

// DefaultTPS is the fixed logic rate.
const DefaultTPS = 200

// Config is the per-session gameplay configuration.
type Config struct {
	Rate        float64
	WindowMode  engine.WindowMode
	WindowValue float64
	GhostTaps   engine.GhostTapPolicy
	Practice    bool
	TPS         int
	ScrollMS    float64
}

// ControlKind enumerates UI-originated session controls.
type ControlKind int

const (
	CtrlPause ControlKind = iota
	CtrlResume
	CtrlPlaceCheckpoint
	CtrlRestoreCheckpoint
)

// FinalData is what a finished session hands to the Result state:
// final stats plus the recorded replay, written once at session end.
type FinalData struct {
	ChartHash   string
	ChartTitle  string
	Score       int
	MaxCombo    int
	Accuracy    float64
	Stats       engine.Stats
	Rate        float64
	WindowMode  engine.WindowMode
	WindowValue float64
	Replay      replay.Data
}

// Session runs one play-through of a chart.
type Session struct {
	cfg    Config
	chart  *chart.Chart
	bus    *bus.Bus
	eng    *engine.Engine
	clock  *engine.Clock
	stage  *input.Stage
	rec    *replay.Recorder
	sink   audio.Sink
	aclock audio.Clock
	logger *log.Logger

	controls chan ControlKind
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	// simBits publishes the simulation clock to the input goroutine for
	// action timestamping; everything else about the clock is private
	// to the logic loop.
	simBits atomic.Uint64

	paused atomic.Bool
}

// New constructs a session. Chart validation happens inside engine
// construction; a structural failure here aborts entering the Game
// state.
func New(c *chart.Chart, km *input.Keymap, aclock audio.Clock, sink audio.Sink, b *bus.Bus, cfg Config, logger *log.Logger) (*Session, error) {
	if cfg.TPS <= 0 {
		cfg.TPS = DefaultTPS
	}
	if cfg.ScrollMS <= 0 {
		cfg.ScrollMS = 500.0
	}
	cfg.Rate = engine.ClampRate(cfg.Rate)

	eng, err := engine.New(c, engine.Config{
		WindowMode:   cfg.WindowMode,
		WindowValue:  cfg.WindowValue,
		GhostTaps:    cfg.GhostTaps,
		PracticeMode: cfg.Practice,
	})
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:      cfg,
		chart:    c,
		bus:      b,
		eng:      eng,
		clock:    engine.NewClock(cfg.Rate),
		stage:    input.NewStage(km),
		rec:      replay.NewRecorder(cfg.Rate, cfg.WindowMode, cfg.WindowValue, cfg.Practice),
		sink:     sink,
		aclock:   aclock,
		logger:   logger,
		controls: make(chan ControlKind, 16),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	s.simBits.Store(math.Float64bits(s.clock.NowMS()))
	return s, nil
}

// SimTimeMS returns the last published simulation time. Safe from any
// goroutine.
func (s *Session) SimTimeMS() float64 {
	return math.Float64frombits(s.simBits.Load())
}

// Control requests a pause/checkpoint operation from the UI thread.
func (s *Session) Control(k ControlKind) {
	select {
	case s.controls <- k:
	case <-s.done:
	}
}

// Done is closed when the logic loop has exited, either because the
// chart finished or the session was stopped.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Stop aborts the session. Idempotent; the next tick is simply never
// issued.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Start launches the input stage and logic goroutines and starts audio
// playback through the command sink.
func (s *Session) Start() {
	go s.inputLoop()
	go s.audioPump()
	go s.logicLoop()
}

// inputLoop maps raw key transitions to lane actions. Single producer
// on the action channel, so timestamp order is preserved end to end.
func (s *Session) inputLoop() {
	for {
		select {
		case ev := <-s.bus.RawInput():
			if ev.TimeMS == 0 {
				ev.TimeMS = s.SimTimeMS()
			}
			if a, ok := s.stage.Process(ev); ok {
				s.bus.SendAction(a)
			}
		case <-s.done:
			return
		}
	}
}

// audioPump forwards logic-thread transport commands to the sink. The
// audio side never blocks on gameplay threads.
func (s *Session) audioPump() {
	for {
		select {
		case cmd := <-s.bus.AudioCommands():
			s.sink.Submit(cmd)
		case <-s.done:
			return
		}
	}
}

// logicLoop is the fixed-rate tick. It alone touches the engine and
// clock. Each tick: advance and reconcile the clock, drain queued
// actions in order, run the miss sweep, publish a snapshot.
func (s *Session) logicLoop() {
	defer close(s.done)

	tickInterval := time.Second / time.Duration(s.cfg.TPS)
	dt := tickInterval.Seconds()
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	s.bus.SendAudioCommand(audio.Command{Kind: audio.CmdSetRate, Value: s.cfg.Rate})

	started := false
	actions := make([]engine.Action, 0, 64)

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}

		for len(s.controls) > 0 {
			s.handleControl(<-s.controls)
		}
		if s.paused.Load() {
			continue
		}

		audioMS, hasAudio := s.aclock.PositionMS()
		now := s.clock.Tick(dt, audioMS, hasAudio)
		s.simBits.Store(math.Float64bits(now))

		// Pre-roll ends at time zero: start the device.
		if !started && now >= 0 {
			s.bus.SendAudioCommand(audio.Command{Kind: audio.CmdPlay})
			started = true
		}

		actions = s.bus.DrainActions(actions[:0])
		for _, a := range actions {
			s.rec.Observe(a)
			s.eng.Advance(a.TimeMS)
			s.eng.Apply(a)
		}
		s.eng.Advance(now)

		s.bus.PublishSnapshot(s.eng.Snapshot(s.cfg.Rate, s.cfg.ScrollMS))

		if s.eng.Finished() {
			s.logger.Info("session finished",
				"score", s.eng.Score(),
				"accuracy", s.eng.Stats().Accuracy())
			return
		}
	}
}

func (s *Session) handleControl(k ControlKind) {
	switch k {
	case CtrlPause:
		if s.paused.CompareAndSwap(false, true) {
			s.bus.SendAudioCommand(audio.Command{Kind: audio.CmdPause})
		}
	case CtrlResume:
		if s.paused.CompareAndSwap(true, false) {
			s.bus.SendAudioCommand(audio.Command{Kind: audio.CmdPlay})
		}
	case CtrlPlaceCheckpoint:
		if s.eng.PlaceCheckpoint() {
			t := s.SimTimeMS()
			s.rec.Checkpoint(t)
			s.logger.Info("checkpoint placed", "time_ms", t)
		}
	case CtrlRestoreCheckpoint:
		retry, ok := s.eng.RestoreCheckpoint()
		if !ok {
			return
		}
		// Atomic swap of clock and engine state; the input stage and
		// recording rewind with it.
		s.clock.Seek(retry)
		s.simBits.Store(math.Float64bits(retry))
		s.rec.TruncateAfter(retry)
		s.stage.Reset()
		s.bus.SendAudioCommand(audio.Command{Kind: audio.CmdSeek, Value: retry})
		s.logger.Info("checkpoint restored", "time_ms", retry)
	}
}

// Finalize assembles the persisted record. Call only after Done.
func (s *Session) Finalize() FinalData {
	_, maxCombo := s.eng.Combo()
	return FinalData{
		ChartHash:   s.chart.Hash(),
		ChartTitle:  s.chart.Title,
		Score:       s.eng.Score(),
		MaxCombo:    maxCombo,
		Accuracy:    s.eng.Stats().Accuracy(),
		Stats:       s.eng.Stats(),
		Rate:        s.cfg.Rate,
		WindowMode:  s.cfg.WindowMode,
		WindowValue: s.cfg.WindowValue,
		Replay:      s.rec.Data(),
	}
}
