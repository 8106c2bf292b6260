package engine

import (
	"fmt"

	"github.com/Glubus/prism-vsrg/internal/chart"
)

// Action is a logical lane event produced by the input stage. TimeMS is
// on the simulation clock; each action is consumed exactly once.
type Action struct {
	Lane   int
	Press  bool
	TimeMS float64
}

// GhostTapPolicy controls what a press with no note in window does.
type GhostTapPolicy int

const (
	// GhostIgnore tracks the tap in stats with no score or combo effect.
	GhostIgnore GhostTapPolicy = iota
	// GhostPenalize counts the tap as a combo-breaking miss.
	GhostPenalize
)

// ParseGhostTapPolicy converts a config string into a policy.
func ParseGhostTapPolicy(s string) (GhostTapPolicy, error) {
	switch s {
	case "ignore", "":
		return GhostIgnore, nil
	case "penalize":
		return GhostPenalize, nil
	default:
		return GhostIgnore, fmt.Errorf("engine: unknown ghost tap policy %q", s)
	}
}

// Config is the per-session judgement configuration.
type Config struct {
	WindowMode   WindowMode
	WindowValue  float64
	GhostTaps    GhostTapPolicy
	PracticeMode bool
}

// DefaultConfig returns the baseline judgement configuration (OD 5).
func DefaultConfig() Config {
	return Config{
		WindowMode:  ModeOsuOD,
		WindowValue: 5.0,
	}
}

// noteState is the mutable runtime state of one chart note. The chart
// itself is never touched.
type noteState struct {
	headResolved bool
	tailResolved bool
	headJudge    Judgement
	tailJudge    Judgement
}

func (st noteState) resolved() bool {
	return st.headResolved && st.tailResolved
}

// HP gauge tuning.
const (
	hpMax      = 100.0
	hpHitGain  = 0.5
	hpBadLoss  = 2.0
	hpMissLoss = 8.0
)

// Engine consumes the ordered note sequence and lane actions, producing
// judgements and running score/combo/accuracy state. It is owned by a
// single goroutine; all timing decisions use the simulation clock
// passed into Advance, never wall time.
type Engine struct {
	chart *chart.Chart
	cfg   Config

	window  Window
	release Window

	notes      []noteState
	laneNotes  [][]int // chart note indices grouped per lane, time-ordered
	head       []int   // per-lane cursor into laneNotes: first unresolved head
	activeHold []int   // chart note index of the held note per lane, -1 if none

	score    int
	combo    int
	maxCombo int
	stats    Stats
	hp       float64
	results  []Result

	lastJudge  Judgement
	lastDelta  float64
	hasJudged  bool
	keysHeld   []bool
	inputTimes []float64 // press times in the trailing NPS window
	nps        float64

	nowMS float64

	checkpoints      []float64
	lastCheckpointMS float64
}

// New constructs an engine for one play session. The chart is validated
// here: structural violations abort session construction.
func New(c *chart.Chart, cfg Config) (*Engine, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		chart:            c,
		cfg:              cfg,
		window:           WindowFor(cfg.WindowMode, cfg.WindowValue),
		notes:            make([]noteState, len(c.Notes)),
		laneNotes:        make([][]int, c.KeyCount),
		head:             make([]int, c.KeyCount),
		activeHold:       make([]int, c.KeyCount),
		keysHeld:         make([]bool, c.KeyCount),
		hp:               hpMax,
		nowMS:            -preRollMS,
		lastCheckpointMS: -1 << 40,
	}
	e.release = e.window.Release()
	for i, n := range c.Notes {
		e.laneNotes[n.Lane] = append(e.laneNotes[n.Lane], i)
	}
	for lane := range e.activeHold {
		e.activeHold[lane] = -1
	}
	return e, nil
}

// Window returns the active tap hit window.
func (e *Engine) Window() Window { return e.window }

// Chart returns the immutable note sequence driving this engine.
func (e *Engine) Chart() *chart.Chart { return e.chart }

// Results returns the append-only judgement log.
func (e *Engine) Results() []Result { return e.results }

// Stats returns the current judgement histogram.
func (e *Engine) Stats() Stats { return e.stats }

// Score returns the current score.
func (e *Engine) Score() int { return e.score }

// Combo returns the current and maximum combo.
func (e *Engine) Combo() (int, int) { return e.combo, e.maxCombo }

// HeadIndex returns the per-lane cursor, exposed for checkpoint capture
// and tests.
func (e *Engine) HeadIndex(lane int) int { return e.head[lane] }

// Finished reports whether the session is over: simulation time is past
// every note (and hold tail) plus a grace period.
func (e *Engine) Finished() bool {
	return e.nowMS > e.chart.Duration()+2000.0
}

// Advance runs the miss sweep up to toMS. It runs every tick regardless
// of input, which guarantees untouched notes eventually resolve to
// exactly one miss each. Time never moves backwards except through
// checkpoint restore.
func (e *Engine) Advance(toMS float64) {
	if toMS < e.nowMS {
		return
	}
	e.nowMS = toMS

	for lane := range e.head {
		// Dropped holds: the release window closed without a release.
		if idx := e.activeHold[lane]; idx >= 0 {
			n := e.chart.Notes[idx]
			if toMS > n.HoldEndMS+e.release.MissMS {
				e.resolveTail(idx, lane, JudgeMiss, e.release.MissMS)
			}
		}

		laneSeq := e.laneNotes[lane]
		for e.head[lane] < len(laneSeq) {
			idx := laneSeq[e.head[lane]]
			st := &e.notes[idx]
			if st.headResolved {
				e.head[lane]++
				continue
			}
			n := e.chart.Notes[idx]
			if toMS <= n.TimeMS+e.window.MissMS {
				break
			}
			// Head missed; a missed hold never becomes active, so its
			// tail resolves as miss immediately.
			st.headResolved = true
			st.headJudge = JudgeMiss
			e.emit(Result{
				NoteIndex: idx, Lane: lane, DeltaMS: e.window.MissMS,
				Judgement: JudgeMiss, TimeMS: toMS,
			})
			if n.IsHold() {
				e.resolveTail(idx, lane, JudgeMiss, e.release.MissMS)
			} else {
				st.tailResolved = true
			}
			e.head[lane]++
		}
	}

	e.updateNPS()
}

// Apply consumes one lane action. The caller must feed actions in
// non-decreasing timestamp order and Advance to the action time first;
// the session loop and the resimulator both follow that discipline, so
// live play and replay share this exact code path.
func (e *Engine) Apply(a Action) {
	if a.Lane < 0 || a.Lane >= e.chart.KeyCount {
		return
	}
	e.keysHeld[a.Lane] = a.Press

	if a.Press {
		e.inputTimes = append(e.inputTimes, a.TimeMS)
		e.applyPress(a)
		return
	}
	e.applyRelease(a)
}

func (e *Engine) applyPress(a Action) {
	laneSeq := e.laneNotes[a.Lane]
	limit := a.TimeMS + e.window.MissMS

	for i := e.head[a.Lane]; i < len(laneSeq); i++ {
		idx := laneSeq[i]
		st := &e.notes[idx]
		if st.headResolved {
			continue
		}
		n := e.chart.Notes[idx]
		if n.TimeMS > limit {
			break
		}

		delta := a.TimeMS - n.TimeMS
		judge, consumed := e.window.Judge(delta)
		if !consumed {
			break
		}

		st.headResolved = true
		st.headJudge = judge
		e.emit(Result{
			NoteIndex: idx, Lane: a.Lane, DeltaMS: delta,
			Judgement: judge, ScoreDelta: judge.Score(), TimeMS: a.TimeMS,
		})
		if n.IsHold() && judge != JudgeMiss {
			e.activeHold[a.Lane] = idx
		} else {
			st.tailResolved = true
			if n.IsHold() {
				// Head consumed as a miss: the hold never activates.
				e.resolveTail(idx, a.Lane, JudgeMiss, e.release.MissMS)
			}
		}
		// First unresolved note in window wins; move the cursor past it.
		e.head[a.Lane] = i + 1
		return
	}

	// No note in window: ghost tap.
	judge := JudgeGhostTap
	if e.cfg.GhostTaps == GhostPenalize {
		judge = JudgeMiss
	}
	e.emit(Result{
		NoteIndex: -1, Lane: a.Lane, DeltaMS: 0,
		Judgement: judge, TimeMS: a.TimeMS,
	})
}

func (e *Engine) applyRelease(a Action) {
	idx := e.activeHold[a.Lane]
	if idx < 0 {
		return
	}
	n := e.chart.Notes[idx]
	delta := a.TimeMS - n.HoldEndMS
	judge, _ := e.release.Judge(delta)
	if delta < -e.release.MissMS {
		// Let go long before the release window: dropped hold.
		judge = JudgeMiss
		delta = -e.release.MissMS
	}
	e.resolveTail(idx, a.Lane, judge, delta)
}

// resolveTail finishes a hold note's release half.
func (e *Engine) resolveTail(idx, lane int, judge Judgement, delta float64) {
	st := &e.notes[idx]
	st.tailResolved = true
	st.tailJudge = judge
	if e.activeHold[lane] == idx {
		e.activeHold[lane] = -1
	}
	e.emit(Result{
		NoteIndex: idx, Lane: lane, DeltaMS: delta,
		Judgement: judge, ScoreDelta: judge.Score(), Release: true,
		TimeMS: e.nowMS,
	})
}

// emit appends to the judgement log and folds the entry into the
// running aggregates.
func (e *Engine) emit(r Result) {
	if r.Judgement == JudgeGhostTap || (r.NoteIndex < 0 && r.Judgement == JudgeMiss) {
		r.ScoreDelta = 0
	}
	e.results = append(e.results, r)
	e.fold(r)
}

// fold applies one log entry to score/combo/stats/hp. Checkpoint
// restore rebuilds the aggregates by refolding the truncated log, so
// this must stay a pure function of the entry.
func (e *Engine) fold(r Result) {
	e.stats.Add(r.Judgement)
	e.score += r.ScoreDelta

	switch {
	case r.Judgement == JudgeGhostTap:
		// No combo or HP effect.
	case r.Judgement.BreaksCombo():
		e.combo = 0
		e.hp -= hpMissLoss
	case r.Judgement == JudgeBad:
		e.combo++
		e.hp -= hpBadLoss
	default:
		e.combo++
		e.hp += hpHitGain
	}
	if e.combo > e.maxCombo {
		e.maxCombo = e.combo
	}
	if e.hp > hpMax {
		e.hp = hpMax
	}
	if e.hp < 0 {
		e.hp = 0
	}

	if r.NoteIndex >= 0 {
		e.lastJudge = r.Judgement
		e.lastDelta = r.DeltaMS
		e.hasJudged = true
	}
}

// updateNPS prunes the trailing one-second input window.
func (e *Engine) updateNPS() {
	cutoff := e.nowMS - 1000.0
	drop := 0
	for drop < len(e.inputTimes) && e.inputTimes[drop] < cutoff {
		drop++
	}
	if drop > 0 {
		e.inputTimes = e.inputTimes[drop:]
	}
	e.nps = float64(len(e.inputTimes))
}
