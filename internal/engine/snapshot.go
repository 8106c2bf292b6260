package engine

// NoteState is the visual lifecycle phase of a note in a snapshot.
type NoteState int

const (
	NoteUpcoming NoteState = iota
	NoteActiveHold
	NoteResolved
)

// NoteView is the render-ready projection of one chart note.
type NoteView struct {
	Index     int
	Lane      int
	TimeMS    float64
	HoldEndMS float64
	Hold      bool
	State     NoteState
	// Judgement is meaningful only when State == NoteResolved.
	Judgement Judgement
}

// Snapshot is the immutable value object produced once per logic tick.
// Ownership transfers to the bus on send; consumers hold only the
// latest one.
type Snapshot struct {
	TimeMS   float64
	Rate     float64
	KeyCount int

	Score     int
	Combo     int
	MaxCombo  int
	Accuracy  float64
	HP        float64
	Stats     Stats
	Remaining int

	Notes    []NoteView
	KeysHeld []bool

	LastJudgement Judgement
	LastDeltaMS   float64
	HasJudgement  bool
	NPS           float64

	Practice    bool
	Checkpoints []float64

	DurationMS float64
	Finished   bool
}

// Snapshot projects the engine state into a render-ready value. Only
// notes inside the visible window around the current time are included.
// The projection is pure: no side effects, no I/O, never blocks.
func (e *Engine) Snapshot(rate, visibleMS float64) Snapshot {
	horizon := e.nowMS + visibleMS*rate + 2000.0

	var views []NoteView
	for idx, n := range e.chart.Notes {
		end := n.TimeMS
		if n.IsHold() {
			end = n.HoldEndMS
		}
		if end < e.nowMS-200.0 {
			continue
		}
		if n.TimeMS > horizon {
			break
		}

		st := e.notes[idx]
		view := NoteView{
			Index:     idx,
			Lane:      n.Lane,
			TimeMS:    n.TimeMS,
			HoldEndMS: n.HoldEndMS,
			Hold:      n.IsHold(),
		}
		switch {
		case st.resolved():
			view.State = NoteResolved
			view.Judgement = st.headJudge
			if n.IsHold() && st.tailJudge.BreaksCombo() {
				view.Judgement = st.tailJudge
			}
		case st.headResolved && n.IsHold():
			view.State = NoteActiveHold
		default:
			view.State = NoteUpcoming
		}
		views = append(views, view)
	}

	keys := make([]bool, len(e.keysHeld))
	copy(keys, e.keysHeld)
	cps := make([]float64, len(e.checkpoints))
	copy(cps, e.checkpoints)

	return Snapshot{
		TimeMS:        e.nowMS,
		Rate:          rate,
		KeyCount:      e.chart.KeyCount,
		Score:         e.score,
		Combo:         e.combo,
		MaxCombo:      e.maxCombo,
		Accuracy:      e.stats.Accuracy(),
		HP:            e.hp,
		Stats:         e.stats,
		Remaining:     e.chart.NoteCount() - e.stats.Judged(),
		Notes:         views,
		KeysHeld:      keys,
		LastJudgement: e.lastJudge,
		LastDeltaMS:   e.lastDelta,
		HasJudgement:  e.hasJudged,
		NPS:           e.nps,
		Practice:      e.cfg.PracticeMode,
		Checkpoints:   cps,
		DurationMS:    e.chart.Duration(),
		Finished:      e.Finished(),
	}
}
